package base

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	httputil "github.com/OlliePage/temp-identity-project/internal/http"
	"github.com/OlliePage/temp-identity-project/pkg/providers/common/config"
	"github.com/OlliePage/temp-identity-project/pkg/types"
)

// ProviderInitConfig holds common initialization parameters for providers.
type ProviderInitConfig struct {
	// Provider identification
	Descriptor types.ProviderDescriptor

	// Provider configuration as supplied by the caller
	Config types.ProviderConfig

	// Fallbacks for absent configuration keys
	Defaults config.Defaults

	// Headers sent with every request, e.g. a static API key header
	Headers map[string]string

	// Transport overrides the HTTP round tripper; nil uses the default
	Transport http.RoundTripper

	// Logging; nil discards output
	Logger *zap.Logger
}

// ProviderComponents holds initialized components ready for use by providers.
type ProviderComponents struct {
	// Base provider with descriptor, logging and request plumbing
	BaseProvider *BaseProvider

	// HTTP client for API requests
	HTTPClient *httputil.HTTPClient

	// Configuration helper
	ConfigHelper *config.ConfigHelper

	// Extracted configuration values
	BaseURL      string
	Timeout      time.Duration
	RateLimit    float64
	MergedConfig types.ProviderConfig
}
