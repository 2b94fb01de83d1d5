package base

import (
	httputil "github.com/OlliePage/temp-identity-project/internal/http"
	"github.com/OlliePage/temp-identity-project/pkg/providers/common/config"
)

// InitializeProviderComponents sets up common provider infrastructure:
// configuration merging and validation, the rate-limited HTTP client with
// per-request timeout and default headers, and the base provider.
//
// It never fails. Invalid configuration is recorded on the base provider
// (see BaseProvider.ConfigError) so that every operation reports failure
// without touching the network.
//
// Example usage:
//
//	components := base.InitializeProviderComponents(base.ProviderInitConfig{
//	    Descriptor: descriptor,
//	    Config:     cfg,
//	    Defaults:   config.Defaults{BaseURL: DefaultBaseURL},
//	})
//	p := &Provider{BaseProvider: components.BaseProvider}
func InitializeProviderComponents(cfg ProviderInitConfig) *ProviderComponents {
	configHelper := config.NewConfigHelper(cfg.Descriptor.Name, cfg.Defaults)
	mergedConfig := configHelper.MergeWithDefaults(cfg.Config)

	baseURL := configHelper.ExtractBaseURL(mergedConfig)
	timeout := configHelper.ExtractTimeout(mergedConfig)
	rateLimit := configHelper.ExtractRateLimit(mergedConfig)

	headers := httputil.CommonHTTPHeaders()
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	client := httputil.NewHTTPClientBuilder().
		WithTimeout(timeout).
		WithHeaders(headers).
		WithRateLimit(rateLimit, 1).
		WithTransport(cfg.Transport).
		Build()

	baseProvider := NewBaseProvider(cfg.Descriptor, mergedConfig, client, baseURL, cfg.Logger)

	if err := configHelper.ValidateProviderConfig(cfg.Config, false).Err(cfg.Descriptor.Name); err != nil {
		baseProvider.SetConfigError(err)
	}

	return &ProviderComponents{
		BaseProvider: baseProvider,
		HTTPClient:   client,
		ConfigHelper: configHelper,
		BaseURL:      baseURL,
		Timeout:      timeout,
		RateLimit:    rateLimit,
		MergedConfig: mergedConfig,
	}
}
