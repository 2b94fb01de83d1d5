// Package base provides common functionality shared by provider adapters:
// descriptor and configuration handling, the shared HTTP client, request
// execution, response parsing and logger wiring.
package base

import (
	"sync"

	"go.uber.org/zap"

	httputil "github.com/OlliePage/temp-identity-project/internal/http"
	"github.com/OlliePage/temp-identity-project/pkg/providers/common/config"
	"github.com/OlliePage/temp-identity-project/pkg/types"
)

// BaseProvider provides common functionality for all providers
type BaseProvider struct {
	descriptor types.ProviderDescriptor
	config     types.ProviderConfig
	client     *httputil.HTTPClient
	handler    *DefaultRequestHandler
	parser     *DefaultResponseParser
	logger     *zap.Logger
	configErr  error
	mutex      sync.RWMutex
}

// NewBaseProvider creates a new base provider. A nil logger discards output.
func NewBaseProvider(descriptor types.ProviderDescriptor, cfg types.ProviderConfig, client *httputil.HTTPClient, baseURL string, logger *zap.Logger) *BaseProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if client == nil {
		client = httputil.NewHTTPClient(httputil.HTTPClientConfig{})
	}
	logger = logger.With(zap.String("provider", descriptor.Name))

	return &BaseProvider{
		descriptor: descriptor,
		config:     cfg.Clone(),
		client:     client,
		handler:    NewDefaultRequestHandler(client, descriptor.Name, baseURL, logger),
		parser:     NewDefaultResponseParser(descriptor.Name),
		logger:     logger,
	}
}

// Descriptor returns the static provider identity
func (p *BaseProvider) Descriptor() types.ProviderDescriptor {
	return p.descriptor
}

// SetupFields derives the configuration inputs from the descriptor
func (p *BaseProvider) SetupFields() []types.SetupField {
	return p.descriptor.SetupFields()
}

// Name returns the registry name of the provider
func (p *BaseProvider) Name() string {
	return p.descriptor.Name
}

// GetConfig returns a copy of the provider configuration
func (p *BaseProvider) GetConfig() types.ProviderConfig {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.config.Clone()
}

// ConfigSummary describes the effective settings without exposing secrets
func (p *BaseProvider) ConfigSummary() map[string]interface{} {
	helper := config.NewConfigHelper(p.descriptor.Name, config.Defaults{BaseURL: p.handler.GetBaseURL()})
	return helper.ConfigSummary(p.GetConfig())
}

// Logger returns the provider-scoped logger
func (p *BaseProvider) Logger() *zap.Logger {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.logger
}

// SetLogger replaces the logger. The registry calls it after construction.
func (p *BaseProvider) SetLogger(logger *zap.Logger) {
	if logger == nil {
		return
	}
	logger = logger.With(zap.String("provider", p.descriptor.Name))

	p.mutex.Lock()
	p.logger = logger
	p.mutex.Unlock()

	p.handler.SetLogger(logger)
}

// Requests returns the request handler bound to the provider's base URL
func (p *BaseProvider) Requests() *DefaultRequestHandler {
	return p.handler
}

// Responses returns the response parser
func (p *BaseProvider) Responses() *DefaultResponseParser {
	return p.parser
}

// HTTPClient returns the shared HTTP client
func (p *BaseProvider) HTTPClient() *httputil.HTTPClient {
	return p.client
}

// SetConfigError marks the provider as misconfigured; see ConfigError
func (p *BaseProvider) SetConfigError(err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.configErr = err
}

// ConfigError returns the configuration problem detected at construction.
// Operations check it first so a broken configuration never reaches the network.
func (p *BaseProvider) ConfigError() error {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.configErr
}

// LogFailure records an operation failure at warn level together with the
// request counters of the provider's HTTP client.
func (p *BaseProvider) LogFailure(operation string, err error) {
	metrics := p.HTTPClient().GetMetrics()
	fields := []zap.Field{
		zap.String("op", operation),
		zap.Error(err),
		zap.Int64("requests", metrics.TotalRequests),
		zap.Int64("failed_requests", metrics.FailedReqs),
	}
	if pe, ok := types.AsProviderError(err); ok {
		fields = append(fields, zap.String("code", string(pe.Code)))
		if pe.StatusCode > 0 {
			fields = append(fields, zap.Int("status", pe.StatusCode))
		}
	}
	p.Logger().Warn("provider operation failed", fields...)
}
