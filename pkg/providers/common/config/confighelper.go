// Package config provides configuration utilities for provider implementations
package config

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/OlliePage/temp-identity-project/pkg/types"
)

// DefaultTimeout is the per-request timeout when none is configured
const DefaultTimeout = 15 * time.Second

// Defaults are the values a provider falls back to for absent config keys
type Defaults struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables
}

// ConfigHelper provides standardized configuration validation, extraction,
// and defaults for all providers.
type ConfigHelper struct {
	providerName string
	defaults     Defaults
}

// NewConfigHelper creates a new configuration helper for a specific provider
func NewConfigHelper(providerName string, defaults Defaults) *ConfigHelper {
	if defaults.Timeout <= 0 {
		defaults.Timeout = DefaultTimeout
	}
	return &ConfigHelper{
		providerName: providerName,
		defaults:     defaults,
	}
}

// ValidationResult contains the result of configuration validation
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// Err folds the validation errors into a configuration ProviderError
func (r ValidationResult) Err(provider string) error {
	if r.Valid {
		return nil
	}
	return types.NewConfigError(provider, fmt.Sprintf("invalid configuration: %v", r.Errors))
}

// ValidateProviderConfig checks the well-known keys. A missing API key is
// reported only when requiresAPIKey is set.
func (h *ConfigHelper) ValidateProviderConfig(config types.ProviderConfig, requiresAPIKey bool) ValidationResult {
	var errors []string

	if requiresAPIKey && config.APIKey() == "" {
		errors = append(errors, "api_key is required")
	}

	if raw := config.Get(types.ConfigKeyBaseURL); raw != "" {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, fmt.Sprintf("base_url %q is not an absolute URL", raw))
		}
	}

	if raw := config.Get(types.ConfigKeyTimeout); raw != "" {
		if config.Duration(types.ConfigKeyTimeout, -1) < 0 {
			errors = append(errors, fmt.Sprintf("timeout %q must be a positive duration", raw))
		}
	}

	if raw := config.Get(types.ConfigKeyRateLimit); raw != "" {
		if f, err := strconv.ParseFloat(raw, 64); err != nil || f < 0 {
			errors = append(errors, fmt.Sprintf("rate_limit %q must be a non-negative number", raw))
		}
	}

	return ValidationResult{
		Valid:  len(errors) == 0,
		Errors: errors,
	}
}

// ExtractAPIKey returns the configured API key
func (h *ConfigHelper) ExtractAPIKey(config types.ProviderConfig) string {
	return config.APIKey()
}

// ExtractBaseURL extracts base URL with the provider default
func (h *ConfigHelper) ExtractBaseURL(config types.ProviderConfig) string {
	if v := config.Get(types.ConfigKeyBaseURL); v != "" {
		return v
	}
	return h.defaults.BaseURL
}

// ExtractTimeout extracts the per-request timeout with the provider default
func (h *ConfigHelper) ExtractTimeout(config types.ProviderConfig) time.Duration {
	return config.Duration(types.ConfigKeyTimeout, h.defaults.Timeout)
}

// ExtractRateLimit extracts requests per second with the provider default
func (h *ConfigHelper) ExtractRateLimit(config types.ProviderConfig) float64 {
	if f := config.Float(types.ConfigKeyRateLimit, -1); f >= 0 {
		return f
	}
	return h.defaults.RateLimit
}

// ExtractStringField extracts a string field from provider config with fallback
func (h *ConfigHelper) ExtractStringField(config types.ProviderConfig, fieldName, fallback string) string {
	if value := config.Get(fieldName); value != "" {
		return value
	}
	return fallback
}

// SanitizeConfigForLogging returns a configuration copy with sensitive data removed
func (h *ConfigHelper) SanitizeConfigForLogging(config types.ProviderConfig) types.ProviderConfig {
	sanitized := make(types.ProviderConfig, len(config))
	for key, value := range config {
		switch key {
		case types.ConfigKeyAPIKey, "password", "token":
			sanitized[key] = "***"
		default:
			sanitized[key] = value
		}
	}
	return sanitized
}

// ConfigSummary provides a human-readable summary of the configuration
func (h *ConfigHelper) ConfigSummary(config types.ProviderConfig) map[string]interface{} {
	keys := make([]string, 0, len(config))
	for k := range config {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return map[string]interface{}{
		"provider":    h.providerName,
		"base_url":    h.ExtractBaseURL(config),
		"timeout":     h.ExtractTimeout(config),
		"rate_limit":  h.ExtractRateLimit(config),
		"has_api_key": config.APIKey() != "",
		"keys":        keys,
	}
}

// MergeWithDefaults returns a copy of config with the well-known keys filled in
func (h *ConfigHelper) MergeWithDefaults(config types.ProviderConfig) types.ProviderConfig {
	merged := config.Clone()

	if merged.Get(types.ConfigKeyBaseURL) == "" && h.defaults.BaseURL != "" {
		merged[types.ConfigKeyBaseURL] = h.defaults.BaseURL
	}
	if merged.Get(types.ConfigKeyTimeout) == "" {
		merged[types.ConfigKeyTimeout] = h.defaults.Timeout.String()
	}
	if merged.Get(types.ConfigKeyRateLimit) == "" && h.defaults.RateLimit > 0 {
		merged[types.ConfigKeyRateLimit] = strconv.FormatFloat(h.defaults.RateLimit, 'f', -1, 64)
	}

	return merged
}
