package factory

import (
	"errors"
	"fmt"

	"github.com/OlliePage/temp-identity-project/pkg/types"
)

// Resolution errors, reported before any provider operation runs
var (
	ErrUnknownProvider = errors.New("unknown provider")
	ErrMissingAPIKey   = errors.New("missing api key")
)

// ValidateProviderConfig checks cfg against what the descriptor requires
func ValidateProviderConfig(descriptor types.ProviderDescriptor, cfg types.ProviderConfig) error {
	if descriptor.RequiresAPIKey && cfg.APIKey() == "" {
		return fmt.Errorf("%w: %s requires %s", ErrMissingAPIKey, descriptor.Name, types.ConfigKeyAPIKey)
	}
	return nil
}

// ResolveEmailProvider instantiates name after validating cfg
func (r *Registry) ResolveEmailProvider(name string, cfg types.ProviderConfig) (types.EmailProvider, error) {
	provider, ok := r.CreateEmailProvider(name, cfg)
	if !ok {
		return nil, fmt.Errorf("%w: email provider %q", ErrUnknownProvider, name)
	}
	if err := ValidateProviderConfig(provider.Descriptor(), cfg); err != nil {
		return nil, err
	}
	return provider, nil
}

// ResolveSMSProvider instantiates name after validating cfg
func (r *Registry) ResolveSMSProvider(name string, cfg types.ProviderConfig) (types.SMSProvider, error) {
	provider, ok := r.CreateSMSProvider(name, cfg)
	if !ok {
		return nil, fmt.Errorf("%w: sms provider %q", ErrUnknownProvider, name)
	}
	if err := ValidateProviderConfig(provider.Descriptor(), cfg); err != nil {
		return nil, err
	}
	return provider, nil
}

// Resolve checks that name is registered for kind and that cfg satisfies it
func (r *Registry) Resolve(kind types.ProviderKind, name string, cfg types.ProviderConfig) (types.ProviderDescriptor, error) {
	d, ok := r.Describe(kind, name)
	if !ok {
		return types.ProviderDescriptor{}, fmt.Errorf("%w: %s provider %q", ErrUnknownProvider, kind, name)
	}
	if err := ValidateProviderConfig(d, cfg); err != nil {
		return d, err
	}
	return d, nil
}
