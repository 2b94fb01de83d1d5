package tempidentity

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/OlliePage/temp-identity-project/pkg/factory"
	"github.com/OlliePage/temp-identity-project/pkg/history"
	"github.com/OlliePage/temp-identity-project/pkg/types"
)

// ErrHistoryUnavailable is returned by History when the writer cannot list records
var ErrHistoryUnavailable = errors.New("history cannot be listed")

// Providers groups the registered provider descriptors by kind
type Providers struct {
	Email []types.ProviderDescriptor `json:"email"`
	SMS   []types.ProviderDescriptor `json:"sms"`
}

// AvailableProviders lists the registered providers. Plugins, when given,
// are discovered first; a failing plugin is logged and skipped.
func (s *Service) AvailableProviders(plugins ...factory.Plugin) Providers {
	if len(plugins) > 0 {
		s.registry.AutoDiscover(plugins...)
	}
	return Providers{
		Email: s.registry.EmailProviders(),
		SMS:   s.registry.SMSProviders(),
	}
}

// SetupFields returns the configuration inputs the named provider needs
func (s *Service) SetupFields(kind types.ProviderKind, name string) ([]types.SetupField, error) {
	d, ok := s.registry.Describe(kind, name)
	if !ok {
		return nil, fmt.Errorf("%w: %s provider %q", factory.ErrUnknownProvider, kind, name)
	}
	return d.SetupFields(), nil
}

type configSummarizer interface {
	ConfigSummary() map[string]interface{}
}

// ProviderSettings summarizes the effective settings of the named provider as
// built from the current configuration. Secret values are never included.
func (s *Service) ProviderSettings(kind types.ProviderKind, name string) (map[string]interface{}, error) {
	cfg, err := s.config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var provider types.DescribedProvider
	ok := false
	switch kind {
	case types.ProviderKindEmail:
		provider, ok = s.registry.CreateEmailProvider(name, cfg.ProviderConfig(name))
	case types.ProviderKindSMS:
		provider, ok = s.registry.CreateSMSProvider(name, cfg.ProviderConfig(name))
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s provider %q", factory.ErrUnknownProvider, kind, name)
	}

	if summarizer, ok := provider.(configSummarizer); ok {
		return summarizer.ConfigSummary(), nil
	}
	return map[string]interface{}{"provider": provider.Descriptor().Name}, nil
}

// ConfigureProvider merges values into the settings of the named provider,
// makes it the preferred provider of its kind and persists the result.
func (s *Service) ConfigureProvider(kind types.ProviderKind, name string, values map[string]string) error {
	log := s.opLogger("configure_provider")

	d, ok := s.registry.Describe(kind, name)
	if !ok {
		return fmt.Errorf("%w: %s provider %q", factory.ErrUnknownProvider, kind, name)
	}

	cfg, err := s.config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cfg.SetProviderConfig(name, values)
	if err := factory.ValidateProviderConfig(d, cfg.ProviderConfig(name)); err != nil {
		return err
	}

	switch kind {
	case types.ProviderKindEmail:
		cfg.PreferredEmailService = name
	case types.ProviderKindSMS:
		cfg.PreferredSMSService = name
	}

	if err := s.config.Save(cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	log.Info("provider configured", zap.String("kind", string(kind)), zap.String("provider", name))
	return nil
}

// History lists recorded identities of kind, newest first
func (s *Service) History(ctx context.Context, kind types.ProviderKind) ([]history.Record, error) {
	store, ok := s.history.(history.Store)
	if !ok {
		return nil, ErrHistoryUnavailable
	}
	return store.List(ctx, kind)
}
