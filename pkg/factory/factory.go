package factory

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/OlliePage/temp-identity-project/pkg/types"
)

// Registry maps provider names to factories. Email and SMS names live in
// separate namespaces; registering an existing name replaces it.
type Registry struct {
	email       map[string]types.EmailFactory
	sms         map[string]types.SMSFactory
	initialized bool
	logger      *zap.Logger
	mutex       sync.RWMutex
}

// New creates an empty registry. The built-in providers are registered on
// first use. A nil logger discards output.
func New(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		email:  make(map[string]types.EmailFactory),
		sms:    make(map[string]types.SMSFactory),
		logger: logger,
	}
}

// RegisterEmailProvider registers or replaces an email provider
func (r *Registry) RegisterEmailProvider(name string, factoryFunc types.EmailFactory) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.email[name] = factoryFunc
}

// RegisterSMSProvider registers or replaces an SMS provider
func (r *Registry) RegisterSMSProvider(name string, factoryFunc types.SMSFactory) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.sms[name] = factoryFunc
}

// ensureInitialized registers the built-in providers once. Names registered
// explicitly before the first lookup keep their registration.
func (r *Registry) ensureInitialized() {
	r.mutex.RLock()
	done := r.initialized
	r.mutex.RUnlock()
	if done {
		return
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.initialized {
		return
	}
	for _, b := range builtinEmailProviders() {
		if _, exists := r.email[b.name]; !exists {
			r.email[b.name] = b.factory
		}
	}
	for _, b := range builtinSMSProviders() {
		if _, exists := r.sms[b.name]; !exists {
			r.sms[b.name] = b.factory
		}
	}
	r.initialized = true
}

// CreateEmailProvider instantiates the named email provider with a copy of cfg
func (r *Registry) CreateEmailProvider(name string, cfg types.ProviderConfig) (types.EmailProvider, bool) {
	r.ensureInitialized()

	r.mutex.RLock()
	factoryFunc, exists := r.email[name]
	r.mutex.RUnlock()
	if !exists {
		return nil, false
	}

	provider := factoryFunc(cfg.Clone())
	if provider == nil {
		return nil, false
	}
	r.configure(provider)
	return provider, true
}

// CreateSMSProvider instantiates the named SMS provider with a copy of cfg
func (r *Registry) CreateSMSProvider(name string, cfg types.ProviderConfig) (types.SMSProvider, bool) {
	r.ensureInitialized()

	r.mutex.RLock()
	factoryFunc, exists := r.sms[name]
	r.mutex.RUnlock()
	if !exists {
		return nil, false
	}

	provider := factoryFunc(cfg.Clone())
	if provider == nil {
		return nil, false
	}
	r.configure(provider)
	return provider, true
}

// configure hands shared collaborators to providers that accept them
func (r *Registry) configure(provider interface{}) {
	if lp, ok := provider.(interface{ SetLogger(*zap.Logger) }); ok {
		lp.SetLogger(r.logger)
	}
}

// EmailProviderNames returns the registered email provider names, sorted
func (r *Registry) EmailProviderNames() []string {
	r.ensureInitialized()
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return sortedKeys(r.email)
}

// SMSProviderNames returns the registered SMS provider names, sorted
func (r *Registry) SMSProviderNames() []string {
	r.ensureInitialized()
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return sortedKeys(r.sms)
}

// EmailProviders describes every registered email provider, sorted by name
func (r *Registry) EmailProviders() []types.ProviderDescriptor {
	names := r.EmailProviderNames()
	out := make([]types.ProviderDescriptor, 0, len(names))
	for _, name := range names {
		if d, ok := r.Describe(types.ProviderKindEmail, name); ok {
			out = append(out, d)
		}
	}
	return out
}

// SMSProviders describes every registered SMS provider, sorted by name
func (r *Registry) SMSProviders() []types.ProviderDescriptor {
	names := r.SMSProviderNames()
	out := make([]types.ProviderDescriptor, 0, len(names))
	for _, name := range names {
		if d, ok := r.Describe(types.ProviderKindSMS, name); ok {
			out = append(out, d)
		}
	}
	return out
}

// Describe returns the descriptor of a registered provider. Descriptors are
// read from an instance built with an empty configuration, which adapters
// must tolerate without network access.
func (r *Registry) Describe(kind types.ProviderKind, name string) (d types.ProviderDescriptor, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("provider constructor panicked",
				zap.String("kind", string(kind)),
				zap.String("provider", name),
				zap.Any("panic", rec))
			d, ok = types.ProviderDescriptor{}, false
		}
	}()

	switch kind {
	case types.ProviderKindEmail:
		p, found := r.CreateEmailProvider(name, nil)
		if !found {
			return types.ProviderDescriptor{}, false
		}
		return p.Descriptor(), true
	case types.ProviderKindSMS:
		p, found := r.CreateSMSProvider(name, nil)
		if !found {
			return types.ProviderDescriptor{}, false
		}
		return p.Descriptor(), true
	}
	return types.ProviderDescriptor{}, false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
