package factory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/OlliePage/temp-identity-project/internal/testutil"
	"github.com/OlliePage/temp-identity-project/pkg/providers/mailgw"
	"github.com/OlliePage/temp-identity-project/pkg/providers/textverified"
	"github.com/OlliePage/temp-identity-project/pkg/types"
)

// stubEmail is a minimal email provider that never touches the network
type stubEmail struct {
	descriptor types.ProviderDescriptor
	config     types.ProviderConfig
	logger     *zap.Logger
}

func (s *stubEmail) Descriptor() types.ProviderDescriptor { return s.descriptor }
func (s *stubEmail) SetupFields() []types.SetupField     { return s.descriptor.SetupFields() }
func (s *stubEmail) CreateEmail(context.Context) (bool, string, string) {
	return true, "a@b.test", "pw"
}
func (s *stubEmail) CheckMessages(context.Context) []types.Message { return []types.Message{} }
func (s *stubEmail) GetMessageContent(context.Context, string) (types.Message, bool) {
	return types.Message{}, false
}
func (s *stubEmail) Attach(types.EmailIdentity)  {}
func (s *stubEmail) SetLogger(logger *zap.Logger) { s.logger = logger }

func stubEmailFactory(name string) types.EmailFactory {
	return func(cfg types.ProviderConfig) types.EmailProvider {
		return &stubEmail{
			descriptor: types.ProviderDescriptor{Name: name, DisplayName: name, Kind: types.ProviderKindEmail},
			config:     cfg,
		}
	}
}

func TestRegistry_BuiltinsRegisteredLazily(t *testing.T) {
	r := New(testutil.TestLogger(t))

	assert.Equal(t, []string{mailgw.Name, mailgw.MailTmName}, r.EmailProviderNames())
	assert.Equal(t, []string{textverified.Name}, r.SMSProviderNames())
}

func TestRegistry_CreateReturnsMatchingDescriptor(t *testing.T) {
	r := New(testutil.TestLogger(t))

	for _, name := range r.EmailProviderNames() {
		p, ok := r.CreateEmailProvider(name, nil)
		require.True(t, ok, name)
		assert.Equal(t, name, p.Descriptor().Name)
		assert.Equal(t, types.ProviderKindEmail, p.Descriptor().Kind)
	}
	for _, name := range r.SMSProviderNames() {
		p, ok := r.CreateSMSProvider(name, types.ProviderConfig{"api_key": "k"})
		require.True(t, ok, name)
		assert.Equal(t, name, p.Descriptor().Name)
		assert.Equal(t, types.ProviderKindSMS, p.Descriptor().Kind)
	}
}

func TestRegistry_UnknownNameAbsent(t *testing.T) {
	r := New(nil)

	p, ok := r.CreateEmailProvider("nope", nil)
	assert.False(t, ok)
	assert.Nil(t, p)

	s, ok := r.CreateSMSProvider("nope", nil)
	assert.False(t, ok)
	assert.Nil(t, s)

	_, ok = r.Describe(types.ProviderKindEmail, "nope")
	assert.False(t, ok)
}

func TestRegistry_NamespacesAreDisjoint(t *testing.T) {
	r := New(nil)

	_, ok := r.CreateSMSProvider(mailgw.Name, nil)
	assert.False(t, ok)
	_, ok = r.CreateEmailProvider(textverified.Name, nil)
	assert.False(t, ok)
}

func TestRegistry_LastRegistrationWins(t *testing.T) {
	r := New(nil)
	r.RegisterEmailProvider("custom", stubEmailFactory("first"))
	r.RegisterEmailProvider("custom", stubEmailFactory("custom"))

	p, ok := r.CreateEmailProvider("custom", nil)
	require.True(t, ok)
	assert.Equal(t, "custom", p.Descriptor().Name)
}

func TestRegistry_ExplicitRegistrationSurvivesLazyInit(t *testing.T) {
	r := New(nil)
	r.RegisterEmailProvider(mailgw.Name, stubEmailFactory(mailgw.Name))

	p, ok := r.CreateEmailProvider(mailgw.Name, nil)
	require.True(t, ok)
	_, isStub := p.(*stubEmail)
	assert.True(t, isStub)
}

func TestRegistry_ConfigIsCopied(t *testing.T) {
	r := New(nil)
	r.RegisterEmailProvider("custom", stubEmailFactory("custom"))

	cfg := types.ProviderConfig{"api_key": "a"}
	p, ok := r.CreateEmailProvider("custom", cfg)
	require.True(t, ok)

	p.(*stubEmail).config["api_key"] = "changed"
	assert.Equal(t, "a", cfg["api_key"])
}

func TestRegistry_InjectsLogger(t *testing.T) {
	logger := testutil.TestLogger(t)
	r := New(logger)
	r.RegisterEmailProvider("custom", stubEmailFactory("custom"))

	p, ok := r.CreateEmailProvider("custom", nil)
	require.True(t, ok)
	assert.Same(t, logger, p.(*stubEmail).logger)
}

func TestRegistry_ProviderDescriptorsSorted(t *testing.T) {
	r := New(nil)
	r.RegisterEmailProvider("aaa", stubEmailFactory("aaa"))

	descriptors := r.EmailProviders()
	require.Len(t, descriptors, 3)
	assert.Equal(t, "aaa", descriptors[0].Name)
	assert.Equal(t, mailgw.Name, descriptors[1].Name)
	assert.Equal(t, mailgw.MailTmName, descriptors[2].Name)

	sms := r.SMSProviders()
	require.Len(t, sms, 1)
	assert.True(t, sms[0].RequiresAPIKey)
}

func TestRegistry_DescribeRecoversFromPanickingConstructor(t *testing.T) {
	r := New(nil)
	r.RegisterEmailProvider("broken", func(types.ProviderConfig) types.EmailProvider {
		panic("boom")
	})

	_, ok := r.Describe(types.ProviderKindEmail, "broken")
	assert.False(t, ok)
	assert.Len(t, r.EmailProviders(), 2)
}

func TestRegistry_NilFactoryResultIsAbsent(t *testing.T) {
	r := New(nil)
	r.RegisterEmailProvider("empty", func(types.ProviderConfig) types.EmailProvider { return nil })

	_, ok := r.CreateEmailProvider("empty", nil)
	assert.False(t, ok)
}

func TestRegistry_AutoDiscoverIdempotent(t *testing.T) {
	r := New(nil)
	plugin := NewPlugin("extra", func(r *Registry) error {
		r.RegisterEmailProvider("extra", stubEmailFactory("extra"))
		return nil
	})

	assert.Empty(t, r.AutoDiscover(plugin))
	first := r.EmailProviderNames()
	assert.Empty(t, r.AutoDiscover(plugin))

	assert.Equal(t, first, r.EmailProviderNames())
	assert.Contains(t, first, "extra")
}

func TestRegistry_AutoDiscoverRestoresBuiltins(t *testing.T) {
	r := New(nil)
	r.RegisterEmailProvider(mailgw.Name, stubEmailFactory(mailgw.Name))

	r.AutoDiscover()

	p, ok := r.CreateEmailProvider(mailgw.Name, nil)
	require.True(t, ok)
	_, isAdapter := p.(*mailgw.Provider)
	assert.True(t, isAdapter)
}

func TestRegistry_AutoDiscoverIsolatesFailingPlugins(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := New(zap.New(core))

	failing := NewPlugin("failing", func(*Registry) error { return errors.New("import failed") })
	panicking := NewPlugin("panicking", func(*Registry) error { panic("bad plugin") })
	good := NewPlugin("good", func(r *Registry) error {
		r.RegisterEmailProvider("good", stubEmailFactory("good"))
		return nil
	})

	errs := r.AutoDiscover(failing, panicking, nil, good)

	require.Len(t, errs, 2)
	for _, err := range errs {
		assert.ErrorIs(t, err, ErrPluginFailed)
	}
	assert.Contains(t, errs[0].Error(), "import failed")
	assert.Contains(t, errs[1].Error(), "bad plugin")
	assert.Contains(t, r.EmailProviderNames(), "good")
	assert.Equal(t, 2, logs.FilterMessage("provider plugin failed").Len())
}
