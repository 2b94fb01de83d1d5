package testutil

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/OlliePage/temp-identity-project/pkg/types"
)

// ConfigurableEmailProvider is an in-memory EmailProvider with scripted results.
// Its Factory hands out the same instance on every call so tests can inspect it.
type ConfigurableEmailProvider struct {
	mu sync.RWMutex

	descriptor types.ProviderDescriptor
	config     types.ProviderConfig
	logger     *zap.Logger

	createOK bool
	address  string
	password string
	inboxes  [][]types.Message
	contents map[string]types.Message
	attached types.EmailIdentity

	createCalled  int
	checkCalled   int
	contentCalled int
}

// NewConfigurableEmailProvider creates a provider whose CreateEmail succeeds
func NewConfigurableEmailProvider(name string) *ConfigurableEmailProvider {
	return &ConfigurableEmailProvider{
		descriptor: types.ProviderDescriptor{
			Name:        name,
			DisplayName: name,
			Description: fmt.Sprintf("Mock %s provider for testing", name),
			Kind:        types.ProviderKindEmail,
		},
		createOK: true,
		address:  "user@" + name + ".test",
		password: "secret",
		contents: make(map[string]types.Message),
	}
}

// Factory returns a types.EmailFactory yielding this instance
func (m *ConfigurableEmailProvider) Factory() types.EmailFactory {
	return func(cfg types.ProviderConfig) types.EmailProvider {
		m.mu.Lock()
		m.config = cfg
		m.mu.Unlock()
		return m
	}
}

// SetCreateResult configures what CreateEmail returns
func (m *ConfigurableEmailProvider) SetCreateResult(ok bool, address, password string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createOK, m.address, m.password = ok, address, password
}

// SetInboxSequence scripts successive CheckMessages results. The last one repeats.
func (m *ConfigurableEmailProvider) SetInboxSequence(inboxes ...[]types.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inboxes = inboxes
}

// SetMessageContent configures the full message returned for msg.ID
func (m *ConfigurableEmailProvider) SetMessageContent(msg types.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contents[msg.ID] = msg
}

// GetCreateCallCount returns the number of CreateEmail calls
func (m *ConfigurableEmailProvider) GetCreateCallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.createCalled
}

// GetCheckCallCount returns the number of CheckMessages calls
func (m *ConfigurableEmailProvider) GetCheckCallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.checkCalled
}

// GetContentCallCount returns the number of GetMessageContent calls
func (m *ConfigurableEmailProvider) GetContentCallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.contentCalled
}

// Attached returns the identity last passed to Attach
func (m *ConfigurableEmailProvider) Attached() types.EmailIdentity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.attached
}

// Config returns the configuration the factory last received
func (m *ConfigurableEmailProvider) Config() types.ProviderConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Logger returns the injected logger
func (m *ConfigurableEmailProvider) Logger() *zap.Logger {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.logger
}

// EmailProvider interface implementation

func (m *ConfigurableEmailProvider) Descriptor() types.ProviderDescriptor {
	return m.descriptor
}

func (m *ConfigurableEmailProvider) SetupFields() []types.SetupField {
	return m.descriptor.SetupFields()
}

func (m *ConfigurableEmailProvider) SetLogger(logger *zap.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
}

func (m *ConfigurableEmailProvider) CreateEmail(context.Context) (bool, string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalled++
	if !m.createOK {
		return false, "", ""
	}
	m.attached = types.EmailIdentity{Address: m.address, Password: m.password}
	return true, m.address, m.password
}

func (m *ConfigurableEmailProvider) CheckMessages(context.Context) []types.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkCalled++
	if len(m.inboxes) == 0 {
		return []types.Message{}
	}
	idx := m.checkCalled - 1
	if idx >= len(m.inboxes) {
		idx = len(m.inboxes) - 1
	}
	out := make([]types.Message, len(m.inboxes[idx]))
	copy(out, m.inboxes[idx])
	return out
}

func (m *ConfigurableEmailProvider) GetMessageContent(_ context.Context, messageID string) (types.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contentCalled++
	msg, ok := m.contents[messageID]
	return msg, ok
}

func (m *ConfigurableEmailProvider) Attach(identity types.EmailIdentity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attached = identity
}

// SMSCheck is one scripted CheckSMS result
type SMSCheck struct {
	Code string
	OK   bool
}

// ConfigurableSMSProvider is an in-memory SMSProvider with scripted results
type ConfigurableSMSProvider struct {
	mu sync.RWMutex

	descriptor types.ProviderDescriptor
	config     types.ProviderConfig

	services []types.Service
	createOK bool
	number   string
	checks   []SMSCheck
	identity types.PhoneIdentity

	servicesCalled int
	createCalled   int
	checkCalled    int
	cancelCalled   int
}

// NewConfigurableSMSProvider creates a provider whose CreateNumber succeeds
func NewConfigurableSMSProvider(name string, requiresAPIKey bool) *ConfigurableSMSProvider {
	return &ConfigurableSMSProvider{
		descriptor: types.ProviderDescriptor{
			Name:           name,
			DisplayName:    name,
			Description:    fmt.Sprintf("Mock %s provider for testing", name),
			RequiresAPIKey: requiresAPIKey,
			Kind:           types.ProviderKindSMS,
		},
		services: []types.Service{{ID: "svc-1", Name: "Service One", Price: 0.5}},
		createOK: true,
		number:   "+14155552671",
	}
}

// Factory returns a types.SMSFactory yielding this instance
func (m *ConfigurableSMSProvider) Factory() types.SMSFactory {
	return func(cfg types.ProviderConfig) types.SMSProvider {
		m.mu.Lock()
		m.config = cfg
		m.mu.Unlock()
		return m
	}
}

// SetServices configures GetAvailableServices
func (m *ConfigurableSMSProvider) SetServices(services []types.Service) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.services = services
}

// SetCreateResult configures what CreateNumber returns
func (m *ConfigurableSMSProvider) SetCreateResult(ok bool, number string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createOK, m.number = ok, number
}

// SetCheckSequence scripts successive CheckSMS results. The last one repeats.
func (m *ConfigurableSMSProvider) SetCheckSequence(checks ...SMSCheck) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks = checks
}

// GetServicesCallCount returns the number of GetAvailableServices calls
func (m *ConfigurableSMSProvider) GetServicesCallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.servicesCalled
}

// GetCreateCallCount returns the number of CreateNumber calls
func (m *ConfigurableSMSProvider) GetCreateCallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.createCalled
}

// GetCheckCallCount returns the number of CheckSMS calls
func (m *ConfigurableSMSProvider) GetCheckCallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.checkCalled
}

// GetCancelCallCount returns the number of CancelNumber calls
func (m *ConfigurableSMSProvider) GetCancelCallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cancelCalled
}

// Config returns the configuration the factory last received
func (m *ConfigurableSMSProvider) Config() types.ProviderConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// SMSProvider interface implementation

func (m *ConfigurableSMSProvider) Descriptor() types.ProviderDescriptor {
	return m.descriptor
}

func (m *ConfigurableSMSProvider) SetupFields() []types.SetupField {
	return m.descriptor.SetupFields()
}

func (m *ConfigurableSMSProvider) GetAvailableServices(context.Context) []types.Service {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.servicesCalled++
	out := make([]types.Service, len(m.services))
	copy(out, m.services)
	return out
}

func (m *ConfigurableSMSProvider) CreateNumber(_ context.Context, serviceID string) (bool, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalled++
	if !m.createOK {
		return false, ""
	}
	m.identity = types.PhoneIdentity{
		PhoneNumber:    m.number,
		VerificationID: fmt.Sprintf("v-%d", m.createCalled),
		Service:        serviceID,
		Provider:       m.descriptor.Name,
		Region:         "US",
	}
	return true, m.number
}

func (m *ConfigurableSMSProvider) CheckSMS(context.Context) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkCalled++
	if !m.identity.Active() || len(m.checks) == 0 {
		return "", false
	}
	idx := m.checkCalled - 1
	if idx >= len(m.checks) {
		idx = len(m.checks) - 1
	}
	return m.checks[idx].Code, m.checks[idx].OK
}

func (m *ConfigurableSMSProvider) CancelNumber(context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelCalled++
	if !m.identity.Active() {
		return false
	}
	m.identity = types.PhoneIdentity{}
	return true
}

func (m *ConfigurableSMSProvider) Attach(identity types.PhoneIdentity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identity = identity
}

func (m *ConfigurableSMSProvider) Identity() types.PhoneIdentity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity
}
