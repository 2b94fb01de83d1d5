package types

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// ProviderKind separates the email and SMS provider namespaces
type ProviderKind string

const (
	ProviderKindEmail ProviderKind = "email"
	ProviderKindSMS   ProviderKind = "sms"
)

// ParseProviderKind converts user input into a ProviderKind
func ParseProviderKind(s string) (ProviderKind, error) {
	switch ProviderKind(s) {
	case ProviderKindEmail, ProviderKindSMS:
		return ProviderKind(s), nil
	}
	return "", fmt.Errorf("unknown provider kind %q (want %q or %q)", s, ProviderKindEmail, ProviderKindSMS)
}

// Setup field types understood by configuration front ends
const (
	FieldTypeText     = "text"
	FieldTypePassword = "password"
)

// Well-known ProviderConfig keys
const (
	ConfigKeyAPIKey    = "api_key"
	ConfigKeyBaseURL   = "base_url"
	ConfigKeyTimeout   = "timeout"
	ConfigKeyRateLimit = "rate_limit"
)

// ProviderDescriptor is the static identity attached to a provider implementation
type ProviderDescriptor struct {
	Name           string       `json:"name" yaml:"name"`
	DisplayName    string       `json:"display_name" yaml:"display_name"`
	Description    string       `json:"description" yaml:"description"`
	RequiresAPIKey bool         `json:"requires_api_key" yaml:"requires_api_key"`
	Kind           ProviderKind `json:"kind" yaml:"kind"`
}

// SetupField describes one configuration input a provider needs
type SetupField struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	HelpText    string `json:"help_text"`
}

// SetupFields derives the setup fields of a provider from its descriptor.
// Only the API key flag contributes fields.
func (d ProviderDescriptor) SetupFields() []SetupField {
	if !d.RequiresAPIKey {
		return []SetupField{}
	}
	return []SetupField{
		{
			Name:        ConfigKeyAPIKey,
			DisplayName: "API Key",
			Type:        FieldTypePassword,
			Required:    true,
			HelpText:    "API key for " + d.DisplayName,
		},
	}
}

// ProviderConfig is the flat per-provider settings block supplied at instantiation
type ProviderConfig map[string]string

// Clone returns an independent copy so providers never share the caller's map
func (c ProviderConfig) Clone() ProviderConfig {
	out := make(ProviderConfig, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Get returns the value for key, or "" when absent
func (c ProviderConfig) Get(key string) string {
	if c == nil {
		return ""
	}
	return c[key]
}

// APIKey returns the configured API key
func (c ProviderConfig) APIKey() string {
	return c.Get(ConfigKeyAPIKey)
}

// Duration parses key as a Go duration or a plain number of seconds.
// Invalid or missing values yield def.
func (c ProviderConfig) Duration(key string, def time.Duration) time.Duration {
	raw := c.Get(key)
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil && secs > 0 {
		return time.Duration(secs * float64(time.Second))
	}
	return def
}

// Float parses key as a float64, returning def when missing or invalid
func (c ProviderConfig) Float(key string, def float64) float64 {
	raw := c.Get(key)
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return f
}

// ============================================================================
// Capability contracts
// ============================================================================

// DescribedProvider is implemented by every provider regardless of kind
type DescribedProvider interface {
	Descriptor() ProviderDescriptor
	SetupFields() []SetupField
}

// MessageChecker is the non-blocking inbox poll used by the wait engine
type MessageChecker interface {
	// CheckMessages returns the current inbox, newest first. Failures yield an empty slice.
	CheckMessages(ctx context.Context) []Message
}

// EmailProvider allocates disposable mailboxes on one upstream service.
//
// All operations are result based: upstream failures are reported through
// false/empty results and never as errors or panics.
type EmailProvider interface {
	DescribedProvider
	MessageChecker

	// CreateEmail allocates a new mailbox. On failure address and password are both empty.
	CreateEmail(ctx context.Context) (ok bool, address, password string)

	// GetMessageContent fetches the full body of a message seen as a summary.
	GetMessageContent(ctx context.Context, messageID string) (Message, bool)

	// Attach points the provider at a mailbox created earlier.
	Attach(identity EmailIdentity)
}

// SMSChecker is the non-blocking verification code poll used by the wait engine
type SMSChecker interface {
	// CheckSMS returns the received code, if any.
	CheckSMS(ctx context.Context) (code string, ok bool)
}

// SMSProvider allocates disposable phone numbers on one upstream service.
type SMSProvider interface {
	DescribedProvider
	SMSChecker

	GetAvailableServices(ctx context.Context) []Service

	// CreateNumber allocates a number scoped to one service.
	CreateNumber(ctx context.Context, serviceID string) (ok bool, phoneNumber string)

	// CancelNumber releases the current allocation. It returns false when
	// there is nothing to cancel.
	CancelNumber(ctx context.Context) bool

	// Attach points the provider at a number allocated earlier.
	Attach(identity PhoneIdentity)

	// Identity returns the current allocation, zero when none is active.
	Identity() PhoneIdentity
}

// EmailFactory builds an email provider from its configuration block
type EmailFactory func(config ProviderConfig) EmailProvider

// SMSFactory builds an SMS provider from its configuration block
type SMSFactory func(config ProviderConfig) SMSProvider
