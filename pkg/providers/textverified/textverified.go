// Package textverified implements the SMS provider contract for TextVerified.
package textverified

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"github.com/OlliePage/temp-identity-project/pkg/phone"
	"github.com/OlliePage/temp-identity-project/pkg/providers/base"
	"github.com/OlliePage/temp-identity-project/pkg/providers/common/config"
	"github.com/OlliePage/temp-identity-project/pkg/types"
)

const (
	// Name is the registry name of the provider
	Name = "textverified"

	DefaultBaseURL = "https://www.textverified.com/api"

	// APIKeyHeader carries the static API key on every request
	APIKeyHeader = "X-SIMPLE-API-ACCESS-TOKEN"

	// ConfigKeyRegion sets the region assumed for numbers returned without a country code
	ConfigKeyRegion = "region"
)

// Descriptor is the static identity of the provider
var Descriptor = types.ProviderDescriptor{
	Name:           Name,
	DisplayName:    "TextVerified",
	Description:    "Paid temporary phone number service",
	RequiresAPIKey: true,
	Kind:           types.ProviderKindSMS,
}

// Provider is the TextVerified adapter. It tracks at most one active verification.
type Provider struct {
	*base.BaseProvider

	apiKey string
	region string

	mu       sync.Mutex
	identity types.PhoneIdentity
}

// New creates a TextVerified provider. A missing api_key is not an error
// here; every operation that needs the key fails without sending a request.
func New(cfg types.ProviderConfig) *Provider {
	headers := map[string]string{}
	if key := cfg.APIKey(); key != "" {
		headers[APIKeyHeader] = key
	}

	components := base.InitializeProviderComponents(base.ProviderInitConfig{
		Descriptor: Descriptor,
		Config:     cfg,
		Defaults:   config.Defaults{BaseURL: DefaultBaseURL},
		Headers:    headers,
	})

	return &Provider{
		BaseProvider: components.BaseProvider,
		apiKey:       components.ConfigHelper.ExtractAPIKey(components.MergedConfig),
		region:       components.ConfigHelper.ExtractStringField(components.MergedConfig, ConfigKeyRegion, phone.DefaultRegion),
	}
}

// Factory adapts New to types.SMSFactory
func Factory(cfg types.ProviderConfig) types.SMSProvider {
	return New(cfg)
}

// GetAvailableServices lists the services numbers can be rented for
func (p *Provider) GetAvailableServices(ctx context.Context) []types.Service {
	const op = "get_available_services"

	if err := p.ready(); err != nil {
		p.LogFailure(op, err)
		return []types.Service{}
	}

	resp, err := p.Requests().ExecuteRequest(ctx, http.MethodGet, "/Services", nil, nil)
	if err != nil {
		p.LogFailure(op, err)
		return []types.Service{}
	}
	if err := p.Responses().CheckStatusCode(resp, http.StatusOK); err != nil {
		p.LogFailure(op, err)
		return []types.Service{}
	}

	var raw []service
	if err := p.Responses().ParseJSON(resp, &raw); err != nil {
		p.LogFailure(op, err)
		return []types.Service{}
	}

	out := make([]types.Service, 0, len(raw))
	for _, s := range raw {
		out = append(out, s.toService())
	}
	return out
}

// CreateNumber rents a number for serviceID and makes it the active verification
func (p *Provider) CreateNumber(ctx context.Context, serviceID string) (bool, string) {
	const op = "create_number"

	if err := p.ready(); err != nil {
		p.LogFailure(op, err)
		return false, ""
	}
	if serviceID == "" {
		p.LogFailure(op, types.NewProviderError(Name, types.ErrCodeInvalidRequest, "empty service id"))
		return false, ""
	}

	resp, err := p.Requests().ExecuteRequest(ctx, http.MethodPost, "/Verifications", verificationRequest{ID: serviceID}, nil)
	if err != nil {
		p.LogFailure(op, err)
		return false, ""
	}
	if err := p.Responses().CheckStatusCode(resp, http.StatusOK); err != nil {
		p.LogFailure(op, err)
		return false, ""
	}

	var v verification
	if err := p.Responses().ParseJSON(resp, &v); err != nil {
		p.LogFailure(op, err)
		return false, ""
	}
	if v.ID == "" || v.Number == "" {
		p.LogFailure(op, types.NewMalformedError(Name, errors.New("verification without id or number")))
		return false, ""
	}

	// Numbers libphonenumber rejects are kept verbatim without a region.
	number, region := v.Number, ""
	if normalized, err := phone.Normalize(v.Number, p.region); err == nil {
		number, region = normalized, phone.Region(normalized)
	}
	identity := types.PhoneIdentity{
		PhoneNumber:    number,
		VerificationID: string(v.ID),
		Service:        serviceID,
		Provider:       Name,
		Region:         region,
	}

	p.mu.Lock()
	p.identity = identity
	p.mu.Unlock()

	p.Logger().Debug("number allocated",
		zap.String("verification_id", identity.VerificationID),
		zap.String("service", serviceID),
		zap.String("region", identity.Region))
	return true, number
}

// CheckSMS polls the active verification for a received code
func (p *Provider) CheckSMS(ctx context.Context) (string, bool) {
	const op = "check_sms"

	id := p.Identity().VerificationID
	if id == "" {
		return "", false
	}
	if err := p.ready(); err != nil {
		p.LogFailure(op, err)
		return "", false
	}

	resp, err := p.Requests().ExecuteRequest(ctx, http.MethodGet, "/Verifications/"+url.PathEscape(id), nil, nil)
	if err != nil {
		p.LogFailure(op, err)
		return "", false
	}
	if err := p.Responses().CheckStatusCode(resp, http.StatusOK); err != nil {
		p.LogFailure(op, err)
		return "", false
	}

	var v verification
	if err := p.Responses().ParseJSON(resp, &v); err != nil {
		p.LogFailure(op, err)
		return "", false
	}
	if v.Code == nil || *v.Code == "" {
		return "", false
	}
	return *v.Code, true
}

// CancelNumber releases the active verification. It returns false when
// nothing is active or the upstream refuses; state is kept in the latter case.
func (p *Provider) CancelNumber(ctx context.Context) bool {
	const op = "cancel_number"

	id := p.Identity().VerificationID
	if id == "" {
		return false
	}
	if err := p.ready(); err != nil {
		p.LogFailure(op, err)
		return false
	}

	resp, err := p.Requests().ExecuteRequest(ctx, http.MethodDelete, "/Verifications/"+url.PathEscape(id), nil, nil)
	if err != nil {
		p.LogFailure(op, err)
		return false
	}
	if err := p.Responses().CheckStatusCode(resp, http.StatusOK); err != nil {
		p.LogFailure(op, err)
		return false
	}
	p.Responses().Drain(resp)

	p.mu.Lock()
	if p.identity.VerificationID == id {
		p.identity = types.PhoneIdentity{}
	}
	p.mu.Unlock()
	return true
}

// Attach makes a previously allocated number the active verification
func (p *Provider) Attach(identity types.PhoneIdentity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.identity = identity
}

// Identity returns the active verification, zero when none
func (p *Provider) Identity() types.PhoneIdentity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.identity
}

func (p *Provider) ready() error {
	if err := p.ConfigError(); err != nil {
		return err
	}
	if p.apiKey == "" {
		return types.NewConfigError(Name, "api_key is required")
	}
	return nil
}
