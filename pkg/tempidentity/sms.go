package tempidentity

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/OlliePage/temp-identity-project/pkg/history"
	"github.com/OlliePage/temp-identity-project/pkg/poll"
	"github.com/OlliePage/temp-identity-project/pkg/types"
)

// GetSMSServices lists the services offered by the preferred SMS provider
func (s *Service) GetSMSServices(ctx context.Context) []types.Service {
	log := s.opLogger("get_sms_services")
	cfg, ok := s.load(log)
	if !ok {
		return []types.Service{}
	}
	p, ok := s.smsProvider(log, cfg, "")
	if !ok {
		return []types.Service{}
	}
	return p.GetAvailableServices(ctx)
}

// CreateNumber allocates a number for serviceID on the preferred SMS provider
func (s *Service) CreateNumber(ctx context.Context, serviceID string) (types.PhoneIdentity, bool) {
	log := s.opLogger("create_number")
	cfg, ok := s.load(log)
	if !ok {
		return types.PhoneIdentity{}, false
	}
	p, ok := s.smsProvider(log, cfg, "")
	if !ok {
		return types.PhoneIdentity{}, false
	}

	created, number := p.CreateNumber(ctx, serviceID)
	if !created {
		log.Warn("failed to create number", zap.String("service", serviceID))
		return types.PhoneIdentity{}, false
	}

	identity := p.Identity()
	identity.PhoneNumber = number
	if identity.Service == "" {
		identity.Service = serviceID
	}
	identity.Provider = p.Descriptor().Name

	log.Info("created number",
		zap.String("provider", identity.Provider),
		zap.String("service", serviceID),
		zap.String("region", identity.Region))
	s.record(ctx, log, cfg, history.NewSMSRecord(identity, s.clock.Now()))
	return identity, true
}

// WaitForSMSCode polls for the verification code of identity for up to
// waitTime (the configured sms_wait_time when not positive). The number is
// cancelled afterwards whether or not a code arrived.
func (s *Service) WaitForSMSCode(ctx context.Context, identity types.PhoneIdentity, waitTime time.Duration) (string, bool) {
	log := s.opLogger("wait_for_sms_code")
	cfg, ok := s.load(log)
	if !ok {
		return "", false
	}
	p, ok := s.smsProvider(log, cfg, identity.Provider)
	if !ok {
		return "", false
	}
	p.Attach(identity)

	timeout := resolveWait(waitTime, cfg.SMSWait())
	code, found := poll.WaitForSMS(ctx, p, timeout, s.smsInterval,
		poll.WithClock(s.clock), poll.WithLogger(log))

	// Release the number even when the caller gave up on ctx.
	if !p.CancelNumber(context.WithoutCancel(ctx)) {
		log.Warn("failed to cancel number", zap.String("verification_id", identity.VerificationID))
	}

	if !found {
		log.Info("no code received", zap.Duration("timeout", timeout))
	}
	return code, found
}

// CancelNumber releases the allocation behind identity
func (s *Service) CancelNumber(ctx context.Context, identity types.PhoneIdentity) bool {
	log := s.opLogger("cancel_number")
	cfg, ok := s.load(log)
	if !ok {
		return false
	}
	p, ok := s.smsProvider(log, cfg, identity.Provider)
	if !ok {
		return false
	}
	p.Attach(identity)
	return p.CancelNumber(ctx)
}
