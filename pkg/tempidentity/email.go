package tempidentity

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/OlliePage/temp-identity-project/pkg/history"
	"github.com/OlliePage/temp-identity-project/pkg/poll"
	"github.com/OlliePage/temp-identity-project/pkg/types"
)

// CreateEmail creates a mailbox on the preferred email provider
func (s *Service) CreateEmail(ctx context.Context) (types.EmailIdentity, bool) {
	log := s.opLogger("create_email")
	cfg, ok := s.load(log)
	if !ok {
		return types.EmailIdentity{}, false
	}
	p, ok := s.emailProvider(log, cfg, "")
	if !ok {
		return types.EmailIdentity{}, false
	}

	created, address, password := p.CreateEmail(ctx)
	if !created {
		log.Warn("failed to create email", zap.String("provider", p.Descriptor().Name))
		return types.EmailIdentity{}, false
	}

	identity := types.EmailIdentity{
		Address:  address,
		Password: password,
		Provider: p.Descriptor().Name,
	}
	log.Info("created email", zap.String("provider", identity.Provider), zap.String("address", address))
	s.record(ctx, log, cfg, history.NewEmailRecord(identity, s.clock.Now()))
	return identity, true
}

// CheckEmailMessages lists the inbox of identity. With wait set it blocks
// until new messages arrive or waitTime elapses (the configured default
// when waitTime is not positive) and returns only the new ones.
func (s *Service) CheckEmailMessages(ctx context.Context, identity types.EmailIdentity, wait bool, waitTime time.Duration) []types.Message {
	log := s.opLogger("check_email_messages")
	cfg, ok := s.load(log)
	if !ok {
		return []types.Message{}
	}
	p, ok := s.emailProvider(log, cfg, identity.Provider)
	if !ok {
		return []types.Message{}
	}
	p.Attach(identity)

	if !wait {
		return p.CheckMessages(ctx)
	}

	timeout := resolveWait(waitTime, cfg.WaitTime())
	log.Debug("waiting for messages", zap.Duration("timeout", timeout))
	return poll.WaitForMessages(ctx, p, timeout, s.emailInterval,
		poll.WithClock(s.clock), poll.WithLogger(log))
}

// GetEmailMessageContent fetches the full body of one message
func (s *Service) GetEmailMessageContent(ctx context.Context, identity types.EmailIdentity, messageID string) (types.Message, bool) {
	log := s.opLogger("get_email_message_content")
	cfg, ok := s.load(log)
	if !ok {
		return types.Message{}, false
	}
	p, ok := s.emailProvider(log, cfg, identity.Provider)
	if !ok {
		return types.Message{}, false
	}
	p.Attach(identity)

	msg, found := p.GetMessageContent(ctx, messageID)
	if !found {
		log.Warn("message not available", zap.String("message_id", messageID))
	}
	return msg, found
}
