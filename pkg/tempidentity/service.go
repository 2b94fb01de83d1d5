// Package tempidentity is the orchestration facade: it resolves the
// configured provider, runs one operation against a fresh provider
// instance and records created identities.
//
// Operations never return upstream errors. Failures are logged and
// reported as false or empty results; configuration collaborators
// return errors normally.
package tempidentity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/OlliePage/temp-identity-project/pkg/config"
	"github.com/OlliePage/temp-identity-project/pkg/factory"
	"github.com/OlliePage/temp-identity-project/pkg/history"
	"github.com/OlliePage/temp-identity-project/pkg/poll"
	"github.com/OlliePage/temp-identity-project/pkg/types"
)

// Poll intervals used by the wait operations
const (
	DefaultEmailInterval = 5 * time.Second
	DefaultSMSInterval   = 10 * time.Second
)

// ConfigSource supplies and persists the application configuration
type ConfigSource interface {
	Load() (*config.Config, error)
	Save(cfg *config.Config) error
}

// HistoryWriter receives records of created identities
type HistoryWriter interface {
	Add(ctx context.Context, record history.Record) error
}

// Service runs provider operations on behalf of a caller
type Service struct {
	registry      *factory.Registry
	config        ConfigSource
	history       HistoryWriter
	logger        *zap.Logger
	clock         poll.Clock
	emailInterval time.Duration
	smsInterval   time.Duration
}

// Option configures a Service
type Option func(*Service)

// WithRegistry sets the provider registry. By default a new registry with
// the built-in providers is used.
func WithRegistry(r *factory.Registry) Option {
	return func(s *Service) { s.registry = r }
}

// WithHistory sets where created identities are recorded
func WithHistory(w HistoryWriter) Option {
	return func(s *Service) { s.history = w }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces the clock used for waits and timestamps
func WithClock(c poll.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithPollIntervals overrides the email and SMS poll intervals
func WithPollIntervals(email, sms time.Duration) Option {
	return func(s *Service) {
		s.emailInterval = email
		s.smsInterval = sms
	}
}

// New creates a Service reading configuration from source
func New(source ConfigSource, opts ...Option) *Service {
	s := &Service{
		config:        source,
		history:       history.Discard,
		logger:        zap.NewNop(),
		clock:         poll.RealClock(),
		emailInterval: DefaultEmailInterval,
		smsInterval:   DefaultSMSInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = factory.New(s.logger)
	}
	if s.history == nil {
		s.history = history.Discard
	}
	return s
}

// Registry returns the provider registry in use
func (s *Service) Registry() *factory.Registry {
	return s.registry
}

// opLogger tags every log line of one operation with a fresh id
func (s *Service) opLogger(op string) *zap.Logger {
	return s.logger.With(zap.String("op", op), zap.String("op_id", uuid.NewString()))
}

// load returns the current configuration, logging failures
func (s *Service) load(log *zap.Logger) (*config.Config, bool) {
	cfg, err := s.config.Load()
	if err != nil {
		log.Error("failed to load configuration", zap.Error(err))
		return nil, false
	}
	return cfg, true
}

func (s *Service) emailProvider(log *zap.Logger, cfg *config.Config, name string) (types.EmailProvider, bool) {
	if name == "" {
		name = cfg.PreferredEmailService
	}
	p, err := s.registry.ResolveEmailProvider(name, cfg.ProviderConfig(name))
	if err != nil {
		log.Warn("cannot use email provider", zap.String("provider", name), zap.Error(err))
		return nil, false
	}
	return p, true
}

func (s *Service) smsProvider(log *zap.Logger, cfg *config.Config, name string) (types.SMSProvider, bool) {
	if name == "" {
		name = cfg.PreferredSMSService
	}
	p, err := s.registry.ResolveSMSProvider(name, cfg.ProviderConfig(name))
	if err != nil {
		log.Warn("cannot use sms provider", zap.String("provider", name), zap.Error(err))
		return nil, false
	}
	return p, true
}

func (s *Service) record(ctx context.Context, log *zap.Logger, cfg *config.Config, rec history.Record) {
	if !cfg.SaveHistory {
		return
	}
	if err := s.history.Add(ctx, rec); err != nil {
		log.Warn("failed to save history", zap.Error(err))
	}
}

func resolveWait(requested, fallback time.Duration) time.Duration {
	if requested > 0 {
		return requested
	}
	return fallback
}
