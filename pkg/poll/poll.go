// Package poll implements the bounded-wait polling engine shared by every
// provider. A wait alternates a non-blocking check with a fixed sleep until
// the check succeeds or the timeout elapses. Timing out is not an error: it
// yields an empty result.
package poll

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/OlliePage/temp-identity-project/pkg/types"
)

// MinInterval is used in place of a non-positive check interval
const MinInterval = time.Second

// Clock abstracts time for the wait loop
type Clock interface {
	Now() time.Time
	// Sleep pauses for d and reports whether the wait may continue.
	Sleep(ctx context.Context, d time.Duration) bool
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// RealClock returns the wall clock
func RealClock() Clock { return realClock{} }

type options struct {
	clock  Clock
	logger *zap.Logger
}

// Option configures a wait
type Option func(*options)

// WithClock replaces the wall clock
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLogger logs each poll iteration at debug level
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{clock: realClock{}, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Until runs check every interval until it reports done or timeout elapses.
// The first check happens immediately. It returns the zero value and false
// on timeout or when ctx ends.
func Until[T any](ctx context.Context, timeout, interval time.Duration, check func(context.Context) (T, bool), opts ...Option) (T, bool) {
	o := buildOptions(opts)
	if interval <= 0 {
		interval = MinInterval
	}

	var zero T
	start := o.clock.Now()
	attempt := 0
	for o.clock.Now().Sub(start) < timeout {
		if ctx.Err() != nil {
			o.logger.Debug("wait cancelled", zap.Int("attempts", attempt))
			return zero, false
		}

		attempt++
		if v, done := check(ctx); done {
			o.logger.Debug("wait satisfied", zap.Int("attempts", attempt),
				zap.Duration("elapsed", o.clock.Now().Sub(start)))
			return v, true
		}

		if !o.clock.Sleep(ctx, interval) {
			o.logger.Debug("wait cancelled", zap.Int("attempts", attempt))
			return zero, false
		}
	}

	o.logger.Debug("wait timed out", zap.Int("attempts", attempt), zap.Duration("timeout", timeout))
	return zero, false
}

// WaitForMessages blocks until the inbox holds more messages than it did when
// the wait started, and returns the newest (current - initial) messages.
//
// This is a count delta, not an identity diff: a message deleted between
// polls shifts the baseline.
func WaitForMessages(ctx context.Context, checker types.MessageChecker, timeout, interval time.Duration, opts ...Option) []types.Message {
	initial := len(checker.CheckMessages(ctx))

	msgs, ok := Until(ctx, timeout, interval, func(ctx context.Context) ([]types.Message, bool) {
		current := checker.CheckMessages(ctx)
		if len(current) > initial {
			return current[:len(current)-initial], true
		}
		return nil, false
	}, opts...)
	if !ok {
		return []types.Message{}
	}
	return msgs
}

// WaitForSMS blocks until the provider reports a non-empty verification code
func WaitForSMS(ctx context.Context, checker types.SMSChecker, timeout, interval time.Duration, opts ...Option) (string, bool) {
	return Until(ctx, timeout, interval, func(ctx context.Context) (string, bool) {
		code, ok := checker.CheckSMS(ctx)
		return code, ok && code != ""
	}, opts...)
}
