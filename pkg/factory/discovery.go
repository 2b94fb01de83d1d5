package factory

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrPluginFailed wraps every error collected from a failing plugin
var ErrPluginFailed = errors.New("plugin failed")

// Plugin registers additional providers into a registry
type Plugin interface {
	Name() string
	Register(r *Registry) error
}

type pluginFunc struct {
	name string
	fn   func(r *Registry) error
}

func (p pluginFunc) Name() string               { return p.name }
func (p pluginFunc) Register(r *Registry) error { return p.fn(r) }

// NewPlugin wraps a registration function as a Plugin
func NewPlugin(name string, fn func(r *Registry) error) Plugin {
	return pluginFunc{name: name, fn: fn}
}

// AutoDiscover registers the built-in providers and then runs each plugin.
// A plugin that returns an error or panics is logged and skipped; the
// remaining plugins still run. The collected failures are returned.
//
// Running AutoDiscover twice with the same plugins yields the same mapping.
func (r *Registry) AutoDiscover(plugins ...Plugin) []error {
	RegisterDefaultProviders(r)

	r.mutex.Lock()
	r.initialized = true
	r.mutex.Unlock()

	var errs []error
	for _, plugin := range plugins {
		if plugin == nil {
			continue
		}
		if err := r.runPlugin(plugin); err != nil {
			r.logger.Warn("provider plugin failed",
				zap.String("plugin", plugin.Name()),
				zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errs
}

func (r *Registry) runPlugin(plugin Plugin) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %s: panic: %v", ErrPluginFailed, plugin.Name(), rec)
		}
	}()

	if regErr := plugin.Register(r); regErr != nil {
		return fmt.Errorf("%w: %s: %w", ErrPluginFailed, plugin.Name(), regErr)
	}
	return nil
}
