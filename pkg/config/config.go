// Package config loads and saves the application configuration: provider
// preferences, per-provider settings and history options.
//
// Precedence, lowest first: compiled defaults, the YAML file, then
// TEMPIDENTITY_ environment variables. Nested keys use a double
// underscore, e.g. TEMPIDENTITY_PROVIDERS__TEXTVERIFIED__API_KEY.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/OlliePage/temp-identity-project/pkg/types"
)

const (
	// EnvPrefix marks environment variables read by Load
	EnvPrefix = "TEMPIDENTITY_"

	// DirName is the directory under the user's home holding config and history
	DirName = ".tempidentity"

	// FileName is the configuration file inside DirName
	FileName = "config.yaml"

	DefaultEmailService = "mail.gw"
	DefaultSMSService   = "textverified"
	DefaultWaitSeconds  = 120
	DefaultHistoryLimit = 20

	// DefaultSMSWaitSeconds is longer than DefaultWaitSeconds; codes are slower than mail
	DefaultSMSWaitSeconds = 300
)

var validate = validator.New()

// Config is the application configuration
type Config struct {
	PreferredEmailService string                       `yaml:"preferred_email_service" koanf:"preferred_email_service" validate:"required"`
	PreferredSMSService   string                       `yaml:"preferred_sms_service" koanf:"preferred_sms_service" validate:"required"`
	Providers             map[string]map[string]string `yaml:"providers" koanf:"providers"`
	DefaultWaitTime       int                          `yaml:"default_wait_time" koanf:"default_wait_time" validate:"gte=1"` // seconds
	SMSWaitTime           int                          `yaml:"sms_wait_time" koanf:"sms_wait_time" validate:"gte=1"`         // seconds
	SaveHistory           bool                         `yaml:"save_history" koanf:"save_history"`
	HistoryLimit          int                          `yaml:"history_limit" koanf:"history_limit" validate:"gte=0"`
}

// Default returns the compiled defaults
func Default() *Config {
	return &Config{
		PreferredEmailService: DefaultEmailService,
		PreferredSMSService:   DefaultSMSService,
		Providers: map[string]map[string]string{
			DefaultEmailService: {},
			DefaultSMSService:   {types.ConfigKeyAPIKey: ""},
		},
		DefaultWaitTime: DefaultWaitSeconds,
		SMSWaitTime:     DefaultSMSWaitSeconds,
		SaveHistory:     true,
		HistoryLimit:    DefaultHistoryLimit,
	}
}

// DefaultDir returns ~/.tempidentity
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// DefaultPath returns ~/.tempidentity/config.yaml
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads the configuration at path. A missing file yields the defaults
// with the environment overlay applied.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays TEMPIDENTITY_ variables onto cfg
func applyEnv(cfg *Config) error {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return fmt.Errorf("load env vars: %w", err)
	}

	// Provider blocks merge key by key instead of replacing the YAML block.
	for name, raw := range k.Cut("providers").Raw() {
		block, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		values := make(map[string]string, len(block))
		for key, v := range block {
			values[key] = fmt.Sprint(v)
		}
		cfg.SetProviderConfig(name, values)
	}
	k.Delete("providers")

	if len(k.Keys()) == 0 {
		return nil
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return fmt.Errorf("unmarshal env config: %w", err)
	}
	return nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save writes cfg as YAML, creating the parent directory
func Save(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	// Provider blocks may hold API keys.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ProviderConfig returns a copy of the settings block for name
func (c *Config) ProviderConfig(name string) types.ProviderConfig {
	return types.ProviderConfig(c.Providers[name]).Clone()
}

// SetProviderConfig merges values into the settings block for name
func (c *Config) SetProviderConfig(name string, values map[string]string) {
	if c.Providers == nil {
		c.Providers = make(map[string]map[string]string)
	}
	block := c.Providers[name]
	if block == nil {
		block = make(map[string]string, len(values))
	}
	for k, v := range values {
		block[k] = v
	}
	c.Providers[name] = block
}

// WaitTime is DefaultWaitTime as a duration
func (c *Config) WaitTime() time.Duration {
	return time.Duration(c.DefaultWaitTime) * time.Second
}

// SMSWait is SMSWaitTime as a duration
func (c *Config) SMSWait() time.Duration {
	return time.Duration(c.SMSWaitTime) * time.Second
}
