package config

import "sync"

// Source loads and persists a Config. FileSource is the default.
type Source interface {
	Load() (*Config, error)
	Save(cfg *Config) error
}

// FileSource reads and writes a YAML file with the environment overlay
type FileSource struct {
	Path string
}

// NewFileSource creates a source for path, defaulting to ~/.tempidentity/config.yaml
func NewFileSource(path string) (*FileSource, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &FileSource{Path: path}, nil
}

func (s *FileSource) Load() (*Config, error) {
	return Load(s.Path)
}

func (s *FileSource) Save(cfg *Config) error {
	return Save(s.Path, cfg)
}

// MemorySource keeps the configuration in memory
type MemorySource struct {
	mu  sync.Mutex
	cfg *Config
}

// NewMemorySource creates a source seeded with cfg, or the defaults when nil
func NewMemorySource(cfg *Config) *MemorySource {
	if cfg == nil {
		cfg = Default()
	}
	return &MemorySource{cfg: cfg.clone()}
}

func (s *MemorySource) Load() (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.clone(), nil
}

func (s *MemorySource) Save(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg.clone()
	return nil
}

func (c *Config) clone() *Config {
	out := *c
	out.Providers = make(map[string]map[string]string, len(c.Providers))
	for name, block := range c.Providers {
		copied := make(map[string]string, len(block))
		for k, v := range block {
			copied[k] = v
		}
		out.Providers[name] = copied
	}
	return &out
}
