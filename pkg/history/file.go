package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/OlliePage/temp-identity-project/pkg/types"
)

// FileStore keeps one JSON file per kind, <dir>/<kind>_history.json
type FileStore struct {
	dir    string
	limit  int
	logger *zap.Logger
	mu     sync.Mutex
}

// NewFileStore creates a store under dir keeping at most limit records per kind
func NewFileStore(dir string, limit int, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{dir: dir, limit: limit, logger: logger}
}

// Path returns the file holding records of kind
func (s *FileStore) Path(kind types.ProviderKind) string {
	return filepath.Join(s.dir, string(kind)+"_history.json")
}

func (s *FileStore) Add(ctx context.Context, record Record) error {
	if err := validKind(record.Kind); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read(record.Kind)
	if err != nil {
		// A corrupt file is replaced rather than blocking new records.
		s.logger.Warn("discarding unreadable history",
			zap.String("path", s.Path(record.Kind)),
			zap.Error(err))
		records = nil
	}

	records = prepend(records, record, s.limit)
	if err := s.write(record.Kind, records); err != nil {
		return err
	}
	s.logger.Debug("history record added",
		zap.String("kind", string(record.Kind)),
		zap.String("id", record.ID))
	return nil
}

// List returns records of kind, newest first. A missing file is an empty history.
func (s *FileStore) List(_ context.Context, kind types.ProviderKind) ([]Record, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read(kind)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func (s *FileStore) read(kind types.ProviderKind) ([]Record, error) {
	data, err := os.ReadFile(s.Path(kind))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse history %s: %w", s.Path(kind), err)
	}
	return records, nil
}

func (s *FileStore) write(kind types.ProviderKind, records []Record) error {
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	tmp := s.Path(kind) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	if err := os.Rename(tmp, s.Path(kind)); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}
