package model

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/typegrid/typegrid/pkg/errors"
	"github.com/typegrid/typegrid/pkg/observability"
)

// Store is the interface for model storage backends.
//
// Names identify models within a backend and must pass
// [errors.ValidateModelName]. Get returns an error carrying a not-found
// code when no model with that name exists; Delete is idempotent.
type Store interface {
	// Get retrieves a model by name.
	Get(ctx context.Context, name string) (*Model, error)

	// Put stores a model under the given name, replacing any existing one.
	// Card types and relations with blank keys receive generated ones.
	Put(ctx context.Context, name string, m *Model) error

	// Delete removes a model. Deleting a missing model is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the stored model names in lexical order.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close() error
}

// =============================================================================
// FileStore - JSON documents under a directory
// =============================================================================

// FileStore stores models as JSON documents in a directory, one file per
// model. It is the CLI backend; servers usually prefer [MongoStore].
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based model store rooted at baseDir.
// If baseDir is empty, defaults to ~/.config/typegrid/models/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "typegrid", "models")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create model dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) modelPath(name string) string {
	return filepath.Join(s.baseDir, name+".json")
}

func (s *FileStore) Get(ctx context.Context, name string) (*Model, error) {
	start := time.Now()
	m, err := s.get(name)
	observability.Store().OnLoad(ctx, "file", name, time.Since(start), err)
	return m, err
}

func (s *FileStore) get(name string) (*Model, error) {
	if err := errors.ValidateModelName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.modelPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeModelNotFound, "model not found: %s", name)
		}
		return nil, fmt.Errorf("read model file: %w", err)
	}

	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "parse model %s", name)
	}
	return &m, nil
}

func (s *FileStore) Put(ctx context.Context, name string, m *Model) error {
	start := time.Now()
	err := s.put(name, m)
	observability.Store().OnSave(ctx, "file", name, time.Since(start), err)
	return err
}

func (s *FileStore) put(name string, m *Model) error {
	if err := errors.ValidateModelName(name); err != nil {
		return err
	}
	m.EnsureKeys()
	if err := m.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "marshal model %s", name)
	}
	if err := os.WriteFile(s.modelPath(name), data, 0o644); err != nil {
		return fmt.Errorf("write model file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	err := s.delete(name)
	observability.Store().OnDelete(ctx, "file", name, err)
	return err
}

func (s *FileStore) delete(name string) error {
	if err := errors.ValidateModelName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.modelPath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove model file: %w", err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read model dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	slices.Sort(names)
	return names, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for model files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
