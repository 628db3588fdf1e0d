package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/inovacc/dcc/internal/encoding"
	"github.com/inovacc/dcc/internal/model"
)

// ConfigStore owns the cleaner configuration document on disk.
// No other component writes that file.
type ConfigStore struct {
	path string
	lock *fileLock
	mu   sync.Mutex
}

// NewConfigStore returns a store for the configuration document at path.
func NewConfigStore(path string) *ConfigStore {
	return &ConfigStore{
		path: path,
		lock: newFileLock(path+".lock", time.Second),
	}
}

// Path returns the location of the configuration document.
func (s *ConfigStore) Path() string {
	return s.path
}

// Create returns the existing configuration, or writes and returns an empty
// one when the file is absent.
func (s *ConfigStore) Create() (*model.Configuration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadLocked("create")
}

// Load returns the current configuration, creating the file first if it is
// missing. Reading an existing document does not take the lock.
func (s *ConfigStore) Load() (*model.Configuration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.read()
	if err != nil || cfg != nil {
		return cfg, err
	}

	return s.loadLocked("load")
}

// Save replaces the whole document with cfg.
func (s *ConfigStore) Save(cfg *model.Configuration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.acquire(); err != nil {
		return &model.ConfigurationError{Op: "save", Path: s.path, Err: err}
	}
	defer s.lock.release()

	return s.save(cfg)
}

// Update runs a read-modify-write cycle under the store lock: it loads the
// freshest document, applies fn to it and saves the result. Nothing is
// written when fn returns an error.
func (s *ConfigStore) Update(fn func(cfg *model.Configuration) error) (*model.Configuration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.acquire(); err != nil {
		return nil, &model.ConfigurationError{Op: "update", Path: s.path, Err: err}
	}
	defer s.lock.release()

	cfg, err := s.load()
	if err != nil {
		return nil, err
	}

	if err := fn(cfg); err != nil {
		return nil, err
	}

	if err := s.save(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Delete removes the configuration document. A missing file is not an error.
func (s *ConfigStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := encoding.RemoveFile(s.path); err != nil {
		return fmt.Errorf("failed to delete configuration: %w", err)
	}

	return nil
}

// loadLocked takes the file lock and runs load under it.
func (s *ConfigStore) loadLocked(op string) (*model.Configuration, error) {
	if err := s.lock.acquire(); err != nil {
		return nil, &model.ConfigurationError{Op: op, Path: s.path, Err: err}
	}
	defer s.lock.release()

	return s.load()
}

// load reads the document, writing an empty one when it is absent. The
// caller holds the file lock.
func (s *ConfigStore) load() (*model.Configuration, error) {
	cfg, err := s.read()
	if err != nil || cfg != nil {
		return cfg, err
	}

	cfg = model.NewConfiguration()
	if err := s.save(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// read returns nil, nil when the document does not exist.
func (s *ConfigStore) read() (*model.Configuration, error) {
	cfg, err := encoding.LoadJSON[model.Configuration](s.path)
	if err != nil {
		return nil, &model.ConfigurationError{Op: "load", Path: s.path, Err: err}
	}

	if cfg == nil {
		return nil, nil
	}

	if err := cfg.Normalize(); err != nil {
		return nil, &model.ConfigurationError{
			Op:   "load",
			Path: s.path,
			Err:  errors.Join(encoding.ErrInvalidJSON, err),
		}
	}

	return cfg, nil
}

func (s *ConfigStore) save(cfg *model.Configuration) error {
	if cfg == nil {
		cfg = model.NewConfiguration()
	}

	out := cfg.Clone()
	if err := encoding.SaveJSON(s.path, out); err != nil {
		return &model.ConfigurationError{Op: "save", Path: s.path, Err: err}
	}

	return nil
}
