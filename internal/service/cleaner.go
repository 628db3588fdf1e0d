package service

import (
	"context"
	"errors"
	"sync"

	"github.com/inovacc/dcc/internal/model"
	"github.com/inovacc/dcc/internal/notify"
)

// ConfigBackend is the persistence the cleaner service needs.
// *store.ConfigStore satisfies it.
type ConfigBackend interface {
	Load() (*model.Configuration, error)
	Update(fn func(cfg *model.Configuration) error) (*model.Configuration, error)
}

// CleanerService provides CRUD over cleaner profiles.
//
// It owns the in-memory configuration it serves reads from. Every mutation
// holds the service lock for the whole read-modify-persist cycle, starts
// from the freshest on-disk document, and replaces the owned state only
// after the save succeeded. A failed mutation therefore leaves both the
// file and the in-memory state as they were.
type CleanerService struct {
	backend    ConfigBackend
	dispatcher *notify.Dispatcher

	mu    sync.Mutex
	state *model.Configuration
}

// NewCleanerService creates a CleanerService. dispatcher may be nil.
func NewCleanerService(backend ConfigBackend, dispatcher *notify.Dispatcher) *CleanerService {
	return &CleanerService{backend: backend, dispatcher: dispatcher}
}

// List returns all cleaners in configuration order. The configuration is
// loaded on first use and reused afterwards; call Refresh to reload it.
func (s *CleanerService) List(ctx context.Context) ([]model.Cleaner, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.current()
	if err != nil {
		return nil, &model.OpError{Op: "list", Err: err}
	}

	return cloneAll(cfg.Cleaners), nil
}

// Refresh discards the owned state and reloads it from the store.
func (s *CleanerService) Refresh(ctx context.Context) ([]model.Cleaner, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.backend.Load()
	if err != nil {
		return nil, &model.OpError{Op: "refresh", Err: err}
	}

	s.state = cfg

	return cloneAll(cfg.Cleaners), nil
}

// Get returns the cleaner with id.
func (s *CleanerService) Get(ctx context.Context, id int) (model.Cleaner, error) {
	if err := ctx.Err(); err != nil {
		return model.Cleaner{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.current()
	if err != nil {
		return model.Cleaner{}, &model.OpError{Op: "get", ID: id, Err: err}
	}

	i := cfg.IndexOf(id)
	if i < 0 {
		return model.Cleaner{}, &model.OpError{Op: "get", ID: id, Err: model.ErrNotFound}
	}

	return cfg.Cleaners[i].Clone(), nil
}

// Create stores a new cleaner. When c.ID is not positive the next free id
// (max + 1, or 1 for an empty collection) is assigned; an explicit id that
// is already taken fails with model.ErrConflict.
func (s *CleanerService) Create(ctx context.Context, c model.Cleaner) (model.Cleaner, error) {
	if err := ctx.Err(); err != nil {
		return model.Cleaner{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var created model.Cleaner

	cfg, err := s.backend.Update(func(cfg *model.Configuration) error {
		if c.ID > 0 && cfg.IndexOf(c.ID) >= 0 {
			return model.ErrConflict
		}

		candidate := c.Clone()
		if candidate.ID <= 0 {
			candidate.ID = cfg.NextID()
		}

		if err := candidate.Validate(); err != nil {
			return err
		}

		cfg.Cleaners = append(cfg.Cleaners, candidate)
		created = candidate

		return nil
	})
	if err != nil {
		return model.Cleaner{}, &model.OpError{Op: "create", ID: c.ID, Err: err}
	}

	s.state = cfg
	s.dispatch(ctx, notify.EventCleanerCreated, created)

	return created.Clone(), nil
}

// Update overwrites the name, description, location and directories of the
// cleaner sharing c.ID. The id itself never changes.
func (s *CleanerService) Update(ctx context.Context, c model.Cleaner) (model.Cleaner, error) {
	if err := ctx.Err(); err != nil {
		return model.Cleaner{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var updated model.Cleaner

	cfg, err := s.backend.Update(func(cfg *model.Configuration) error {
		i := cfg.IndexOf(c.ID)
		if i < 0 {
			return model.ErrNotFound
		}

		next := c.Clone()
		next.ID = cfg.Cleaners[i].ID

		if err := next.Validate(); err != nil {
			return err
		}

		cfg.Cleaners[i] = next
		updated = next

		return nil
	})
	if err != nil {
		return model.Cleaner{}, &model.OpError{Op: "update", ID: c.ID, Err: err}
	}

	s.state = cfg
	s.dispatch(ctx, notify.EventCleanerUpdated, updated)

	return updated.Clone(), nil
}

// Delete removes the cleaner with id.
func (s *CleanerService) Delete(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var removed model.Cleaner

	cfg, err := s.backend.Update(func(cfg *model.Configuration) error {
		i := cfg.IndexOf(id)
		if i < 0 {
			return model.ErrNotFound
		}

		removed = cfg.Cleaners[i]
		cfg.Cleaners = append(cfg.Cleaners[:i:i], cfg.Cleaners[i+1:]...)

		return nil
	})
	if err != nil {
		return &model.OpError{Op: "delete", ID: id, Err: err}
	}

	s.state = cfg
	s.dispatch(ctx, notify.EventCleanerDeleted, removed)

	return nil
}

// current returns the owned state, loading it on first use.
func (s *CleanerService) current() (*model.Configuration, error) {
	if s.state != nil {
		return s.state, nil
	}

	cfg, err := s.backend.Load()
	if err != nil {
		return nil, err
	}

	if cfg == nil {
		return nil, errors.New("configuration could not be loaded")
	}

	s.state = cfg

	return s.state, nil
}

func (s *CleanerService) dispatch(ctx context.Context, eventType string, c model.Cleaner) {
	s.dispatcher.Dispatch(ctx, notify.NewEvent(eventType).WithCleaner(c.ID, c.Name, c.Location))
}

func cloneAll(cleaners []model.Cleaner) []model.Cleaner {
	out := make([]model.Cleaner, 0, len(cleaners))
	for _, c := range cleaners {
		out = append(out, c.Clone())
	}

	return out
}
