package store

import (
	"context"
	"fmt"

	"github.com/inovacc/dcc/internal/model"
	"github.com/inovacc/dcc/internal/store/sqlite"
)

// Backend names accepted by OpenHistory.
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// HistoryStore defines the run history operations used by the app.
type HistoryStore interface {
	Ping() error
	SaveRun(ctx context.Context, run *model.RunRecord) error
	ListRuns(ctx context.Context, cleanerID, limit int) ([]model.RunRecord, error)
	DeleteRuns(ctx context.Context, cleanerID int) (int, error)
	Close() error
}

var (
	_ HistoryStore = (*Bolt)(nil)
	_ HistoryStore = (*sqlite.Store)(nil)
)

// OpenHistory opens the run history at path with the named backend.
// An empty backend selects SQLite.
func OpenHistory(backend, path string) (HistoryStore, error) {
	var (
		instance HistoryStore
		err      error
	)

	switch backend {
	case "", BackendSQLite:
		instance, err = sqlite.New(path)
	case BackendBolt:
		instance, err = NewBolt(path)
	default:
		return nil, fmt.Errorf("unknown history backend %q", backend)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open history %s: %w", path, err)
	}

	if err := instance.Ping(); err != nil {
		_ = instance.Close()
		return nil, fmt.Errorf("history %s is not accessible: %w", path, err)
	}

	return instance, nil
}
