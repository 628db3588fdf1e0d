package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/inovacc/dcc/internal/model"
	"go.etcd.io/bbolt"
)

const (
	boltBucketRuns = "runs" // key: started_at nanos + run id -> RunRecord JSON
)

// Bolt keeps clean runs in a bbolt database.
type Bolt struct {
	storage *bbolt.DB
}

// NewBolt creates a new Bolt database at the specified path.
func NewBolt(path string) (*Bolt, error) {
	instance, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	if err := instance.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucketRuns))
		return err
	}); err != nil {
		_ = instance.Close()

		return nil, err
	}

	return &Bolt{storage: instance}, nil
}

// Close closes the database.
func (b *Bolt) Close() error {
	return b.storage.Close()
}

func (b *Bolt) Ping() error {
	return b.storage.View(func(tx *bbolt.Tx) error {
		return nil
	})
}

// runKey orders runs by start time so a reverse cursor walk is newest first.
func runKey(run *model.RunRecord) []byte {
	return fmt.Appendf(nil, "%020d-%s", run.StartedAt.UnixNano(), run.ID)
}

func (b *Bolt) SaveRun(_ context.Context, run *model.RunRecord) error {
	if run == nil || run.ID == "" {
		return errors.New("run id is required")
	}

	data, err := json.Marshal(run)
	if err != nil {
		return err
	}

	return b.storage.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketRuns)).Put(runKey(run), data)
	})
}

func (b *Bolt) ListRuns(ctx context.Context, cleanerID, limit int) ([]model.RunRecord, error) {
	var out []model.RunRecord

	err := b.storage.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(boltBucketRuns)).Cursor()

		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var r model.RunRecord

			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}

			if cleanerID > 0 && r.CleanerID != cleanerID {
				continue
			}

			out = append(out, r)

			if limit > 0 && len(out) >= limit {
				return nil
			}
		}

		return nil
	})

	return out, err
}

// DeleteRuns removes the runs of cleanerID, or every run when cleanerID <= 0.
func (b *Bolt) DeleteRuns(_ context.Context, cleanerID int) (int, error) {
	var deleted int

	err := b.storage.Update(func(tx *bbolt.Tx) error {
		runs := tx.Bucket([]byte(boltBucketRuns))

		var keys [][]byte

		if err := runs.ForEach(func(k, v []byte) error {
			var r model.RunRecord

			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}

			if cleanerID <= 0 || r.CleanerID == cleanerID {
				keys = append(keys, append([]byte(nil), k...))
			}

			return nil
		}); err != nil {
			return err
		}

		for _, k := range keys {
			if err := runs.Delete(k); err != nil {
				return err
			}
		}

		deleted = len(keys)

		return nil
	})

	return deleted, err
}
