package store

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/inovacc/dcc/internal/encoding"
	"github.com/inovacc/dcc/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfigStore(t *testing.T) *ConfigStore {
	t.Helper()

	return NewConfigStore(filepath.Join(t.TempDir(), "dcc.configuration.json"))
}

func writeRaw(t *testing.T, cs *ConfigStore, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(cs.Path(), []byte(content), 0o600))
}

func TestConfigStore_LoadCreatesMissingFile(t *testing.T) {
	cs := newTestConfigStore(t)

	cfg, err := cs.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Cleaners)
	assert.NotNil(t, cfg.Cleaners)

	data, err := os.ReadFile(cs.Path())
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"cleaners\": []\n}\n", string(data))
}

func TestConfigStore_CreateIsIdempotent(t *testing.T) {
	cs := newTestConfigStore(t)

	_, err := cs.Update(func(cfg *model.Configuration) error {
		cfg.Cleaners = append(cfg.Cleaners, model.Cleaner{ID: 1, Name: "a", Directories: []string{"bin"}, Location: "/x"})
		return nil
	})
	require.NoError(t, err)

	cfg, err := cs.Create()
	require.NoError(t, err)
	require.Len(t, cfg.Cleaners, 1)
	assert.Equal(t, "a", cfg.Cleaners[0].Name)
}

func TestConfigStore_RoundTrip(t *testing.T) {
	cs := newTestConfigStore(t)
	desc := "JS caches"

	want := &model.Configuration{Cleaners: []model.Cleaner{
		{ID: 1, Name: "dotnet", Directories: []string{"bin", "obj"}, Location: "/src"},
		{ID: 2, Name: "web", Description: &desc, Directories: []string{"node_modules"}, Location: "/web"},
	}}

	require.NoError(t, cs.Save(want))

	got, err := cs.Load()
	require.NoError(t, err)
	require.Len(t, got.Cleaners, 2)

	for i := range want.Cleaners {
		assert.True(t, want.Cleaners[i].Equal(got.Cleaners[i]), "cleaner %d differs: %+v", i, got.Cleaners[i])
	}

	data, err := os.ReadFile(cs.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"description\": null")
	assert.Contains(t, string(data), "  \"cleaners\": [\n")
}

func TestConfigStore_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "truncated", content: `{"cleaners": [`},
		{name: "null document", content: "null"},
		{name: "wrong shape", content: `{"cleaners": {"id": 1}}`},
		{name: "missing name", content: `{"cleaners": [{"id": 1, "directories": [], "location": "/x"}]}`},
		{name: "duplicate ids", content: `{"cleaners": [
			{"id": 1, "name": "a", "directories": [], "location": "/x"},
			{"id": 1, "name": "b", "directories": [], "location": "/y"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := newTestConfigStore(t)
			writeRaw(t, cs, tt.content)

			_, err := cs.Load()
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrConfiguration)
			assert.ErrorIs(t, err, encoding.ErrInvalidJSON)

			var cfgErr *model.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, "load", cfgErr.Op)
			assert.Equal(t, cs.Path(), cfgErr.Path)

			// the corrupt document is left alone
			data, readErr := os.ReadFile(cs.Path())
			require.NoError(t, readErr)
			assert.Equal(t, tt.content, string(data))
		})
	}
}

func TestConfigStore_NullCleanerListIsEmpty(t *testing.T) {
	cs := newTestConfigStore(t)
	writeRaw(t, cs, `{"cleaners": null, "theme": "dark"}`)

	cfg, err := cs.Load()
	require.NoError(t, err)
	assert.NotNil(t, cfg.Cleaners)
	assert.Empty(t, cfg.Cleaners)
}

func TestConfigStore_UpdateDoesNotWriteOnError(t *testing.T) {
	cs := newTestConfigStore(t)
	writeRaw(t, cs, `{"cleaners": []}`)

	sentinel := errors.New("rejected")

	_, err := cs.Update(func(cfg *model.Configuration) error {
		cfg.Cleaners = append(cfg.Cleaners, model.Cleaner{ID: 1})
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	data, err := os.ReadFile(cs.Path())
	require.NoError(t, err)
	assert.Equal(t, `{"cleaners": []}`, string(data))
}

func TestConfigStore_UpdateSeesOtherInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dcc.configuration.json")
	first := NewConfigStore(path)
	second := NewConfigStore(path)

	add := func(cs *ConfigStore, name string) {
		_, err := cs.Update(func(cfg *model.Configuration) error {
			cfg.Cleaners = append(cfg.Cleaners, model.Cleaner{ID: cfg.NextID(), Name: name, Directories: []string{}, Location: "/x"})
			return nil
		})
		require.NoError(t, err)
	}

	add(first, "a")
	add(second, "b")
	add(first, "c")

	cfg, err := first.Load()
	require.NoError(t, err)
	require.Len(t, cfg.Cleaners, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{cfg.Cleaners[0].ID, cfg.Cleaners[1].ID, cfg.Cleaners[2].ID})
}

func TestConfigStore_ConcurrentUpdates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dcc.configuration.json")

	var wg sync.WaitGroup

	for range 8 {
		cs := NewConfigStore(path)

		wg.Go(func() {
			_, err := cs.Update(func(cfg *model.Configuration) error {
				cfg.Cleaners = append(cfg.Cleaners, model.Cleaner{ID: cfg.NextID(), Name: "n", Directories: []string{}, Location: "/x"})
				return nil
			})
			assert.NoError(t, err)
		})
	}

	wg.Wait()

	cfg, err := NewConfigStore(path).Load()
	require.NoError(t, err)
	assert.Len(t, cfg.Cleaners, 8)
}

// holdLock takes the configuration lock the way a second dcc process would.
func holdLock(t *testing.T, cs *ConfigStore) {
	t.Helper()

	holder := flock.New(cs.Path() + ".lock")

	locked, err := holder.TryLock()
	require.NoError(t, err)
	require.True(t, locked)

	t.Cleanup(func() { _ = holder.Unlock() })
}

func TestConfigStore_UpdateLocked(t *testing.T) {
	cs := newTestConfigStore(t)
	cs.lock.timeout = 20 * time.Millisecond

	holdLock(t, cs)

	_, err := cs.Update(func(*model.Configuration) error { return nil })
	require.ErrorIs(t, err, ErrLocked)
	assert.ErrorIs(t, err, model.ErrConfiguration)
}

func TestConfigStore_OldLockFileStillHeld(t *testing.T) {
	cs := newTestConfigStore(t)
	cs.lock.timeout = 20 * time.Millisecond

	holdLock(t, cs)

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(cs.Path()+".lock", old, old))

	_, err := cs.Update(func(*model.Configuration) error { return nil })
	require.ErrorIs(t, err, ErrLocked, "the age of the lock file says nothing about its holder")
}

func TestConfigStore_LeftoverLockFile(t *testing.T) {
	cs := newTestConfigStore(t)
	cs.lock.timeout = 20 * time.Millisecond

	// a process that exited leaves the file behind but holds no lock
	require.NoError(t, os.WriteFile(cs.Path()+".lock", []byte("4242"), 0o600))

	_, err := cs.Update(func(cfg *model.Configuration) error {
		cfg.Cleaners = append(cfg.Cleaners, model.Cleaner{ID: 1, Name: "a", Directories: []string{}, Location: "/x"})
		return nil
	})
	require.NoError(t, err)
}

func TestConfigStore_CreateMissingFileTakesLock(t *testing.T) {
	tests := []struct {
		name string
		call func(cs *ConfigStore) error
	}{
		{name: "load", call: func(cs *ConfigStore) error { _, err := cs.Load(); return err }},
		{name: "create", call: func(cs *ConfigStore) error { _, err := cs.Create(); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := newTestConfigStore(t)
			cs.lock.timeout = 20 * time.Millisecond

			holdLock(t, cs)

			err := tt.call(cs)
			require.ErrorIs(t, err, ErrLocked)
			assert.NoFileExists(t, cs.Path())
		})
	}
}

func TestConfigStore_LoadExistingWhileLocked(t *testing.T) {
	cs := newTestConfigStore(t)
	cs.lock.timeout = 20 * time.Millisecond
	writeRaw(t, cs, `{"cleaners": []}`)

	holdLock(t, cs)

	cfg, err := cs.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Cleaners)
}

func TestConfigStore_Delete(t *testing.T) {
	cs := newTestConfigStore(t)

	_, err := cs.Create()
	require.NoError(t, err)

	require.NoError(t, cs.Delete())
	assert.NoFileExists(t, cs.Path())

	// deleting again is fine
	require.NoError(t, cs.Delete())
}

func TestConfigStore_SaveFailure(t *testing.T) {
	dir := t.TempDir()
	// the parent of the document is a regular file, so nothing can be written
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	cs := NewConfigStore(filepath.Join(blocker, "dcc.configuration.json"))

	err := cs.Save(model.NewConfiguration())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrConfiguration)
}
