package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrator(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	m := NewMigrator(s.db)

	migrations, err := m.LoadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "create runs", migrations[0].Description)
	assert.NotEmpty(t, migrations[0].UpSQL)
	assert.NotEmpty(t, migrations[0].DownSQL)

	version, err := m.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, len(migrations), version)

	pending, err := m.PendingMigrations()
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.NoError(t, m.MigrateDown())

	version, err = m.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 0, version)

	require.NoError(t, m.MigrateUp())

	version, err = m.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}
