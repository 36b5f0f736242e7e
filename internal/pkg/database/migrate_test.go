package database

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations_Embedded(t *testing.T) {
	ms, err := loadMigrations(migrationFS)
	require.NoError(t, err)
	require.NotEmpty(t, ms)
	assert.Equal(t, 1, ms[0].Version)
	assert.Contains(t, ms[0].SQL, "UNIQUE (user_id, date)")
	assert.Contains(t, ms[0].SQL, "ON DELETE RESTRICT")
}

func TestLoadMigrations_Ordering(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0002_second.sql": {Data: []byte("SELECT 2;")},
		"migrations/0001_first.sql":  {Data: []byte("SELECT 1;")},
		"migrations/README.md":       {Data: []byte("ignored")},
	}
	ms, err := loadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, "0001_first.sql", ms[0].Name)
	assert.Equal(t, 2, ms[1].Version)
}

func TestLoadMigrations_Invalid(t *testing.T) {
	_, err := loadMigrations(fstest.MapFS{
		"migrations/init.sql": {Data: []byte("SELECT 1;")},
	})
	assert.Error(t, err)

	_, err = loadMigrations(fstest.MapFS{
		"migrations/0001_a.sql": {Data: []byte("SELECT 1;")},
		"migrations/001_b.sql":  {Data: []byte("SELECT 1;")},
	})
	assert.Error(t, err)
}
