package db

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationsFS, "migrations/*.down.sql")
	require.NoError(t, err)

	require.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}

func TestMigrationsCreateTables(t *testing.T) {
	raw, err := fs.ReadFile(migrationsFS, "migrations/000001_analytics_events.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "CREATE TABLE IF NOT EXISTS analytics_events")
	assert.Regexp(t, `params\s+JSON\s+NOT NULL`, string(raw))
	assert.NotContains(t, string(raw), "JSONB")

	raw, err = fs.ReadFile(migrationsFS, "migrations/000002_event_sequence.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "CREATE TABLE IF NOT EXISTS event_sequence")
}
