package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFilesAreEmbedded(t *testing.T) {
	names, err := MigrationFiles()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "migrations/001_init.sql", names[0])

	script, err := migrations.ReadFile(names[0])
	require.NoError(t, err)
	for _, table := range []string{"orders", "order_items", "menu_items", "reports"} {
		assert.Contains(t, string(script), "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
}
