package migration

import (
	"io/fs"
	"testing"

	"github.com/smallbiznis/storepulse/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(embeddedMigrations, migrationsDir)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, entry := range entries {
		names[entry.Name()] = true
	}
	assert.True(t, names["000001_reporting_tables.up.sql"])
	assert.True(t, names["000001_reporting_tables.down.sql"])
}

func TestApplyAutoMigratesSqlite(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)

	require.NoError(t, Apply(conn))
	for _, table := range []string{"stores", "order_stats", "daily_stats", "store_daily_orders"} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}
}
