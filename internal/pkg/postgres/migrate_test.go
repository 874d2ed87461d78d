package postgres

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationSource(t *testing.T) {
	src, err := migrationSource()
	require.Nil(t, err)
	defer src.Close()

	v, err := src.First()
	require.Nil(t, err)
	assert.Equal(t, uint(1), v)
	_, err = src.Next(v)
	assert.ErrorIs(t, err, os.ErrNotExist)

	r, _, err := src.ReadUp(v)
	require.Nil(t, err)
	up, err := io.ReadAll(r)
	require.Nil(t, err)
	for _, s := range []string{"purchase_orders", "cost_tracking", "gue_jobs"} {
		assert.Contains(t, string(up), "CREATE TABLE IF NOT EXISTS "+s)
	}

	r, _, err = src.ReadDown(v)
	require.Nil(t, err)
	down, err := io.ReadAll(r)
	require.Nil(t, err)
	assert.Contains(t, string(down), "DROP TABLE IF EXISTS purchase_orders")
}

func TestMigrateLog(t *testing.T) {
	l := &migrateLog{}
	assert.False(t, l.Verbose())
	l.Printf("Start buffering %d/u %s\n", 1, "init")
}
