package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/querykit/connector"
)

func TestDSN(t *testing.T) {
	assert.Equal(t, ":memory:", DSN(connector.Config{}))
	assert.Equal(t, "app.db", DSN(connector.Config{Database: "app.db"}))
	assert.Equal(t,
		"app.db?_pragma=foreign_keys%281%29&_txlock=immediate",
		DSN(connector.Config{Database: "app.db", Params: map[string]string{
			"_txlock": "immediate",
			"_pragma": "foreign_keys(1)",
		}}),
	)
}

func TestOpenInMemory(t *testing.T) {
	ctx := context.Background()
	conn, err := connector.Open(ctx, "sqlite", connector.Config{})
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, "sqlite", conn.Dialect().Name())
	require.NoError(t, conn.Health(ctx))

	db := conn.Conn()
	_, err = db.Exec(ctx, "CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT)")
	require.NoError(t, err)
	_, err = db.Exec(ctx, "INSERT INTO kv (k, v) VALUES (?, ?)", "a", "1")
	require.NoError(t, err)

	// A second handle from the same connection sees the same in-memory database.
	rows, err := conn.Conn().Query(ctx, "SELECT v FROM kv WHERE k = ?", "a")
	require.NoError(t, err)
	defer rows.Close()
	require.True(t, rows.Next())
	var v string
	require.NoError(t, rows.Scan(&v))
	assert.Equal(t, "1", v)
	assert.Equal(t, 1, conn.Stats().OpenConnections)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	conn, err := connector.Open(context.Background(), "sqlite", connector.Config{Database: path})
	require.NoError(t, err)
	require.NoError(t, conn.Close())
}
