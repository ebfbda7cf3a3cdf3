package querykit

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/querykit/connector"
)

const configYAML = `
driver: postgres
database:
  host: db.internal
  port: 5432
  database: shop
  username: app
  connect_timeout: 3s
  params:
    application_name: api
  pool:
    max_open: 20
  retry:
    max_retries: 4
    base_delay: 200ms
logging:
  level: debug
cache:
  statements: 64
`

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "querykit.yaml", configYAML))
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "shop", cfg.Database.Database)
	assert.Equal(t, 3*time.Second, cfg.Database.ConnectTimeout)
	assert.Equal(t, "api", cfg.Database.Params["application_name"])
	assert.Equal(t, 20, cfg.Database.Pool.MaxOpen)
	require.NotNil(t, cfg.Database.Retry)
	assert.Equal(t, 4, cfg.Database.Retry.MaxRetries)
	assert.Equal(t, 200*time.Millisecond, cfg.Database.Retry.BaseDelay)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 64, cfg.Cache.Statements)
	assert.Equal(t, 1024, cfg.Cache.Queries)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("QUERYKIT_DATABASE_HOST", "replica.internal")
	t.Setenv("QUERYKIT_DATABASE_PASSWORD", "from-env")
	t.Setenv("QUERYKIT_CACHE_QUERIES", "0")

	cfg, err := LoadConfig(writeConfig(t, "querykit.yaml", configYAML))
	require.NoError(t, err)
	assert.Equal(t, "replica.internal", cfg.Database.Host)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Zero(t, cfg.Cache.Queries)
}

func TestLoadConfigEnvOnly(t *testing.T) {
	t.Setenv("QUERYKIT_DRIVER", "sqlite")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Driver)
	assert.Equal(t, 10*time.Second, cfg.Database.ConnectTimeout)
	assert.Nil(t, cfg.Database.Retry)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestProvidersLinked(t *testing.T) {
	assert.Subset(t, connector.Providers(), []string{"mysql", "pgx", "postgres", "pq", "sqlite", "tidb"})
}

func TestOpenRequiresDriver(t *testing.T) {
	_, err := Open(context.Background(), &Config{})
	assert.ErrorIs(t, err, ErrNoDriver)
}

func TestOpenSQLite(t *testing.T) {
	var logs bytes.Buffer
	cfg := &Config{
		Driver: "sqlite",
		Cache:  CacheConfig{Statements: 16, Queries: 16},
	}
	cfg.Logging.Level = "debug"
	cfg.Logging.Output = &logs

	ctx := context.Background()
	e, err := Open(ctx, cfg)
	require.NoError(t, err)
	defer e.Close()

	_, err = e.Executor().Exec(ctx, "CREATE TABLE tags (id INTEGER PRIMARY KEY, name TEXT NOT NULL)", nil)
	require.NoError(t, err)

	for _, name := range []string{"go", "sql", "orm"} {
		_, err := e.Table("tags").Insert(map[string]any{"name": name}).Exec(ctx)
		require.NoError(t, err)
	}

	n, err := e.Table("tags").Where("name", "!=", "orm").Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	first, err := e.Table("tags").OrderByDesc("id").First(ctx)
	require.NoError(t, err)
	assert.Equal(t, "orm", first.Value("name"))

	assert.Contains(t, logs.String(), `"message":"connected"`)
	assert.Contains(t, logs.String(), `"component":"executor"`)
}
