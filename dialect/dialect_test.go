package dialect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		input    string
		expected string
	}{
		{"MySQL", NewMySQLDialect(), "users", "`users`"},
		{"MySQLEscapes", NewMySQLDialect(), "we`ird", "`we``ird`"},
		{"Postgres", NewPostgresDialect(), "users", `"users"`},
		{"PostgresEscapes", NewPostgresDialect(), `we"ird`, `"we""ird"`},
		{"SQLite", NewSQLiteDialect(), "users", `"users"`},
		{"TiDB", NewTiDBDialect(), "users", "`users`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.dialect.QuoteIdentifier(tt.input))
		})
	}
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "?", NewMySQLDialect().Placeholder(3))
	assert.Equal(t, "?", NewSQLiteDialect().Placeholder(3))
	assert.Equal(t, "$3", NewPostgresDialect().Placeholder(3))
}

func TestUnboundedLimit(t *testing.T) {
	assert.Equal(t, "18446744073709551615", NewMySQLDialect().UnboundedLimit())
	assert.Equal(t, "-1", NewSQLiteDialect().UnboundedLimit())
	assert.Empty(t, NewPostgresDialect().UnboundedLimit())
}

func TestRenderValue(t *testing.T) {
	d := NewPostgresDialect()
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.Equal(t, "NULL", d.RenderValue(nil))
	assert.Equal(t, "'O''Brien'", d.RenderValue("O'Brien"))
	assert.Equal(t, "TRUE", d.RenderValue(true))
	assert.Equal(t, "42", d.RenderValue(int64(42)))
	assert.Equal(t, "1.5", d.RenderValue(1.5))
	assert.Equal(t, "'2024-01-02 03:04:05.000000'", d.RenderValue(ts))
	assert.Equal(t, `'\x0102'::bytea`, d.RenderValue([]byte{1, 2}))
	assert.Equal(t, "X'0102'", NewMySQLDialect().RenderValue([]byte{1, 2}))
}

func TestByName(t *testing.T) {
	for name, expected := range map[string]string{
		"mysql":      "mysql",
		"tidb":       "tidb",
		"pgx":        "postgres",
		"pq":         "postgres",
		"PostgreSQL": "postgres",
		"sqlite3":    "sqlite",
	} {
		d, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, expected, d.Name())
	}

	_, ok := ByName("oracle")
	assert.False(t, ok)
}
