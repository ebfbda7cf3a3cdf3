// Package sqlite registers the "sqlite" provider over modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"net/url"
	"sort"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/Konsultn-Engineering/querykit/connector"
	"github.com/Konsultn-Engineering/querykit/dialect"
)

const memory = ":memory:"

type Provider struct{}

func init() {
	connector.Register("sqlite", &Provider{})
}

// DSN returns the database path followed by Params as query options, for
// example _pragma=foreign_keys(1). An empty path opens an in-memory
// database.
func DSN(cfg connector.Config) string {
	path := cfg.Database
	if path == "" {
		path = memory
	}
	if len(cfg.Params) == 0 {
		return path
	}

	keys := make([]string, 0, len(cfg.Params))
	for k := range cfg.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	q := make([]string, len(keys))
	for i, k := range keys {
		q[i] = url.QueryEscape(k) + "=" + url.QueryEscape(cfg.Params[k])
	}
	return path + "?" + strings.Join(q, "&")
}

func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	db, err := sql.Open("sqlite", DSN(cfg))
	if err != nil {
		return nil, err
	}

	pool := cfg.Pool
	// Every connection to :memory: is a separate database.
	if cfg.Database == "" || cfg.Database == memory {
		pool.MaxOpen, pool.MaxIdle = 1, 1
		pool.MaxLifetime, pool.MaxIdleTime = -1, -1
	}
	return connector.NewSQLConnection(ctx, db, p.Dialect(), pool)
}

func (p *Provider) Dialect() dialect.Dialect {
	return dialect.NewSQLiteDialect()
}
