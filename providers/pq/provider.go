// Package pq registers the "pq" provider: Postgres through lib/pq and
// database/sql.
package pq

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	"github.com/Konsultn-Engineering/querykit/connector"
	"github.com/Konsultn-Engineering/querykit/dialect"
	"github.com/Konsultn-Engineering/querykit/providers/postgres"
)

type Provider struct{}

func init() {
	connector.Register("pq", &Provider{})
}

func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	if err := cfg.ValidateNetwork(); err != nil {
		return nil, err
	}
	db, err := sql.Open("postgres", postgres.DSN(cfg))
	if err != nil {
		return nil, err
	}
	return connector.NewSQLConnection(ctx, db, p.Dialect(), cfg.Pool)
}

func (p *Provider) Dialect() dialect.Dialect {
	return dialect.NewPostgresDialect()
}
