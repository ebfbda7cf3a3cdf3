package connector

import (
	"context"

	"github.com/Konsultn-Engineering/querykit/database"
	"github.com/Konsultn-Engineering/querykit/dialect"
)

// Provider opens connections for one driver. Providers register themselves
// from an init function.
type Provider interface {
	Connect(ctx context.Context, config Config) (Connection, error)
	Dialect() dialect.Dialect
}

// Connection is an open pool together with the dialect its SQL must use.
type Connection interface {
	Conn() database.Conn
	Dialect() dialect.Dialect
	Health(ctx context.Context) error
	Stats() ConnectionStats
	Close() error
}
