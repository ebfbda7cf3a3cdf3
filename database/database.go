package database

import "context"

// Conn is the connection contract the executor drives. Implementations may be
// a pool, a single connection or an open transaction owned by the caller.
type Conn interface {
	Prepare(ctx context.Context, query string) (Stmt, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	Ping(ctx context.Context) error
	Close() error
}

type Stmt interface {
	Query(ctx context.Context, args ...any) (Rows, error)
	Exec(ctx context.Context, args ...any) (Result, error)
	Close() error
}

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Columns() ([]string, error)
	Err() error
	Close() error
}

type Result interface {
	RowsAffected() (int64, error)
}
