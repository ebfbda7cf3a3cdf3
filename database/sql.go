package database

import (
	"context"
	"database/sql"
)

// SQLExecutor is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type SQLExecutor interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SqlDatabase implements Conn for database/sql handles.
type SqlDatabase struct {
	db SQLExecutor
}

// NewSqlDatabase wraps a *sql.DB, *sql.Tx or *sql.Conn.
func NewSqlDatabase(db SQLExecutor) *SqlDatabase {
	return &SqlDatabase{db: db}
}

// Prepare creates a prepared statement for later queries or executions.
func (s *SqlDatabase) Prepare(ctx context.Context, query string) (Stmt, error) {
	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return &SqlStmt{stmt: stmt}, nil
}

// Query executes a query that returns rows.
func (s *SqlDatabase) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &SqlRows{rows: rows}, nil
}

// Exec executes a query without returning rows.
func (s *SqlDatabase) Exec(ctx context.Context, query string, args ...any) (Result, error) {
	return s.db.ExecContext(ctx, query, args...)
}

// Ping verifies the connection is alive. Transactions are assumed alive.
func (s *SqlDatabase) Ping(ctx context.Context) error {
	if p, ok := s.db.(interface{ PingContext(context.Context) error }); ok {
		return p.PingContext(ctx)
	}
	return nil
}

// Close closes the underlying handle when it owns one. A transaction is left
// to its caller.
func (s *SqlDatabase) Close() error {
	if c, ok := s.db.(interface{ Close() error }); ok {
		if _, isTx := s.db.(*sql.Tx); !isTx {
			return c.Close()
		}
	}
	return nil
}

// SqlStmt implements Stmt for *sql.Stmt.
type SqlStmt struct {
	stmt *sql.Stmt
}

func (s *SqlStmt) Query(ctx context.Context, args ...any) (Rows, error) {
	rows, err := s.stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	return &SqlRows{rows: rows}, nil
}

func (s *SqlStmt) Exec(ctx context.Context, args ...any) (Result, error) {
	return s.stmt.ExecContext(ctx, args...)
}

func (s *SqlStmt) Close() error { return s.stmt.Close() }

// SqlRows implements Rows for *sql.Rows.
type SqlRows struct {
	rows *sql.Rows
}

// Next prepares the next result row for reading.
func (s *SqlRows) Next() bool { return s.rows.Next() }

// Scan copies the columns from the current row into the provided destinations.
func (s *SqlRows) Scan(dest ...any) error { return s.rows.Scan(dest...) }

// Columns returns the column names.
func (s *SqlRows) Columns() ([]string, error) { return s.rows.Columns() }

// Err returns the error, if any, encountered during iteration.
func (s *SqlRows) Err() error { return s.rows.Err() }

// Close closes the rows iterator.
func (s *SqlRows) Close() error { return s.rows.Close() }

var (
	_ Conn = (*SqlDatabase)(nil)
	_ Stmt = (*SqlStmt)(nil)
	_ Rows = (*SqlRows)(nil)
)
