package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Konsultn-Engineering/querykit/cache"
	"github.com/Konsultn-Engineering/querykit/database"
	"github.com/Konsultn-Engineering/querykit/query"
	"github.com/Konsultn-Engineering/querykit/record"
	"github.com/Konsultn-Engineering/querykit/utils"
)

// Executor runs compiled SQL on a connection and reads rows into records.
// Statements are prepared once per distinct SQL text when a statement
// cache is configured.
type Executor struct {
	conn   database.Conn
	stmts  *cache.StatementCache
	logger zerolog.Logger
}

var _ query.Runner = (*Executor)(nil)

type ExecutorOption func(*Executor)

// WithPreparedStatements caches up to size prepared statements.
func WithPreparedStatements(size int) ExecutorOption {
	return func(e *Executor) { e.stmts = cache.NewStatementCache(size) }
}

func WithExecutorLogger(logger zerolog.Logger) ExecutorOption {
	return func(e *Executor) { e.logger = logger }
}

func NewExecutor(conn database.Conn, opts ...ExecutorOption) *Executor {
	e := &Executor{conn: conn, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Query runs sql and returns every row. Driver []byte values are copied
// into strings.
func (e *Executor) Query(ctx context.Context, sql string, args []any) ([]*record.Record, error) {
	start := time.Now()

	rows, err := e.query(ctx, sql, args)
	if err != nil {
		e.logFailure(sql, args, err)
		return nil, wrapError(sql, err)
	}
	defer rows.Close()

	out, err := scanRecords(rows)
	if err != nil {
		e.logFailure(sql, args, err)
		return nil, wrapError(sql, err)
	}

	e.logger.Debug().
		Str("sql", sql).
		Int("args", len(args)).
		Int("rows", len(out)).
		Dur("took", time.Since(start)).
		Msg("query")
	return out, nil
}

// Exec runs a statement and returns the number of affected rows.
func (e *Executor) Exec(ctx context.Context, sql string, args []any) (int64, error) {
	start := time.Now()

	res, err := e.exec(ctx, sql, args)
	if err != nil {
		e.logFailure(sql, args, err)
		return 0, wrapError(sql, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrapError(sql, err)
	}

	e.logger.Debug().
		Str("sql", sql).
		Int("args", len(args)).
		Int64("affected", n).
		Dur("took", time.Since(start)).
		Msg("exec")
	return n, nil
}

// Close releases cached statements. The connection stays open.
func (e *Executor) Close() error {
	if e.stmts != nil {
		return e.stmts.Close()
	}
	return nil
}

func (e *Executor) query(ctx context.Context, sql string, args []any) (database.Rows, error) {
	if e.stmts == nil {
		return e.conn.Query(ctx, sql, args...)
	}
	key := utils.U64(sql)
	stmt, err := e.stmts.GetOrPrepare(ctx, key, e.conn, sql)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.Query(ctx, args...)
	if err != nil {
		// The statement may be tied to a dead connection.
		e.stmts.Remove(key)
	}
	return rows, err
}

func (e *Executor) exec(ctx context.Context, sql string, args []any) (database.Result, error) {
	if e.stmts == nil {
		return e.conn.Exec(ctx, sql, args...)
	}
	key := utils.U64(sql)
	stmt, err := e.stmts.GetOrPrepare(ctx, key, e.conn, sql)
	if err != nil {
		return nil, err
	}
	res, err := stmt.Exec(ctx, args...)
	if err != nil {
		e.stmts.Remove(key)
	}
	return res, err
}

func (e *Executor) logFailure(sql string, args []any, err error) {
	e.logger.Warn().
		Err(err).
		Str("sql", sql).
		Int("args", len(args)).
		Msg("query failed")
}

func scanRecords(rows database.Rows) ([]*record.Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	buf := scanPool.Get().(*scanBuffers)
	defer buf.release()

	out := make([]*record.Record, 0, 8)
	for rows.Next() {
		buf.prepare(len(columns))
		if err := rows.Scan(buf.ptrs...); err != nil {
			return nil, err
		}

		rec := record.New(len(columns))
		for i, col := range columns {
			if b, ok := buf.vals[i].([]byte); ok {
				rec.Set(col, string(b))
				continue
			}
			rec.Set(col, buf.vals[i])
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
