package query

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Konsultn-Engineering/querykit/ast"
	"github.com/Konsultn-Engineering/querykit/record"
)

// Runner executes compiled SQL. engine.Executor is the production
// implementation.
type Runner interface {
	Query(ctx context.Context, sql string, args []any) ([]*record.Record, error)
	Exec(ctx context.Context, sql string, args []any) (int64, error)
}

// Get runs the select and returns every row. No rows is an empty slice.
func (qb *Builder) Get(ctx context.Context) ([]*record.Record, error) {
	if qb.runner == nil {
		return nil, ErrNoRunner
	}
	if qb.query.Kind != ast.KindSelect {
		return nil, fmt.Errorf("%w: %s", ErrNotSelect, qb.query.Kind)
	}
	sql, args, err := qb.ToSQL()
	if err != nil {
		return nil, err
	}
	rows, err := qb.runner.Query(ctx, sql, args)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*record.Record{}
	}
	return rows, nil
}

// First returns the first row, or nil when nothing matches.
func (qb *Builder) First(ctx context.Context) (*record.Record, error) {
	rows, err := qb.Limit(1).Get(ctx)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

// Exists reports whether any row matches.
func (qb *Builder) Exists(ctx context.Context) (bool, error) {
	probe := qb.clone()
	probe.query.Columns = []ast.Expr{ast.NewRaw("1")}
	probe.query.Orders = nil
	probe.query.Aggregate = nil
	rows, err := probe.Limit(1).Get(ctx)
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// Count returns the number of matching rows, or of non-null values of
// columns when given. Ordering and paging are ignored.
func (qb *Builder) Count(ctx context.Context, columns ...string) (int64, error) {
	return qb.aggregate(ctx, "count", columns)
}

func (qb *Builder) aggregate(ctx context.Context, function string, columns []string) (int64, error) {
	agg := qb.clone()
	agg.query.Aggregate = &ast.Aggregate{Function: function, Columns: columns}
	agg.query.Columns = nil
	agg.query.Orders = nil
	agg.query.Limit = nil
	agg.query.Offset = nil

	rows, err := agg.Get(ctx)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return toInt64(rows[0].Value("aggregate"))
}

// Exec runs an insert, update or delete and returns the affected row count.
func (qb *Builder) Exec(ctx context.Context) (int64, error) {
	if qb.runner == nil {
		return 0, ErrNoRunner
	}
	if qb.query.Kind == ast.KindSelect {
		return 0, ErrNotStatement
	}
	sql, args, err := qb.ToSQL()
	if err != nil {
		return 0, err
	}
	return qb.runner.Exec(ctx, sql, args)
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	case []byte:
		return strconv.ParseInt(string(n), 10, 64)
	default:
		return 0, fmt.Errorf("query: unexpected aggregate type %T", v)
	}
}
