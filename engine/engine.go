// Package engine ties a connection, a grammar, the executor and the eager
// loader together.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Konsultn-Engineering/querykit/cache"
	"github.com/Konsultn-Engineering/querykit/database"
	"github.com/Konsultn-Engineering/querykit/dialect"
	"github.com/Konsultn-Engineering/querykit/grammar"
	"github.com/Konsultn-Engineering/querykit/logging"
	"github.com/Konsultn-Engineering/querykit/query"
	"github.com/Konsultn-Engineering/querykit/record"
	"github.com/Konsultn-Engineering/querykit/relation"
	"github.com/Konsultn-Engineering/querykit/schema"
)

type Engine struct {
	conn     database.Conn
	grammar  *grammar.Grammar
	executor *Executor
	registry *schema.Registry
	loader   *relation.Loader
	logger   zerolog.Logger

	stmtCacheSize int
	queryCache    *cache.QueryCache
}

var _ relation.Source = (*Engine)(nil)

type Option func(*Engine)

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithStatementCache prepares each distinct statement once and keeps up to
// size of them. Zero disables preparing.
func WithStatementCache(size int) Option {
	return func(e *Engine) { e.stmtCacheSize = size }
}

// WithQueryCache shares a compiled SQL cache, for example between engines
// on the same dialect.
func WithQueryCache(c *cache.QueryCache) Option {
	return func(e *Engine) { e.queryCache = c }
}

func WithRegistry(r *schema.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// New creates an engine over conn. d defaults to MySQL.
func New(conn database.Conn, d dialect.Dialect, opts ...Option) *Engine {
	e := &Engine{conn: conn, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = schema.Default()
	}

	var gopts []grammar.Option
	if e.queryCache != nil {
		gopts = append(gopts, grammar.WithCache(e.queryCache))
	}
	e.grammar = grammar.New(d, gopts...)

	xopts := []ExecutorOption{WithExecutorLogger(logging.Component(e.logger, "executor"))}
	if e.stmtCacheSize > 0 {
		xopts = append(xopts, WithPreparedStatements(e.stmtCacheSize))
	}
	e.executor = NewExecutor(conn, xopts...)
	e.loader = relation.NewLoader(relation.WithLogger(logging.Component(e.logger, "relation")))
	return e
}

// Table starts a query on name.
func (e *Engine) Table(name string) *query.Builder {
	return query.New(name,
		query.WithGrammar(e.grammar),
		query.WithRunner(e.executor),
		query.WithRegistry(e.registry),
	)
}

// Model starts a query on the table of model, registering it on first use.
func (e *Engine) Model(model any) (*query.Builder, error) {
	entity, err := e.entity(model)
	if err != nil {
		return nil, err
	}
	return e.Table(entity.Table), nil
}

// Load eager loads relations of owner onto parents. owner is an entity
// name, a *schema.Entity or a model value.
func (e *Engine) Load(ctx context.Context, owner any, parents []*record.Record, relations ...string) error {
	entity, err := e.entity(owner)
	if err != nil {
		return err
	}
	return e.loader.Load(ctx, e, entity, parents, relations...)
}

// LoadWith is Load with per-relation constraints.
func (e *Engine) LoadWith(ctx context.Context, owner any, parents []*record.Record, specs ...relation.Spec) error {
	entity, err := e.entity(owner)
	if err != nil {
		return err
	}
	return e.loader.LoadWith(ctx, e, entity, parents, specs...)
}

// Create inserts model into its table. Generated primary keys and
// auto_now timestamps are written back when model is a pointer.
func (e *Engine) Create(ctx context.Context, model any) (int64, error) {
	qb, err := e.Model(model)
	if err != nil {
		return 0, err
	}
	return qb.Insert(model).Exec(ctx)
}

// Raw runs hand-written SQL. args bind positionally.
func (e *Engine) Raw(ctx context.Context, sql string, args ...any) ([]*record.Record, error) {
	return e.executor.Query(ctx, sql, args)
}

// Ping checks the connection.
func (e *Engine) Ping(ctx context.Context) error {
	return e.conn.Ping(ctx)
}

func (e *Engine) Grammar() *grammar.Grammar { return e.grammar }
func (e *Engine) Registry() *schema.Registry { return e.registry }
func (e *Engine) Executor() *Executor { return e.executor }
func (e *Engine) Conn() database.Conn { return e.conn }
func (e *Engine) Dialect() dialect.Dialect { return e.grammar.Dialect() }
func (e *Engine) Logger() *zerolog.Logger { return &e.logger }
func (e *Engine) Loader() *relation.Loader { return e.loader }

// Close releases prepared statements and closes the connection.
func (e *Engine) Close() error {
	return errors.Join(e.executor.Close(), e.conn.Close())
}

func (e *Engine) entity(owner any) (*schema.Entity, error) {
	switch o := owner.(type) {
	case *schema.Entity:
		return o, nil
	case string:
		if entity, ok := e.registry.Lookup(o); ok {
			return entity, nil
		}
		return nil, fmt.Errorf("%w: %s", schema.ErrUnknownEntity, o)
	default:
		if entity, ok := e.registry.EntityOf(owner); ok {
			return entity, nil
		}
		return e.registry.Register(owner)
	}
}

// Find runs fn's query against T's table, eager loads relations and
// hydrates the rows. fn may be nil.
func Find[T any](ctx context.Context, e *Engine, fn func(*query.Builder) *query.Builder, relations ...string) ([]*T, error) {
	var model T
	qb, err := e.Model(model)
	if err != nil {
		return nil, err
	}
	if fn != nil {
		qb = fn(qb)
	}
	rows, err := qb.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := e.Load(ctx, model, rows, relations...); err != nil {
		return nil, err
	}
	return query.HydrateAll[T](e.registry, rows)
}

// FindOne is Find limited to one row. It returns nil when nothing matches.
func FindOne[T any](ctx context.Context, e *Engine, fn func(*query.Builder) *query.Builder, relations ...string) (*T, error) {
	out, err := Find[T](ctx, e, func(qb *query.Builder) *query.Builder {
		if fn != nil {
			qb = fn(qb)
		}
		return qb.Limit(1)
	}, relations...)
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return out[0], nil
}
