// Package query provides the fluent, copy-on-write query builder.
package query

import (
	"errors"
	"slices"

	"github.com/Konsultn-Engineering/querykit/ast"
	"github.com/Konsultn-Engineering/querykit/grammar"
	"github.com/Konsultn-Engineering/querykit/schema"
)

var (
	ErrInvalidOperator  = errors.New("query: invalid operator")
	ErrInvalidWhere     = errors.New("query: invalid where clause")
	ErrPayloadMismatch  = errors.New("query: column and value counts differ")
	ErrEmptyPayload     = errors.New("query: empty insert or update payload")
	ErrInvalidPerPage   = errors.New("query: per page must be positive")
	ErrInvalidDirection = errors.New("query: order direction must be ASC or DESC")
	ErrInvalidLimit     = errors.New("query: limit and offset must not be negative")
	ErrNoRunner         = errors.New("query: builder has no runner")
	ErrNotSelect        = errors.New("query: statement is not a select")
	ErrNotStatement     = errors.New("query: select cannot be executed as a statement")
)

// Builder describes one pending statement. Every method returns a new
// Builder and leaves the receiver untouched, so a Builder can be shared and
// branched freely.
//
// Bindings are held in two sections. values carries the insert or update
// payload and where the predicate values, each in placeholder order.
type Builder struct {
	query    *ast.Query
	grammar  *grammar.Grammar
	runner   Runner
	registry *schema.Registry
	values   []any
	where    []any
	errs     []error
}

type Option func(*Builder)

// WithGrammar sets the compiler. The default is the MySQL grammar.
func WithGrammar(g *grammar.Grammar) Option {
	return func(qb *Builder) { qb.grammar = g }
}

// WithRunner sets what terminal methods execute against.
func WithRunner(r Runner) Option {
	return func(qb *Builder) { qb.runner = r }
}

// WithRegistry sets the registry used for struct payloads and hydration.
func WithRegistry(r *schema.Registry) Option {
	return func(qb *Builder) { qb.registry = r }
}

// New starts a select over table.
func New(table string, opts ...Option) *Builder {
	qb := &Builder{query: ast.NewQuery(table)}
	for _, opt := range opts {
		opt(qb)
	}
	if qb.grammar == nil {
		qb.grammar = grammar.New(nil)
	}
	if qb.registry == nil {
		qb.registry = schema.Default()
	}
	return qb
}

// clone copies everything a method may touch.
func (qb *Builder) clone() *Builder {
	c := *qb
	c.query = qb.query.Clone()
	c.values = slices.Clone(qb.values)
	c.where = slices.Clone(qb.where)
	c.errs = slices.Clone(qb.errs)
	return &c
}

// sub starts an empty builder sharing qb's collaborators, for grouping.
func (qb *Builder) sub() *Builder {
	return &Builder{
		query:    ast.NewQuery(qb.query.Table),
		grammar:  qb.grammar,
		runner:   qb.runner,
		registry: qb.registry,
	}
}

// fail records err. Errors surface from ToSQL and the terminal methods.
func (qb *Builder) fail(err error) {
	qb.errs = append(qb.errs, err)
}

// Clone returns an independent copy.
func (qb *Builder) Clone() *Builder {
	return qb.clone()
}

// Query returns a copy of the underlying query model.
func (qb *Builder) Query() *ast.Query {
	return qb.query.Clone()
}

func (qb *Builder) Table() string {
	return qb.query.Table
}

func (qb *Builder) Grammar() *grammar.Grammar {
	return qb.grammar
}

func (qb *Builder) Registry() *schema.Registry {
	return qb.registry
}

// Err joins every error recorded while building.
func (qb *Builder) Err() error {
	return errors.Join(qb.errs...)
}

// Bindings returns the bound values in placeholder order.
func (qb *Builder) Bindings() []any {
	switch qb.query.Kind {
	case ast.KindInsert:
		// INSERT renders no WHERE clause.
		return append(make([]any, 0, len(qb.values)), qb.values...)
	case ast.KindUpdate:
		out := make([]any, 0, len(qb.values)+len(qb.where))
		out = append(out, qb.values...)
		return append(out, qb.where...)
	}
	return append(make([]any, 0, len(qb.where)), qb.where...)
}

// ToSQL compiles the statement and returns it with its bindings.
func (qb *Builder) ToSQL() (string, []any, error) {
	if err := qb.Err(); err != nil {
		return "", nil, err
	}
	sql, err := qb.grammar.Compile(qb.query)
	if err != nil {
		return "", nil, err
	}
	return sql, qb.Bindings(), nil
}

// ToRawSQL renders the statement with bindings inlined, for logs and
// debugging only.
func (qb *Builder) ToRawSQL() (string, error) {
	sql, args, err := qb.ToSQL()
	if err != nil {
		return "", err
	}
	return qb.grammar.Interpolate(sql, args), nil
}
