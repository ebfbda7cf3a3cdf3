// Package grammar compiles query models into SQL text for a dialect.
package grammar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Konsultn-Engineering/querykit/ast"
	"github.com/Konsultn-Engineering/querykit/cache"
	"github.com/Konsultn-Engineering/querykit/dialect"
	"github.com/Konsultn-Engineering/querykit/utils"
)

var (
	ErrUnknownStatement = errors.New("grammar: unknown statement kind")
	ErrMissingTable     = errors.New("grammar: query has no table")
	ErrEmptyPayload     = errors.New("grammar: statement has no columns to write")
)

// Grammar turns an ast.Query into SQL. It never touches bound values: the
// caller keeps those and their order matches the placeholders emitted here.
type Grammar struct {
	dialect dialect.Dialect
	cache   *cache.QueryCache
	seed    uint64
}

type Option func(*Grammar)

// WithCache shares a compiled SQL cache between grammars.
func WithCache(c *cache.QueryCache) Option {
	return func(g *Grammar) { g.cache = c }
}

// WithoutCache compiles every query from scratch.
func WithoutCache() Option {
	return func(g *Grammar) { g.cache = nil }
}

func New(d dialect.Dialect, opts ...Option) *Grammar {
	if d == nil {
		d = dialect.NewMySQLDialect()
	}
	g := &Grammar{
		dialect: d,
		cache:   cache.NewQueryCache(1024),
		seed:    utils.U64(d.Name()),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Grammar) Dialect() dialect.Dialect {
	return g.dialect
}

// Fingerprint is the cache key of q under this grammar's dialect.
func (g *Grammar) Fingerprint(q *ast.Query) uint64 {
	return utils.Mix64(g.seed, q.Fingerprint())
}

// Compile renders q according to its kind.
func (g *Grammar) Compile(q *ast.Query) (string, error) {
	fp := g.Fingerprint(q)
	if g.cache != nil {
		if sql, ok := g.cache.Get(fp); ok {
			return sql, nil
		}
	}

	var (
		sql string
		err error
	)
	switch q.Kind {
	case ast.KindSelect:
		sql, err = g.CompileSelect(q)
	case ast.KindInsert:
		sql, err = g.CompileInsert(q)
	case ast.KindUpdate:
		sql, err = g.CompileUpdate(q)
	case ast.KindDelete:
		sql, err = g.CompileDelete(q)
	default:
		return "", fmt.Errorf("%w: %d", ErrUnknownStatement, q.Kind)
	}
	if err != nil {
		return "", err
	}

	if g.cache != nil {
		g.cache.Set(fp, sql)
	}
	return sql, nil
}

func (g *Grammar) CompileSelect(q *ast.Query) (string, error) {
	v := g.newVisitor()
	if err := v.selectStmt(q); err != nil {
		return "", err
	}
	return v.sb.String(), nil
}

func (g *Grammar) CompileInsert(q *ast.Query) (string, error) {
	v := g.newVisitor()
	if err := v.insertStmt(q); err != nil {
		return "", err
	}
	return v.sb.String(), nil
}

func (g *Grammar) CompileUpdate(q *ast.Query) (string, error) {
	v := g.newVisitor()
	if err := v.updateStmt(q); err != nil {
		return "", err
	}
	return v.sb.String(), nil
}

func (g *Grammar) CompileDelete(q *ast.Query) (string, error) {
	v := g.newVisitor()
	if err := v.deleteStmt(q); err != nil {
		return "", err
	}
	return v.sb.String(), nil
}

// Wrap quotes an identifier. Existing quote characters are stripped first.
// Anything containing "(" or "*" is treated as an expression and returned
// as-is. "expr as alias" (any case) wraps both sides, and dotted names are
// wrapped per segment.
func (g *Grammar) Wrap(identifier string) string {
	identifier = strings.Map(func(r rune) rune {
		if strings.ContainsRune(g.dialect.QuoteChars(), r) {
			return -1
		}
		return r
	}, identifier)

	if strings.ContainsAny(identifier, "(*") {
		return identifier
	}

	if i := aliasIndex(identifier); i >= 0 {
		return g.wrapSegments(identifier[:i]) + " AS " + g.wrapSegments(identifier[i+4:])
	}
	return g.wrapSegments(identifier)
}

func (g *Grammar) wrapSegments(identifier string) string {
	parts := strings.Split(strings.TrimSpace(identifier), ".")
	for i, p := range parts {
		parts[i] = g.dialect.QuoteIdentifier(strings.TrimSpace(p))
	}
	return strings.Join(parts, ".")
}

// aliasIndex finds " as " case-insensitively.
func aliasIndex(s string) int {
	for i := 0; i+4 <= len(s); i++ {
		if strings.EqualFold(s[i:i+4], " as ") {
			return i
		}
	}
	return -1
}

func (g *Grammar) newVisitor() *sqlVisitor {
	return &sqlVisitor{g: g, d: g.dialect}
}
