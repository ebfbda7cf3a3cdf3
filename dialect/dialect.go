package dialect

import "strings"

// Dialect captures the identifier and keyword differences between engines.
type Dialect interface {
	Name() string
	QuoteIdentifier(name string) string
	// QuoteChars are stripped from identifiers before they are wrapped.
	QuoteChars() string
	// Placeholder returns the bind marker for the n-th (1-based) parameter.
	Placeholder(n int) string
	// UnboundedLimit is rendered as LIMIT when only OFFSET is set. An empty
	// string means OFFSET may stand alone.
	UnboundedLimit() string
	RenderValue(v any) string
	SupportsILike() bool
}

// ByName resolves a dialect from a driver or provider name.
func ByName(name string) (Dialect, bool) {
	switch strings.ToLower(name) {
	case "mysql", "mariadb":
		return NewMySQLDialect(), true
	case "tidb":
		return NewTiDBDialect(), true
	case "postgres", "postgresql", "pgx", "pq":
		return NewPostgresDialect(), true
	case "sqlite", "sqlite3":
		return NewSQLiteDialect(), true
	default:
		return nil, false
	}
}
