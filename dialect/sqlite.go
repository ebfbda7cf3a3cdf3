package dialect

import (
	"fmt"
	"strings"
)

type SQLite struct{}

func NewSQLiteDialect() Dialect {
	return &SQLite{}
}

func (s SQLite) Name() string {
	return "sqlite"
}

func (s SQLite) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (s SQLite) QuoteChars() string {
	return "\"`"
}

func (s SQLite) Placeholder(n int) string {
	return "?"
}

func (s SQLite) UnboundedLimit() string {
	return "-1"
}

func (s SQLite) RenderValue(v any) string {
	return renderLiteral(v, func(b []byte) string {
		return fmt.Sprintf("X'%x'", b)
	})
}

func (s SQLite) SupportsILike() bool {
	return false
}
