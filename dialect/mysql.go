package dialect

import (
	"fmt"
	"strings"
)

type MySQL struct{}

func NewMySQLDialect() Dialect {
	return &MySQL{}
}

func (m MySQL) Name() string {
	return "mysql"
}

func (m MySQL) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (m MySQL) QuoteChars() string {
	return "`\""
}

func (m MySQL) Placeholder(n int) string {
	return "?"
}

// UnboundedLimit is the largest unsigned BIGINT, MySQL's documented idiom
// for "all remaining rows".
func (m MySQL) UnboundedLimit() string {
	return "18446744073709551615"
}

func (m MySQL) RenderValue(v any) string {
	return renderLiteral(v, func(b []byte) string {
		return fmt.Sprintf("X'%x'", b)
	})
}

func (m MySQL) SupportsILike() bool {
	return false
}
