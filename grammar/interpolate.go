package grammar

import (
	"strconv"
	"strings"
)

// Interpolate substitutes bindings into sql for logging and debugging. The
// result is never meant to be executed. Placeholders inside quoted strings or
// identifiers are left alone.
func (g *Grammar) Interpolate(sql string, args []any) string {
	var (
		sb    strings.Builder
		next  int
		quote byte
	)
	sb.Grow(len(sql) + 8*len(args))

	for i := 0; i < len(sql); i++ {
		c := sql[i]

		if quote != 0 {
			sb.WriteByte(c)
			if c == quote {
				quote = 0
			}
			continue
		}

		switch {
		case c == '\'' || c == '"' || c == '`':
			quote = c
			sb.WriteByte(c)
		case c == '?' && next < len(args):
			sb.WriteString(g.dialect.RenderValue(args[next]))
			next++
		case c == '$' && i+1 < len(sql) && isDigit(sql[i+1]):
			j := i + 1
			for j < len(sql) && isDigit(sql[j]) {
				j++
			}
			n, _ := strconv.Atoi(sql[i+1 : j])
			if n >= 1 && n <= len(args) {
				sb.WriteString(g.dialect.RenderValue(args[n-1]))
			} else {
				sb.WriteString(sql[i:j])
			}
			i = j - 1
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
