package schema

import (
	"strings"
	"unicode"

	pluralizer "github.com/gertd/go-pluralize"
)

// pluralizeClient is a singleton instance for consistent pluralization behavior.
var pluralizeClient = pluralizer.NewClient()

// NamingStrategy maps Go identifiers to database names.
type NamingStrategy interface {
	// ColumnName converts a Go field name to a database column name.
	ColumnName(fieldName string) string
	// TableName converts a Go struct name to a database table name.
	TableName(structName string) string
}

// ColumnNamingType represents different column naming conventions.
type ColumnNamingType int

const (
	ColumnSnakeCase ColumnNamingType = iota // user_id, first_name, created_at
	ColumnCamelCase                         // userId, firstName, createdAt
)

// TableNamingType represents different table naming conventions.
type TableNamingType int

const (
	TableSnakeCasePlural   TableNamingType = iota // users, blog_posts
	TableSnakeCaseSingular                        // user, blog_post
)

type namingStrategy struct {
	columns ColumnNamingType
	tables  TableNamingType
}

// NewNamingStrategy combines a column and a table convention.
func NewNamingStrategy(columns ColumnNamingType, tables TableNamingType) NamingStrategy {
	return &namingStrategy{columns: columns, tables: tables}
}

// DefaultNamingStrategy returns snake_case columns with plural snake_case tables.
func DefaultNamingStrategy() NamingStrategy {
	return NewNamingStrategy(ColumnSnakeCase, TableSnakeCasePlural)
}

func (n *namingStrategy) ColumnName(fieldName string) string {
	if n.columns == ColumnCamelCase {
		return toCamelCase(fieldName)
	}
	return toSnakeCase(fieldName)
}

func (n *namingStrategy) TableName(structName string) string {
	snake := toSnakeCase(structName)
	if n.tables == TableSnakeCaseSingular {
		return snake
	}
	return pluralizeLast(snake)
}

// pluralizeLast pluralizes the final word of a snake_case name: blog_post -> blog_posts.
func pluralizeLast(snake string) string {
	i := strings.LastIndexByte(snake, '_')
	return snake[:i+1] + pluralize(snake[i+1:])
}

// toSnakeCase converts any naming convention to snake_case.
// Handles acronyms: UserID -> user_id, HTTPServer -> http_server.
func toSnakeCase(name string) string {
	if name == "" {
		return ""
	}

	switch name {
	case "ID":
		return "id"
	case "UUID":
		return "uuid"
	case "URL":
		return "url"
	}

	// If already snake_case (contains underscores and no uppercase), return as-is
	if strings.Contains(name, "_") && !hasUpperCase(name) {
		return name
	}

	var result strings.Builder
	result.Grow(len(name) + 4)

	runes := []rune(name)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			// aB -> a_b, a1B -> a1_b, ABc -> a_bc
			if unicode.IsLower(prev) || unicode.IsDigit(prev) ||
				(unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])) {
				result.WriteByte('_')
			}
		}
		result.WriteRune(unicode.ToLower(r))
	}

	return result.String()
}

// toCamelCase converts any naming convention to camelCase.
func toCamelCase(name string) string {
	parts := strings.Split(toSnakeCase(name), "_")

	var result strings.Builder
	result.Grow(len(name))
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == 0 {
			result.WriteString(part)
			continue
		}
		result.WriteString(strings.ToUpper(part[:1]))
		result.WriteString(part[1:])
	}
	return result.String()
}

// pluralize converts singular nouns to their plural forms.
func pluralize(name string) string {
	if name == "" {
		return ""
	}

	switch strings.ToLower(name) {
	case "person":
		return "people"
	case "datum":
		return "data"
	case "criterion":
		return "criteria"
	}

	return preserveCase(name, pluralizeClient.Pluralize(name, 2, false))
}

// singularize converts plural nouns to their singular forms.
func singularize(name string) string {
	if name == "" {
		return ""
	}

	switch strings.ToLower(name) {
	case "people":
		return "person"
	case "data":
		return "datum"
	case "criteria":
		return "criterion"
	}

	return preserveCase(name, pluralizeClient.Singular(name))
}

// hasUpperCase returns true if the string contains any uppercase letters.
func hasUpperCase(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// preserveCase keeps an all-lowercase original lowercase.
func preserveCase(original, result string) string {
	if strings.ToLower(original) == original {
		return strings.ToLower(result)
	}
	return result
}
