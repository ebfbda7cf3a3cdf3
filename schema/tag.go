package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// ParsedTag is the parsed form of a `db` struct tag.
type ParsedTag struct {
	ColumnName string // explicit or derived from the field name
	Skip       bool   // db:"-"
	Primary    bool
	Generator  string // uuid, ulid, snowflake, nanoid
	AutoNowAdd bool   // set to now on insert when zero
	AutoNow    bool   // set to now on every write when zero
}

// parseTag parses a field's tags.
//
// Supported syntax:
//
//	`db:"column_name"`                  // Basic column mapping
//	`db:"column:id;primary"`            // Explicit column with flags
//	`db:"primary;generator:ulid"`       // ID generation
//	`db:"auto_now_add"`                 // Timestamp on insert
//	`db:"-"`                            // Skip field entirely
func parseTag(naming NamingStrategy, fieldName string, tag reflect.StructTag) (*ParsedTag, error) {
	value := tag.Get("db")
	parsed := &ParsedTag{ColumnName: naming.ColumnName(fieldName)}

	if value == "" {
		return parsed, nil
	}
	if value == "-" {
		return &ParsedTag{Skip: true}, nil
	}
	if !strings.ContainsAny(value, ";:") && !isFlag(value) {
		parsed.ColumnName = value
		return parsed, nil
	}

	for _, option := range strings.Split(value, ";") {
		option = strings.TrimSpace(option)
		if option == "" {
			continue
		}

		key, val, hasValue := strings.Cut(option, ":")
		key, val = strings.TrimSpace(key), strings.TrimSpace(val)
		if hasValue {
			switch key {
			case "column":
				parsed.ColumnName = val
			case "generator":
				parsed.Generator = val
			default:
				return nil, fmt.Errorf("field %s: unknown tag option %q", fieldName, key)
			}
			continue
		}

		switch key {
		case "primary", "primary_key", "pk":
			parsed.Primary = true
		case "auto_now_add":
			parsed.AutoNowAdd = true
		case "auto_now":
			parsed.AutoNow = true
		default:
			// A bare word that is not a flag is the column name.
			parsed.ColumnName = key
		}
	}
	return parsed, nil
}

func isFlag(s string) bool {
	switch s {
	case "primary", "primary_key", "pk", "auto_now_add", "auto_now":
		return true
	}
	return false
}
