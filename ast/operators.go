package ast

// Comparison operators
const (
	OpEqual              = "="
	OpNotEqual           = "!="
	OpNotEqualAlt        = "<>"
	OpLessThan           = "<"
	OpLessThanOrEqual    = "<="
	OpGreaterThan        = ">"
	OpGreaterThanOrEqual = ">="
	OpSpaceship          = "<=>"
)

// Logical Operators
const (
	OpAnd = "AND"
	OpOr  = "OR"
)

// Pattern Matching
const (
	OpLike        = "LIKE"
	OpNotLike     = "NOT LIKE"
	OpLikeBinary  = "LIKE BINARY"
	OpILike       = "ILIKE"
	OpNotILike    = "NOT ILIKE"
	OpSimilarTo   = "SIMILAR TO"
	OpNotSimilar  = "NOT SIMILAR TO"
	OpRegexp      = "REGEXP"
	OpNotRegexp   = "NOT REGEXP"
	OpRLike       = "RLIKE"
	OpPosixMatch  = "~"
	OpPosixIMatch = "~*"
)

// Set Operations
const (
	OpIn    = "IN"
	OpNotIn = "NOT IN"
)

// Range Operations
const (
	OpBetween    = "BETWEEN"
	OpNotBetween = "NOT BETWEEN"
)

// Bitwise Operators
const (
	OpBitwiseAnd = "&"
	OpBitwiseOr  = "|"
	OpBitwiseXor = "^"
	OpLeftShift  = "<<"
	OpRightShift = ">>"
)

var comparison = map[string]struct{}{
	OpEqual: {}, OpNotEqual: {}, OpNotEqualAlt: {}, OpLessThan: {},
	OpLessThanOrEqual: {}, OpGreaterThan: {}, OpGreaterThanOrEqual: {}, OpSpaceship: {},
	OpLike: {}, OpNotLike: {}, OpLikeBinary: {}, OpILike: {}, OpNotILike: {},
	OpSimilarTo: {}, OpNotSimilar: {}, OpRegexp: {}, OpNotRegexp: {}, OpRLike: {},
	OpPosixMatch: {}, OpPosixIMatch: {},
	OpBitwiseAnd: {}, OpBitwiseOr: {}, OpBitwiseXor: {}, OpLeftShift: {}, OpRightShift: {},
}

// IsComparison reports whether op (already upper-cased) is usable in a basic
// where node.
func IsComparison(op string) bool {
	_, ok := comparison[op]
	return ok
}
