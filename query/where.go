package query

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"strings"

	"github.com/Konsultn-Engineering/querykit/ast"
	"github.com/Konsultn-Engineering/querykit/record"
)

// Condition is one "column operator value" triple. An empty Operator means
// equality.
type Condition struct {
	Column   string
	Operator string
	Value    any
}

// Where adds a predicate joined with AND. column selects the form:
//
//	Where("age", 30)                      // age = ?
//	Where("age", ">", 30)                 // age > ?
//	Where("id", []int{1, 2})              // id IN (?, ?)
//	Where("role", "=", []string{"a", "b"}) // (role = ? OR role = ?)
//	Where("deleted_at", nil)              // deleted_at IS NULL
//	Where(map[string]any{"a": 1, "b": 2}) // (a = ? AND b = ?)
//	Where([]query.Condition{...})         // one nested group
//	Where([][]any{{"a", 1}, {"b", ">", 2}})
//	Where(func(q *query.Builder) *query.Builder { return q.Where(...) })
func (qb *Builder) Where(column any, args ...any) *Builder {
	nb := qb.clone()
	nb.addWhere(ast.OpAnd, column, args)
	return nb
}

// OrWhere is Where joined with OR.
func (qb *Builder) OrWhere(column any, args ...any) *Builder {
	nb := qb.clone()
	nb.addWhere(ast.OpOr, column, args)
	return nb
}

// WhereGroup wraps the predicates fn adds in parentheses.
func (qb *Builder) WhereGroup(fn func(*Builder) *Builder) *Builder {
	nb := qb.clone()
	nb.group(ast.OpAnd, fn)
	return nb
}

func (qb *Builder) OrWhereGroup(fn func(*Builder) *Builder) *Builder {
	nb := qb.clone()
	nb.group(ast.OpOr, fn)
	return nb
}

func (qb *Builder) WhereEq(column string, value any) *Builder {
	return qb.Where(column, ast.OpEqual, value)
}

func (qb *Builder) WhereNotEq(column string, value any) *Builder {
	return qb.Where(column, ast.OpNotEqual, value)
}

func (qb *Builder) WhereGt(column string, value any) *Builder {
	return qb.Where(column, ast.OpGreaterThan, value)
}

func (qb *Builder) WhereGte(column string, value any) *Builder {
	return qb.Where(column, ast.OpGreaterThanOrEqual, value)
}

func (qb *Builder) WhereLt(column string, value any) *Builder {
	return qb.Where(column, ast.OpLessThan, value)
}

func (qb *Builder) WhereLte(column string, value any) *Builder {
	return qb.Where(column, ast.OpLessThanOrEqual, value)
}

func (qb *Builder) WhereLike(column string, pattern string) *Builder {
	return qb.Where(column, ast.OpLike, pattern)
}

func (qb *Builder) OrWhereLike(column string, pattern string) *Builder {
	return qb.OrWhere(column, ast.OpLike, pattern)
}

// WhereIn accepts any slice or array. A scalar is treated as a one element
// list. An empty list matches nothing.
func (qb *Builder) WhereIn(column string, values any) *Builder {
	nb := qb.clone()
	nb.whereIn(ast.OpAnd, column, listOrScalar(values), false)
	return nb
}

func (qb *Builder) OrWhereIn(column string, values any) *Builder {
	nb := qb.clone()
	nb.whereIn(ast.OpOr, column, listOrScalar(values), false)
	return nb
}

func (qb *Builder) WhereNotIn(column string, values any) *Builder {
	nb := qb.clone()
	nb.whereIn(ast.OpAnd, column, listOrScalar(values), true)
	return nb
}

func (qb *Builder) OrWhereNotIn(column string, values any) *Builder {
	nb := qb.clone()
	nb.whereIn(ast.OpOr, column, listOrScalar(values), true)
	return nb
}

func (qb *Builder) WhereBetween(column string, start, end any) *Builder {
	nb := qb.clone()
	nb.whereBetween(ast.OpAnd, column, start, end, false)
	return nb
}

func (qb *Builder) OrWhereBetween(column string, start, end any) *Builder {
	nb := qb.clone()
	nb.whereBetween(ast.OpOr, column, start, end, false)
	return nb
}

func (qb *Builder) WhereNotBetween(column string, start, end any) *Builder {
	nb := qb.clone()
	nb.whereBetween(ast.OpAnd, column, start, end, true)
	return nb
}

func (qb *Builder) OrWhereNotBetween(column string, start, end any) *Builder {
	nb := qb.clone()
	nb.whereBetween(ast.OpOr, column, start, end, true)
	return nb
}

func (qb *Builder) WhereNull(column string) *Builder {
	nb := qb.clone()
	nb.whereNull(ast.OpAnd, column, false)
	return nb
}

func (qb *Builder) OrWhereNull(column string) *Builder {
	nb := qb.clone()
	nb.whereNull(ast.OpOr, column, false)
	return nb
}

func (qb *Builder) WhereNotNull(column string) *Builder {
	nb := qb.clone()
	nb.whereNull(ast.OpAnd, column, true)
	return nb
}

func (qb *Builder) OrWhereNotNull(column string) *Builder {
	nb := qb.clone()
	nb.whereNull(ast.OpOr, column, true)
	return nb
}

// --- dispatch ---
// The helpers below mutate qb in place and are only called on fresh clones.

func (qb *Builder) addWhere(boolean string, column any, args []any) {
	switch c := column.(type) {
	case string:
		qb.columnWhere(boolean, c, args)
	case func(*Builder) *Builder:
		qb.group(boolean, c)
	case []Condition:
		qb.conditions(boolean, c)
	case [][]any:
		conds, err := tuplesToConditions(c)
		if err != nil {
			qb.fail(err)
			return
		}
		qb.conditions(boolean, conds)
	case map[string]any:
		qb.equalities(boolean, record.FromMap(c))
	case *record.Record:
		qb.equalities(boolean, c)
	default:
		qb.fail(fmt.Errorf("%w: unsupported column type %T", ErrInvalidWhere, column))
	}
}

func (qb *Builder) columnWhere(boolean, column string, args []any) {
	switch len(args) {
	case 1:
		value := args[0]
		switch v := value.(type) {
		case map[string]any:
			// The map names its own columns.
			qb.equalities(boolean, record.FromMap(v))
			return
		case *record.Record:
			qb.equalities(boolean, v)
			return
		case nil:
			qb.whereNull(boolean, column, false)
			return
		}
		if list, ok := asList(value); ok {
			qb.whereIn(boolean, column, list, false)
			return
		}
		qb.basic(boolean, column, ast.OpEqual, value)
	case 2:
		op, ok := args[0].(string)
		if !ok {
			qb.fail(fmt.Errorf("%w: operator for %s must be a string, got %T", ErrInvalidOperator, column, args[0]))
			return
		}
		qb.operatorWhere(boolean, column, strings.ToUpper(strings.TrimSpace(op)), args[1])
	default:
		qb.fail(fmt.Errorf("%w: %s takes a value or an operator and a value, got %d arguments", ErrInvalidWhere, column, len(args)))
	}
}

func (qb *Builder) operatorWhere(boolean, column, op string, value any) {
	list, isList := asList(value)

	switch op {
	case ast.OpIn, ast.OpNotIn:
		if !isList {
			list = []any{value}
		}
		qb.whereIn(boolean, column, list, op == ast.OpNotIn)
		return
	case ast.OpBetween, ast.OpNotBetween:
		if !isList || len(list) != 2 {
			qb.fail(fmt.Errorf("%w: %s on %s needs exactly two values", ErrInvalidWhere, op, column))
			return
		}
		qb.whereBetween(boolean, column, list[0], list[1], op == ast.OpNotBetween)
		return
	}

	if err := qb.checkOperator(op); err != nil {
		qb.fail(fmt.Errorf("%w on %s", err, column))
		return
	}

	if isList {
		// Any of the values may match.
		if len(list) == 0 {
			qb.fail(fmt.Errorf("%w: empty value list for %s %s", ErrInvalidWhere, column, op))
			return
		}
		children := make([]ast.Where, len(list))
		for i := range list {
			children[i] = &ast.Basic{Column: column, Operator: op, Boolean: ast.OpOr}
		}
		qb.query.Wheres = append(qb.query.Wheres, &ast.Nested{Children: children, Boolean: boolean})
		qb.where = append(qb.where, list...)
		return
	}

	if value == nil {
		switch op {
		case ast.OpEqual:
			qb.whereNull(boolean, column, false)
			return
		case ast.OpNotEqual, ast.OpNotEqualAlt:
			qb.whereNull(boolean, column, true)
			return
		}
	}
	qb.basic(boolean, column, op, value)
}

func (qb *Builder) checkOperator(op string) error {
	if !ast.IsComparison(op) {
		return fmt.Errorf("%w: %q", ErrInvalidOperator, op)
	}
	if (op == ast.OpILike || op == ast.OpNotILike) && !qb.grammar.Dialect().SupportsILike() {
		return fmt.Errorf("%w: %s is not supported by %s", ErrInvalidOperator, op, qb.grammar.Dialect().Name())
	}
	return nil
}

func (qb *Builder) basic(boolean, column, op string, value any) {
	if err := qb.checkOperator(op); err != nil {
		qb.fail(fmt.Errorf("%w on %s", err, column))
		return
	}
	qb.query.Wheres = append(qb.query.Wheres, &ast.Basic{Column: column, Operator: op, Boolean: boolean})
	qb.where = append(qb.where, value)
}

func (qb *Builder) whereIn(boolean, column string, values []any, not bool) {
	qb.query.Wheres = append(qb.query.Wheres, &ast.In{Column: column, Count: len(values), Not: not, Boolean: boolean})
	qb.where = append(qb.where, values...)
}

func (qb *Builder) whereBetween(boolean, column string, start, end any, not bool) {
	qb.query.Wheres = append(qb.query.Wheres, &ast.Between{Column: column, Not: not, Boolean: boolean})
	qb.where = append(qb.where, start, end)
}

func (qb *Builder) whereNull(boolean, column string, not bool) {
	qb.query.Wheres = append(qb.query.Wheres, &ast.Null{Column: column, Not: not, Boolean: boolean})
}

// group folds what fn builds on an empty builder into one nested node and
// appends its bindings in order. An empty group adds nothing.
func (qb *Builder) group(boolean string, fn func(*Builder) *Builder) {
	if fn == nil {
		return
	}
	sub := qb.sub()
	out := fn(sub)
	if out == nil {
		out = sub
	}
	qb.errs = append(qb.errs, out.errs...)
	if len(out.query.Wheres) == 0 {
		return
	}
	qb.query.Wheres = append(qb.query.Wheres, &ast.Nested{Children: out.query.Wheres, Boolean: boolean})
	qb.where = append(qb.where, out.where...)
}

func (qb *Builder) conditions(boolean string, conds []Condition) {
	qb.group(boolean, func(sub *Builder) *Builder {
		for _, c := range conds {
			if c.Operator == "" {
				sub = sub.Where(c.Column, c.Value)
			} else {
				sub = sub.Where(c.Column, c.Operator, c.Value)
			}
		}
		return sub
	})
}

func (qb *Builder) equalities(boolean string, rec *record.Record) {
	qb.group(boolean, func(sub *Builder) *Builder {
		rec.Each(func(column string, value any) bool {
			sub = sub.Where(column, value)
			return true
		})
		return sub
	})
}

func tuplesToConditions(tuples [][]any) ([]Condition, error) {
	conds := make([]Condition, 0, len(tuples))
	for i, t := range tuples {
		if len(t) < 2 || len(t) > 3 {
			return nil, fmt.Errorf("%w: condition %d must be [column, value] or [column, operator, value]", ErrInvalidWhere, i)
		}
		column, ok := t[0].(string)
		if !ok {
			return nil, fmt.Errorf("%w: condition %d column must be a string, got %T", ErrInvalidWhere, i, t[0])
		}
		if len(t) == 2 {
			conds = append(conds, Condition{Column: column, Value: t[1]})
			continue
		}
		op, ok := t[1].(string)
		if !ok {
			return nil, fmt.Errorf("%w: condition %d operator must be a string, got %T", ErrInvalidOperator, i, t[1])
		}
		conds = append(conds, Condition{Column: column, Operator: op, Value: t[2]})
	}
	return conds, nil
}

// asList flattens slices into their elements. Byte slices, arrays and
// driver.Valuer values such as uuid.UUID or json.RawMessage bind as one
// scalar.
func asList(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []byte, driver.Valuer, nil:
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func listOrScalar(value any) []any {
	if value == nil {
		return nil
	}
	if list, ok := asList(value); ok {
		return list
	}
	return []any{value}
}
