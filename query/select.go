package query

import (
	"fmt"
	"strings"

	"github.com/Konsultn-Engineering/querykit/ast"
)

// Select replaces the projection. No columns selects everything.
func (qb *Builder) Select(columns ...string) *Builder {
	nb := qb.clone()
	nb.query.Kind = ast.KindSelect
	nb.query.Columns = nb.query.Columns[:0]
	for _, col := range columns {
		nb.query.Columns = append(nb.query.Columns, ast.NewColumn(col))
	}
	return nb
}

// AddSelect appends to the projection.
func (qb *Builder) AddSelect(columns ...string) *Builder {
	nb := qb.clone()
	for _, col := range columns {
		nb.query.Columns = append(nb.query.Columns, ast.NewColumn(col))
	}
	return nb
}

// SelectRaw appends an expression that is emitted without quoting.
func (qb *Builder) SelectRaw(expr string) *Builder {
	nb := qb.clone()
	nb.query.Columns = append(nb.query.Columns, ast.NewRaw(expr))
	return nb
}

// From sets the table and an optional alias.
func (qb *Builder) From(table string, alias ...string) *Builder {
	nb := qb.clone()
	nb.query.Table = table
	nb.query.Alias = ""
	if len(alias) > 0 {
		nb.query.Alias = alias[0]
	}
	return nb
}

func (qb *Builder) Join(table, left, operator, right string) *Builder {
	return qb.join(ast.JoinInner, table, left, operator, right)
}

func (qb *Builder) LeftJoin(table, left, operator, right string) *Builder {
	return qb.join(ast.JoinLeft, table, left, operator, right)
}

func (qb *Builder) RightJoin(table, left, operator, right string) *Builder {
	return qb.join(ast.JoinRight, table, left, operator, right)
}

func (qb *Builder) join(kind ast.JoinType, table, left, operator, right string) *Builder {
	nb := qb.clone()
	op := strings.TrimSpace(operator)
	if !ast.IsComparison(strings.ToUpper(op)) {
		nb.fail(fmt.Errorf("%w: join on %s: %q", ErrInvalidOperator, table, operator))
		return nb
	}
	nb.query.Joins = append(nb.query.Joins, &ast.Join{
		Type:     kind,
		Table:    table,
		Left:     left,
		Operator: op,
		Right:    right,
	})
	return nb
}

func (qb *Builder) GroupBy(columns ...string) *Builder {
	nb := qb.clone()
	nb.query.Groups = append(nb.query.Groups, columns...)
	return nb
}

// OrderBy sorts by column, ascending unless direction is "desc".
func (qb *Builder) OrderBy(column string, direction ...string) *Builder {
	nb := qb.clone()
	desc := false
	if len(direction) > 0 {
		switch strings.ToUpper(strings.TrimSpace(direction[0])) {
		case "", "ASC":
		case "DESC":
			desc = true
		default:
			nb.fail(fmt.Errorf("%w: %q", ErrInvalidDirection, direction[0]))
			return nb
		}
	}
	nb.query.Orders = append(nb.query.Orders, &ast.Order{Column: column, Desc: desc})
	return nb
}

func (qb *Builder) OrderByAsc(columns ...string) *Builder {
	nb := qb
	for _, col := range columns {
		nb = nb.OrderBy(col)
	}
	return nb
}

func (qb *Builder) OrderByDesc(columns ...string) *Builder {
	nb := qb
	for _, col := range columns {
		nb = nb.OrderBy(col, "DESC")
	}
	return nb
}

func (qb *Builder) Limit(n int) *Builder {
	nb := qb.clone()
	if n < 0 {
		nb.fail(fmt.Errorf("%w: limit %d", ErrInvalidLimit, n))
		return nb
	}
	nb.query.Limit = &n
	return nb
}

func (qb *Builder) Offset(n int) *Builder {
	nb := qb.clone()
	if n < 0 {
		nb.fail(fmt.Errorf("%w: offset %d", ErrInvalidLimit, n))
		return nb
	}
	nb.query.Offset = &n
	return nb
}

// LimitOffset sets both in one call.
func (qb *Builder) LimitOffset(limit, offset int) *Builder {
	return qb.Limit(limit).Offset(offset)
}
