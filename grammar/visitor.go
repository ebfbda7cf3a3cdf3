package grammar

import (
	"strconv"
	"strings"

	"github.com/Konsultn-Engineering/querykit/ast"
	"github.com/Konsultn-Engineering/querykit/dialect"
)

// sqlVisitor renders one statement. The placeholder counter only moves
// forward, so $n numbering follows binding order across nested groups and
// subqueries.
type sqlVisitor struct {
	g  *Grammar
	d  dialect.Dialect
	sb strings.Builder
	n  int
}

var _ ast.Visitor = (*sqlVisitor)(nil)

func (v *sqlVisitor) placeholder() string {
	v.n++
	return v.d.Placeholder(v.n)
}

func (v *sqlVisitor) selectStmt(q *ast.Query) error {
	if q.Table == "" {
		return ErrMissingTable
	}

	// A grouped count has to count the groups, not the rows.
	if q.Aggregate != nil && len(q.Groups) > 0 {
		inner := q.Clone()
		inner.Aggregate = nil
		// SELECT * next to GROUP BY is rejected by Postgres and strict MySQL.
		if len(inner.Columns) == 0 {
			inner.Columns = make([]ast.Expr, len(inner.Groups))
			for i, col := range inner.Groups {
				inner.Columns[i] = ast.NewColumn(col)
			}
		}
		v.sb.WriteString("SELECT COUNT(*) AS aggregate FROM (")
		if err := v.selectStmt(inner); err != nil {
			return err
		}
		v.sb.WriteString(") AS ")
		v.sb.WriteString(v.d.QuoteIdentifier("aggregate_table"))
		return nil
	}

	v.sb.WriteString("SELECT ")
	if q.Aggregate != nil {
		v.aggregate(q.Aggregate)
	} else if err := v.columns(q.Columns); err != nil {
		return err
	}

	v.sb.WriteString(" FROM ")
	v.table(q.Table, q.Alias)

	for _, j := range q.Joins {
		v.join(j)
	}

	if err := v.where(q.Wheres); err != nil {
		return err
	}

	if len(q.Groups) > 0 {
		v.sb.WriteString(" GROUP BY ")
		for i, col := range q.Groups {
			if i > 0 {
				v.sb.WriteString(", ")
			}
			v.sb.WriteString(v.g.Wrap(col))
		}
	}

	if len(q.Orders) > 0 {
		v.sb.WriteString(" ORDER BY ")
		for i, o := range q.Orders {
			if i > 0 {
				v.sb.WriteString(", ")
			}
			v.sb.WriteString(v.g.Wrap(o.Column))
			v.sb.WriteByte(' ')
			v.sb.WriteString(o.Direction())
		}
	}

	v.limit(q.Limit, q.Offset)
	return nil
}

func (v *sqlVisitor) insertStmt(q *ast.Query) error {
	if q.Table == "" {
		return ErrMissingTable
	}
	if len(q.Values) == 0 {
		return ErrEmptyPayload
	}

	v.sb.WriteString("INSERT INTO ")
	v.sb.WriteString(v.g.Wrap(q.Table))
	v.sb.WriteString(" (")
	for i, a := range q.Values {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		v.sb.WriteString(v.g.Wrap(a.Column))
	}
	v.sb.WriteString(") VALUES (")
	for i := range q.Values {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		v.sb.WriteString(v.placeholder())
	}
	v.sb.WriteByte(')')
	return nil
}

func (v *sqlVisitor) updateStmt(q *ast.Query) error {
	if q.Table == "" {
		return ErrMissingTable
	}
	if len(q.Values) == 0 {
		return ErrEmptyPayload
	}

	v.sb.WriteString("UPDATE ")
	v.table(q.Table, q.Alias)
	v.sb.WriteString(" SET ")
	for i, a := range q.Values {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		v.sb.WriteString(v.g.Wrap(a.Column))
		v.sb.WriteString(" = ")
		v.sb.WriteString(v.placeholder())
	}
	return v.where(q.Wheres)
}

func (v *sqlVisitor) deleteStmt(q *ast.Query) error {
	if q.Table == "" {
		return ErrMissingTable
	}
	v.sb.WriteString("DELETE FROM ")
	v.table(q.Table, q.Alias)
	return v.where(q.Wheres)
}

func (v *sqlVisitor) columns(cols []ast.Expr) error {
	if len(cols) == 0 {
		v.sb.WriteByte('*')
		return nil
	}
	for i, col := range cols {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		if err := col.Accept(v); err != nil {
			return err
		}
	}
	return nil
}

func (v *sqlVisitor) aggregate(a *ast.Aggregate) {
	v.sb.WriteString(strings.ToUpper(a.Function))
	v.sb.WriteByte('(')
	if len(a.Columns) == 0 {
		v.sb.WriteByte('*')
	}
	for i, col := range a.Columns {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		v.sb.WriteString(v.g.Wrap(col))
	}
	v.sb.WriteString(") AS aggregate")
}

func (v *sqlVisitor) table(name, alias string) {
	v.sb.WriteString(v.g.Wrap(name))
	if alias != "" && alias != name {
		v.sb.WriteString(" AS ")
		v.sb.WriteString(v.g.Wrap(alias))
	}
}

func (v *sqlVisitor) join(j *ast.Join) {
	v.sb.WriteByte(' ')
	v.sb.WriteString(joinKeyword(j.Type))
	v.sb.WriteByte(' ')
	v.sb.WriteString(v.g.Wrap(j.Table))
	v.sb.WriteString(" ON ")
	v.sb.WriteString(v.g.Wrap(j.Left))
	v.sb.WriteByte(' ')
	v.sb.WriteString(j.Operator)
	v.sb.WriteByte(' ')
	v.sb.WriteString(v.g.Wrap(j.Right))
}

func (v *sqlVisitor) where(wheres []ast.Where) error {
	if len(wheres) == 0 {
		return nil
	}
	v.sb.WriteString(" WHERE ")
	return v.whereList(wheres)
}

// whereList writes the connector between nodes, never before the first.
func (v *sqlVisitor) whereList(wheres []ast.Where) error {
	for i, w := range wheres {
		if i > 0 {
			v.sb.WriteByte(' ')
			v.sb.WriteString(connector(w))
			v.sb.WriteByte(' ')
		}
		if err := w.Accept(v); err != nil {
			return err
		}
	}
	return nil
}

func (v *sqlVisitor) limit(limit, offset *int) {
	switch {
	case limit != nil:
		v.sb.WriteString(" LIMIT ")
		v.sb.WriteString(strconv.Itoa(*limit))
	case offset != nil:
		if unbounded := v.d.UnboundedLimit(); unbounded != "" {
			v.sb.WriteString(" LIMIT ")
			v.sb.WriteString(unbounded)
		}
	}

	if offset != nil {
		v.sb.WriteString(" OFFSET ")
		v.sb.WriteString(strconv.Itoa(*offset))
	}
}

func (v *sqlVisitor) VisitColumn(c *ast.Column) error {
	v.sb.WriteString(v.g.Wrap(c.Name))
	return nil
}

func (v *sqlVisitor) VisitRaw(r *ast.Raw) error {
	v.sb.WriteString(r.SQL)
	return nil
}

func (v *sqlVisitor) VisitBasic(w *ast.Basic) error {
	v.sb.WriteString(v.g.Wrap(w.Column))
	v.sb.WriteByte(' ')
	v.sb.WriteString(w.Operator)
	v.sb.WriteByte(' ')
	v.sb.WriteString(v.placeholder())
	return nil
}

func (v *sqlVisitor) VisitIn(w *ast.In) error {
	// An empty set matches nothing, its negation everything.
	if w.Count == 0 {
		if w.Not {
			v.sb.WriteString("1 = 1")
		} else {
			v.sb.WriteString("0 = 1")
		}
		return nil
	}

	v.sb.WriteString(v.g.Wrap(w.Column))
	if w.Not {
		v.sb.WriteString(" NOT IN (")
	} else {
		v.sb.WriteString(" IN (")
	}
	for i := 0; i < w.Count; i++ {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		v.sb.WriteString(v.placeholder())
	}
	v.sb.WriteByte(')')
	return nil
}

func (v *sqlVisitor) VisitBetween(w *ast.Between) error {
	v.sb.WriteString(v.g.Wrap(w.Column))
	if w.Not {
		v.sb.WriteString(" NOT BETWEEN ")
	} else {
		v.sb.WriteString(" BETWEEN ")
	}
	v.sb.WriteString(v.placeholder())
	v.sb.WriteString(" AND ")
	v.sb.WriteString(v.placeholder())
	return nil
}

func (v *sqlVisitor) VisitNull(w *ast.Null) error {
	v.sb.WriteString(v.g.Wrap(w.Column))
	if w.Not {
		v.sb.WriteString(" IS NOT NULL")
	} else {
		v.sb.WriteString(" IS NULL")
	}
	return nil
}

func (v *sqlVisitor) VisitNested(w *ast.Nested) error {
	if len(w.Children) == 0 {
		v.sb.WriteString("1 = 1")
		return nil
	}
	v.sb.WriteByte('(')
	err := v.whereList(w.Children)
	v.sb.WriteByte(')')
	return err
}

// --- helpers ---

func connector(w ast.Where) string {
	if c := w.Connector(); c != "" {
		return c
	}
	return ast.OpAnd
}

func joinKeyword(t ast.JoinType) string {
	switch t {
	case ast.JoinLeft:
		return "LEFT JOIN"
	case ast.JoinRight:
		return "RIGHT JOIN"
	default:
		return "INNER JOIN"
	}
}
