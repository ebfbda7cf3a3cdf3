package ast

import "github.com/Konsultn-Engineering/querykit/utils"

// Expr is a projection element.
type Expr interface {
	Node
	exprNode()
}

// Column is an identifier projected as-is, optionally carrying "x as y".
type Column struct {
	Name string
}

func NewColumn(name string) *Column {
	return &Column{Name: name}
}

func (c *Column) Accept(v Visitor) error { return v.VisitColumn(c) }

func (c *Column) Fingerprint() uint64 {
	return utils.MixString(0x636f6c, c.Name)
}

func (*Column) exprNode() {}

// Raw is emitted verbatim.
type Raw struct {
	SQL string
}

func NewRaw(sql string) *Raw {
	return &Raw{SQL: sql}
}

func (r *Raw) Accept(v Visitor) error { return v.VisitRaw(r) }

func (r *Raw) Fingerprint() uint64 {
	return utils.MixString(0x726177, r.SQL)
}

func (*Raw) exprNode() {}

// Aggregate replaces the projection with FUNC(columns) AS aggregate.
type Aggregate struct {
	Function string
	Columns  []string
}

func (a *Aggregate) Fingerprint() uint64 {
	if a == nil {
		return 0
	}
	return utils.MixStrings(utils.U64(a.Function), a.Columns)
}
