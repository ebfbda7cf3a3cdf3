package ast

import (
	"slices"

	"github.com/Konsultn-Engineering/querykit/utils"
)

// Query describes one pending statement. Values only hold the shape of the
// SQL; bound parameters are tracked by the builder.
type Query struct {
	Kind      Kind
	Table     string
	Alias     string
	Columns   []Expr
	Joins     []*Join
	Wheres    []Where
	Groups    []string
	Orders    []*Order
	Limit     *int
	Offset    *int
	Aggregate *Aggregate
	Values    []*Assignment
}

func NewQuery(table string) *Query {
	return &Query{Kind: KindSelect, Table: table}
}

// Clone returns a copy whose slices share no backing arrays with q. Nodes
// themselves are immutable once appended and are shared.
func (q *Query) Clone() *Query {
	c := *q
	c.Columns = slices.Clone(q.Columns)
	c.Joins = slices.Clone(q.Joins)
	c.Wheres = slices.Clone(q.Wheres)
	c.Groups = slices.Clone(q.Groups)
	c.Orders = slices.Clone(q.Orders)
	c.Values = slices.Clone(q.Values)
	if q.Limit != nil {
		n := *q.Limit
		c.Limit = &n
	}
	if q.Offset != nil {
		n := *q.Offset
		c.Offset = &n
	}
	if q.Aggregate != nil {
		agg := *q.Aggregate
		agg.Columns = slices.Clone(q.Aggregate.Columns)
		c.Aggregate = &agg
	}
	return &c
}

// Fingerprint identifies the SQL text q compiles to. Bound values never take
// part, so two queries differing only in parameters share a fingerprint.
func (q *Query) Fingerprint() uint64 {
	h := utils.Mix64(0x9e3779b185ebca87, uint64(q.Kind))
	h = utils.MixString(h, q.Table)
	h = utils.MixString(h, q.Alias)

	h = utils.Mix64(h, uint64(len(q.Columns)))
	for _, c := range q.Columns {
		h = utils.Mix64(h, c.Fingerprint())
	}

	h = utils.Mix64(h, uint64(len(q.Joins)))
	for _, j := range q.Joins {
		h = utils.Mix64(h, j.Fingerprint())
	}

	h = FingerprintWheres(h, q.Wheres)
	h = utils.MixStrings(h, q.Groups)

	h = utils.Mix64(h, uint64(len(q.Orders)))
	for _, o := range q.Orders {
		h = utils.Mix64(h, o.Fingerprint())
	}

	h = utils.Mix64(h, optional(q.Limit))
	h = utils.Mix64(h, optional(q.Offset))
	h = utils.Mix64(h, q.Aggregate.Fingerprint())

	h = utils.Mix64(h, uint64(len(q.Values)))
	for _, a := range q.Values {
		h = utils.MixString(h, a.Column)
	}
	return h
}

func optional(n *int) uint64 {
	if n == nil {
		return 0
	}
	return uint64(*n) + 1
}
