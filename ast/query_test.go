package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuery() *Query {
	limit := 10
	q := NewQuery("users")
	q.Columns = []Expr{NewColumn("id"), NewColumn("name")}
	q.Wheres = []Where{
		&Basic{Column: "age", Operator: OpGreaterThan, Boolean: OpAnd},
		&Nested{Boolean: OpOr, Children: []Where{
			&In{Column: "role", Count: 2, Boolean: OpAnd},
			&Null{Column: "deleted_at", Boolean: OpAnd},
		}},
	}
	q.Orders = []*Order{{Column: "name"}}
	q.Limit = &limit
	return q
}

func TestQueryCloneIsolation(t *testing.T) {
	q := sampleQuery()
	c := q.Clone()

	c.Wheres = append(c.Wheres, &Between{Column: "score", Boolean: OpAnd})
	c.Columns[0] = NewColumn("email")
	*c.Limit = 1

	require.Len(t, q.Wheres, 2)
	assert.Equal(t, "id", q.Columns[0].(*Column).Name)
	assert.Equal(t, 10, *q.Limit)
}

func TestQueryCloneAppendDoesNotAlias(t *testing.T) {
	q := sampleQuery()
	q.Wheres = append(make([]Where, 0, 8), q.Wheres...)

	a := q.Clone()
	b := q.Clone()
	a.Wheres = append(a.Wheres, &Null{Column: "a", Boolean: OpAnd})
	b.Wheres = append(b.Wheres, &Null{Column: "b", Boolean: OpAnd})

	assert.Equal(t, "a", a.Wheres[2].(*Null).Column)
	assert.Equal(t, "b", b.Wheres[2].(*Null).Column)
}

func TestQueryFingerprint(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(q *Query)
		same   bool
	}{
		{name: "Identical", mutate: func(q *Query) {}, same: true},
		{name: "Table", mutate: func(q *Query) { q.Table = "posts" }},
		{name: "Kind", mutate: func(q *Query) { q.Kind = KindDelete }},
		{name: "InCount", mutate: func(q *Query) {
			q.Wheres[1] = &Nested{Boolean: OpOr, Children: []Where{
				&In{Column: "role", Count: 3, Boolean: OpAnd},
				&Null{Column: "deleted_at", Boolean: OpAnd},
			}}
		}},
		{name: "Connector", mutate: func(q *Query) {
			q.Wheres[0] = &Basic{Column: "age", Operator: OpGreaterThan, Boolean: OpOr}
		}},
		{name: "OrderDirection", mutate: func(q *Query) { q.Orders = []*Order{{Column: "name", Desc: true}} }},
		{name: "NoLimit", mutate: func(q *Query) { q.Limit = nil }},
		{name: "Aggregate", mutate: func(q *Query) { q.Aggregate = &Aggregate{Function: "count"} }},
	}

	base := sampleQuery().Fingerprint()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := sampleQuery()
			tt.mutate(q)
			if tt.same {
				assert.Equal(t, base, q.Fingerprint())
			} else {
				assert.NotEqual(t, base, q.Fingerprint())
			}
		})
	}
}

func TestIsComparison(t *testing.T) {
	assert.True(t, IsComparison("="))
	assert.True(t, IsComparison("NOT LIKE"))
	assert.False(t, IsComparison("IN"))
	assert.False(t, IsComparison("DROP"))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "select", KindSelect.String())
	assert.Equal(t, "delete", KindDelete.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
