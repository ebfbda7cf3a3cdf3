package query

import (
	"fmt"

	"github.com/Konsultn-Engineering/querykit/ast"
	"github.com/Konsultn-Engineering/querykit/record"
)

// Insert turns the builder into an INSERT of data into its table. data is a
// map (columns sorted), a *record.Record (order kept) or a struct.
func (qb *Builder) Insert(data any) *Builder {
	return qb.write(ast.KindInsert, data)
}

// Update turns the builder into an UPDATE of its table. Existing wheres
// become the UPDATE's predicate.
func (qb *Builder) Update(data any) *Builder {
	return qb.write(ast.KindUpdate, data)
}

// InsertColumns inserts values positionally into columns.
func (qb *Builder) InsertColumns(columns []string, values []any) *Builder {
	return qb.writeColumns(ast.KindInsert, columns, values)
}

func (qb *Builder) UpdateColumns(columns []string, values []any) *Builder {
	return qb.writeColumns(ast.KindUpdate, columns, values)
}

// Delete turns the builder into a DELETE constrained by its wheres.
func (qb *Builder) Delete() *Builder {
	nb := qb.clone()
	nb.query.Kind = ast.KindDelete
	nb.query.Values = nil
	nb.values = nil
	return nb
}

func (qb *Builder) write(kind ast.Kind, data any) *Builder {
	rec, err := qb.payload(data)
	if err != nil {
		nb := qb.clone()
		nb.fail(err)
		return nb
	}
	return qb.writeColumns(kind, rec.Keys(), valuesOf(rec))
}

func (qb *Builder) writeColumns(kind ast.Kind, columns []string, values []any) *Builder {
	nb := qb.clone()
	switch {
	case len(columns) != len(values):
		nb.fail(fmt.Errorf("%w: %d columns, %d values", ErrPayloadMismatch, len(columns), len(values)))
		return nb
	case len(columns) == 0:
		nb.fail(ErrEmptyPayload)
		return nb
	}

	nb.query.Kind = kind
	nb.query.Values = make([]*ast.Assignment, len(columns))
	for i, col := range columns {
		nb.query.Values[i] = &ast.Assignment{Column: col}
	}
	nb.values = append([]any(nil), values...)
	return nb
}

func (qb *Builder) payload(data any) (*record.Record, error) {
	switch d := data.(type) {
	case nil:
		return nil, ErrEmptyPayload
	case map[string]any:
		return record.FromMap(d), nil
	case *record.Record:
		if d == nil {
			return nil, ErrEmptyPayload
		}
		return d, nil
	default:
		return qb.registry.Values(data)
	}
}

func valuesOf(rec *record.Record) []any {
	out := make([]any, 0, rec.Len())
	rec.Each(func(_ string, value any) bool {
		out = append(out, value)
		return true
	})
	return out
}
