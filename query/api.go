package query

import (
	"context"

	"github.com/Konsultn-Engineering/querykit/record"
	"github.com/Konsultn-Engineering/querykit/schema"
)

// All runs qb and hydrates every row into a T.
func All[T any](ctx context.Context, qb *Builder) ([]*T, error) {
	rows, err := qb.Get(ctx)
	if err != nil {
		return nil, err
	}
	return HydrateAll[T](qb.registry, rows)
}

// One runs qb with LIMIT 1 and hydrates the row. It returns nil when
// nothing matches.
func One[T any](ctx context.Context, qb *Builder) (*T, error) {
	row, err := qb.First(ctx)
	if err != nil || row == nil {
		return nil, err
	}
	return schema.HydrateWith[T](qb.registry, row)
}

// HydrateAll hydrates rows that were fetched, and possibly eager loaded,
// elsewhere.
func HydrateAll[T any](reg *schema.Registry, rows []*record.Record) ([]*T, error) {
	out := make([]*T, len(rows))
	for i, row := range rows {
		v, err := schema.HydrateWith[T](reg, row)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
