package query

import (
	"context"
	"fmt"

	"github.com/Konsultn-Engineering/querykit/record"
)

// Paginator describes one page of a result set.
type Paginator struct {
	Total       int64 `json:"total"`
	PerPage     int   `json:"per_page"`
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	Offset      int   `json:"offset"`
}

func (p Paginator) HasMorePages() bool {
	return p.CurrentPage < p.TotalPages
}

// FirstItem is the 1-based position of the page's first row, 0 when empty.
func (p Paginator) FirstItem() int64 {
	if p.Total == 0 {
		return 0
	}
	return int64(p.Offset) + 1
}

// LastItem is the 1-based position of the page's last row, 0 when empty.
func (p Paginator) LastItem() int64 {
	if p.Total == 0 {
		return 0
	}
	return min(int64(p.Offset+p.PerPage), p.Total)
}

type Page struct {
	Paginator Paginator        `json:"paginator"`
	Items     []*record.Record `json:"items"`
}

// Paginate counts the matching rows, clamps page into [1, TotalPages] and
// fetches that page. An empty result still has one page.
func (qb *Builder) Paginate(ctx context.Context, perPage, page int) (*Page, error) {
	if perPage < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPerPage, perPage)
	}

	total, err := qb.Count(ctx)
	if err != nil {
		return nil, err
	}

	pages := max(1, int((total+int64(perPage)-1)/int64(perPage)))
	page = min(max(page, 1), pages)
	offset := (page - 1) * perPage

	items, err := qb.Limit(perPage).Offset(offset).Get(ctx)
	if err != nil {
		return nil, err
	}

	return &Page{
		Paginator: Paginator{
			Total:       total,
			PerPage:     perPage,
			CurrentPage: page,
			TotalPages:  pages,
			Offset:      offset,
		},
		Items: items,
	}, nil
}
