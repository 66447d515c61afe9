package pagination

import "math"

const (
	// DefaultPerPage is used when a request names no page size
	DefaultPerPage = 15
	// MaxPerPage caps the page size a client may ask for
	MaxPerPage = 100
)

// Params is the page a list request asks for
type Params struct {
	Page    int `form:"page" json:"page"`
	PerPage int `form:"per_page" json:"per_page"`
}

// Normalize returns p with the page starting at 1 and the size clamped to
// 1..MaxPerPage. A missing size becomes DefaultPerPage.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PerPage < 1:
		p.PerPage = DefaultPerPage
	case p.PerPage > MaxPerPage:
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset is the number of rows before the page
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Meta locates a page within the full result set
type Meta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// Page is one page of items
type Page[T any] struct {
	Items      []T  `json:"items"`
	Pagination Meta `json:"pagination"`
}

// NewPage wraps items fetched with p out of total matching rows. p must be
// normalized.
func NewPage[T any](items []T, p Params, total int64) *Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := int(math.Ceil(float64(total) / float64(p.PerPage)))

	return &Page[T]{
		Items: items,
		Pagination: Meta{
			CurrentPage: p.Page,
			PerPage:     p.PerPage,
			Total:       total,
			TotalPages:  totalPages,
			HasNext:     p.Page < totalPages,
			HasPrev:     p.Page > 1,
		},
	}
}
