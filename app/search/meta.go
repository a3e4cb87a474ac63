package search

// Meta describes where a page sits within the full result set.
type Meta struct {
	PageSize    int `json:"pageSize"`
	TotalItems  int `json:"totalItems"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
}

// Page is one page of rows plus its meta.
type Page[T any] struct {
	Data []T `json:"data"`
	Meta Meta `json:"meta"`
}

// NewMeta computes the meta of a page. TotalPages is 0 when nothing matched.
func NewMeta(q Query, total int) Meta {
	pages := 0
	if total > 0 {
		pages = (total + q.Limit - 1) / q.Limit
	}
	return Meta{
		PageSize:    q.Limit,
		TotalItems:  total,
		CurrentPage: q.Page,
		TotalPages:  pages,
	}
}

// NewPage wraps data and total into a Page, never leaving Data nil.
func NewPage[T any](q Query, data []T, total int) *Page[T] {
	if data == nil {
		data = []T{}
	}
	return &Page[T]{Data: data, Meta: NewMeta(q, total)}
}
