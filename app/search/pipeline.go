package search

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Unwind joins every document with its references and drops the ones whose
// required references do not resolve, the same way an unwind over an empty
// lookup result removes the document.
func Unwind[D, R any](docs []D, join func(D) (R, bool)) []R {
	rows := make([]R, 0, len(docs))
	for _, d := range docs {
		if row, ok := join(d); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// Schema describes how rows of one entity are matched and ordered.
type Schema[R any] struct {
	// Text returns the values q is matched against.
	Text func(R) []string
	// Fields maps each sortable field name to its value in a row.
	Fields map[string]func(R) any
	// ID returns the tie-break key, the hex object id.
	ID func(R) string
}

// Match keeps the rows where q is a case-insensitive substring of at least
// one text field and every filter holds. An empty q matches everything.
func Match[R any](rows []R, text func(R) []string, q string, filters ...func(R) bool) []R {
	needle := strings.ToLower(q)
	out := make([]R, 0, len(rows))
	for _, row := range rows {
		if !matchesAll(row, filters) {
			continue
		}
		if needle == "" || containsFold(text(row), needle) {
			out = append(out, row)
		}
	}
	return out
}

func matchesAll[R any](row R, filters []func(R) bool) bool {
	for _, f := range filters {
		if !f(row) {
			return false
		}
	}
	return true
}

func containsFold(values []string, needle string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

// Facet sorts the matched rows and cuts the requested page out of them. The
// page and the total are both taken from the same slice.
func Facet[R any](rows []R, s Schema[R], q Query) ([]R, int, error) {
	field, ok := s.Fields[q.SortBy]
	if !ok {
		return nil, 0, fmt.Errorf("unknown sort field %q", q.SortBy)
	}
	desc := q.Descending()

	slices.SortStableFunc(rows, func(a, b R) int {
		c := compare(field(a), field(b))
		if desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return strings.Compare(s.ID(a), s.ID(b))
	})

	total := len(rows)
	start := min(q.Skip(), total)
	end := min(start+q.Limit, total)
	return rows[start:end], total, nil
}

// Run evaluates match and facet over rows that were already joined.
func Run[R any](rows []R, s Schema[R], q Query, filters ...func(R) bool) (*Page[R], error) {
	matched := Match(rows, s.Text, q.Q, filters...)
	data, total, err := Facet(matched, s, q)
	if err != nil {
		return nil, err
	}
	return NewPage(q, slices.Clone(data), total), nil
}

// compare orders values of the kinds rows expose for sorting.
func compare(a, b any) int {
	switch av := a.(type) {
	case string:
		return strings.Compare(av, b.(string))
	case int:
		return cmp.Compare(av, b.(int))
	case time.Time:
		return av.Compare(b.(time.Time))
	case bool:
		bv := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		}
		return 1
	}
	panic(fmt.Sprintf("search: unsortable value %T", a))
}
