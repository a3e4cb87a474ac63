package search

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"slices"
	"strings"

	"inkwell/app/apperrors"
	"inkwell/app/models"

	"github.com/gorilla/schema"
)

// Defaults applied to parameters the client leaves out.
const (
	DefaultPage      = 1
	DefaultLimit     = 10
	MaxLimit         = 100
	DefaultSortBy    = "createdAt"
	DefaultSortOrder = "asc"
)

// Query is a validated search request.
type Query struct {
	Page      int    `schema:"page" validate:"gte=1"`
	Limit     int    `schema:"limit" validate:"gte=1,lte=100"`
	Q         string `schema:"q"`
	SortBy    string `schema:"sortBy"`
	SortOrder string `schema:"sortOrder" validate:"oneof=asc desc"`
}

// PostFilter holds the post specific search filters.
type PostFilter struct {
	Category string `schema:"category"`
}

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// ParseQuery decodes and validates search parameters. sortable lists the
// accepted sortBy values.
func ParseQuery(values url.Values, sortable []string) (Query, error) {
	q := Query{
		Page:      DefaultPage,
		Limit:     DefaultLimit,
		SortBy:    DefaultSortBy,
		SortOrder: DefaultSortOrder,
	}

	// Empty values mean "not given".
	clean := url.Values{}
	for k, v := range values {
		if len(v) > 0 && strings.TrimSpace(v[0]) != "" {
			clean[k] = v[:1]
		}
	}
	if err := decoder.Decode(&q, clean); err != nil {
		return q, decodeError(err)
	}
	q.Q = strings.TrimSpace(q.Q)

	if err := models.Validate(&q); err != nil {
		return q, err
	}
	if !slices.Contains(sortable, q.SortBy) {
		return q, apperrors.Field("sortBy", fmt.Sprintf("sortBy must be one of [%s]", strings.Join(sortable, " ")))
	}
	return q, nil
}

// ParsePostFilter decodes the post filters.
func ParsePostFilter(values url.Values) PostFilter {
	var f PostFilter
	_ = decoder.Decode(&f, values)
	f.Category = strings.TrimSpace(f.Category)
	return f
}

func decodeError(err error) error {
	fields := map[string]string{}
	var multi schema.MultiError
	if errors.As(err, &multi) {
		for key := range multi {
			fields[key] = key + " must be an integer"
		}
	}
	if len(fields) == 0 {
		return apperrors.BadRequest("Invalid query parameters")
	}
	return apperrors.Validation(fields)
}

// Skip is the number of rows before the requested page. Pages too far out
// to count saturate at math.MaxInt, which yields an empty page.
func (q Query) Skip() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// Descending reports whether rows are ordered from high to low.
func (q Query) Descending() bool {
	return q.SortOrder == "desc"
}
