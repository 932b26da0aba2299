package listing

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Query carries the paging and visibility options shared by list endpoints.
type Query struct {
	Page           int
	Limit          int
	Search         string
	IncludeDeleted bool
}

// FromRequest reads page, limit, search and includeDeleted, clamping bad values.
func FromRequest(r *http.Request) Query {
	values := r.URL.Query()
	q := Query{Page: 1, Limit: DefaultLimit}

	if p, err := strconv.Atoi(values.Get("page")); err == nil && p > 0 {
		q.Page = p
	}
	if l, err := strconv.Atoi(values.Get("limit")); err == nil && l > 0 {
		q.Limit = l
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	q.Search = strings.TrimSpace(values.Get("search"))
	if inc, err := strconv.ParseBool(values.Get("includeDeleted")); err == nil {
		q.IncludeDeleted = inc
	}
	return q
}

func (q Query) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// SearchPattern returns a lower-cased LIKE pattern, or "" when no search was given.
func (q Query) SearchPattern() string {
	if q.Search == "" {
		return ""
	}
	return "%" + strings.ToLower(q.Search) + "%"
}

type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

func NewPage[T any](items []T, total int64, q Query) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Page: q.Page, Limit: q.Limit}
}

// Map converts every item of a page.
func Map[S, T any](p Page[S], fn func(S) T) Page[T] {
	out := make([]T, len(p.Items))
	for i, item := range p.Items {
		out[i] = fn(item)
	}
	return Page[T]{Items: out, Total: p.Total, Page: p.Page, Limit: p.Limit}
}
