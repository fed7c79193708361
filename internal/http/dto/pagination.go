// Package dto holds shared wire types used across resource DTOs.
package dto

import (
	"net/http"
	"strconv"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 5
	MaxPageSize     = 100
)

// PageQuery holds normalized pagination parameters.
type PageQuery struct {
	Page int
	Size int
}

// ParsePageQuery reads ?page= and ?page_size= with clamping: page >= 1,
// page_size in [1, 100], defaults 1 and 5.
func ParsePageQuery(r *http.Request) PageQuery {
	q := PageQuery{Page: DefaultPage, Size: DefaultPageSize}

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			q.Page = n
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			q.Size = n
		}
	}
	if q.Size > MaxPageSize {
		q.Size = MaxPageSize
	}
	return q
}

// Paged is the standard envelope for list responses.
type Paged[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"total_count"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPaged builds the envelope; total_pages rounds up.
func NewPaged[T any](items []T, total int, q PageQuery) Paged[T] {
	return Paged[T]{
		Items:      items,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.Size,
		TotalPages: (total + q.Size - 1) / q.Size,
	}
}
