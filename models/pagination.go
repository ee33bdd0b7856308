package models

import "math"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxPage keeps the row offset within a 32-bit integer at any page size
	MaxPage = math.MaxInt32/MaxPageSize + 1
)

// PageRequest is a 1-based page request
type PageRequest struct {
	Page int
	Size int
}

// NewPageRequest builds a PageRequest, forcing page into [1, MaxPage] and size
// into [1, MaxPageSize]
func NewPageRequest(page, size int) PageRequest {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size < 1 {
		size = 1
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return PageRequest{Page: page, Size: size}
}

// Offset returns the number of rows to skip
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Size
}

// Limit returns the maximum number of rows to return
func (p PageRequest) Limit() int {
	return p.Size
}

// Page is a page of results with the total count across all pages
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
}

// NewPage creates a Page, normalizing a nil item slice to empty
func NewPage[T any](items []T, total int, req PageRequest) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items: items,
		Total: total,
		Page:  req.Page,
		Size:  req.Size,
	}
}
