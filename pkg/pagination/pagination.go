// Package pagination translates offset/limit query parameters into the
// page index/size pairs the stores understand, and back into response metadata.
//
// The translation snaps the effective offset down to a page boundary when the
// requested offset is not a multiple of the limit: offset=7, limit=5 reads
// page 1 (items 5..9), while the response still echoes offset=7. Callers that
// need exact offsets must send page-aligned values.
package pagination

import (
	liberrors "github.com/tendant/simple-library/pkg/errors"
)

// PageRequest addresses one page of a listing.
type PageRequest struct {
	Index int
	Size  int
}

// Offset returns the first row the page covers.
func (p PageRequest) Offset() int {
	return p.Index * p.Size
}

// Page is a slice of results plus the metadata echoed back to the caller.
type Page[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"total_count"`
	Offset     int   `json:"offset"`
	Limit      int   `json:"limit"`
}

// ToPageRequest converts offset/limit into a page request.
// A non-positive limit or a negative offset is rejected.
func ToPageRequest(offset, limit int) (PageRequest, error) {
	if limit <= 0 {
		return PageRequest{}, liberrors.InvalidInput("limit", "must be greater than zero")
	}
	if offset < 0 {
		return PageRequest{}, liberrors.InvalidInput("offset", "must not be negative")
	}
	return PageRequest{
		Index: offset / limit,
		Size:  limit,
	}, nil
}

// ToPageResponse wraps items with the requested offset/limit and total count.
func ToPageResponse[T any](items []T, totalCount int64, offset, limit int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		TotalCount: totalCount,
		Offset:     offset,
		Limit:      limit,
	}
}

// Map converts the items of a page, keeping the metadata.
func Map[T, U any](page Page[T], fn func(T) U) Page[U] {
	items := make([]U, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, fn(item))
	}
	return Page[U]{
		Items:      items,
		TotalCount: page.TotalCount,
		Offset:     page.Offset,
		Limit:      page.Limit,
	}
}

// Slice returns the part of items covered by req. Used by in-memory stores.
func Slice[T any](items []T, req PageRequest) []T {
	start := req.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + req.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
