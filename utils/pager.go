package utils

import "strconv"

// DefaultPageSize is used when configuration supplies no valid page size.
const DefaultPageSize = 10

// Page is one window of an ordered item sequence.
type Page[T any] struct {
	Items      []T `json:"items"`
	Number     int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// HasNext reports whether a page follows this one.
func (p Page[T]) HasNext() bool { return p.Number < p.TotalPages }

// HasPrev reports whether a page precedes this one.
func (p Page[T]) HasPrev() bool { return p.Number > 1 }

// Paginate slices items into the requested 1-based page. Requests
// below 1 default to the first page and requests past the end clamp
// to the last page, so callers never get an error for a bad page
// number. An empty sequence still yields one (empty) page.
func Paginate[T any](items []T, pageSize, requested int) Page[T] {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	number := requested
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	start := (number - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      items[start:end],
		Number:     number,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

// ParsePage reads a 1-based page number from a query value, defaulting
// to the first page when absent or invalid.
func ParsePage(raw string) int {
	if p, err := strconv.Atoi(raw); err == nil && p > 0 {
		return p
	}
	return 1
}
