package filter

import "github.com/Drominaman/cybertrend-dashboard/internal/trend"

// DefaultPageSize is used when a caller passes a size below 1.
const DefaultPageSize = 10

// PageSizes are the sizes the views offer.
var PageSizes = []int{5, 10}

// Page is one slice of an ordered record sequence.
type Page struct {
	Items      []trend.Record
	Number     int
	Size       int
	Total      int
	TotalPages int
}

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

// HasPrev reports whether an earlier page exists.
func (p Page) HasPrev() bool {
	return p.Number > 1
}

// TotalPages returns ceil(n/size), at least 1.
func TotalPages(n, size int) int {
	if size < 1 {
		size = DefaultPageSize
	}
	pages := (n + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// Paginate returns page number (1-indexed) of records. Pages outside
// [1, TotalPages] come back empty rather than as an error.
func Paginate(records []trend.Record, number, size int) Page {
	if size < 1 {
		size = DefaultPageSize
	}
	p := Page{
		Items:      []trend.Record{},
		Number:     number,
		Size:       size,
		Total:      len(records),
		TotalPages: TotalPages(len(records), size),
	}
	if number < 1 || number > p.TotalPages {
		return p
	}

	start := (number - 1) * size
	end := start + size
	if end > len(records) {
		end = len(records)
	}
	p.Items = clone(records[start:end])
	return p
}

// ClampPage keeps a page number inside [1, totalPages].
func ClampPage(number, totalPages int) int {
	if number < 1 {
		return 1
	}
	if number > totalPages {
		return totalPages
	}
	return number
}
