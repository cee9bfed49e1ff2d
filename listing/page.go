// Package listing holds the read-side views shared by the API and the
// client: catalog search, the review feed and order display rows.
package listing

// Page is one 1-indexed slice of a larger result set.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Paginate cuts items into pages of size and returns the requested one.
// Pages below 1 are read as page 1; a page past the end comes back empty
// but still reports the totals. A non-positive size yields a single page.
func Paginate[T any](items []T, page, size int) Page[T] {
	if page < 1 {
		page = 1
	}
	total := len(items)
	if size <= 0 {
		size = total
		if size == 0 {
			size = 1
		}
	}
	totalPages := total / size
	if total%size != 0 {
		totalPages++
	}

	// page-1 < totalPages keeps (page-1)*size below total
	out := []T{}
	if page-1 < totalPages {
		start := (page - 1) * size
		n := total - start
		if n > size {
			n = size
		}
		out = make([]T, n)
		copy(out, items[start:start+n])
	}
	return Page[T]{
		Items:      out,
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: totalPages,
	}
}
