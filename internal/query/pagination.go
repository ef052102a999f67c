package query

// Page is a one-based page request. Out-of-range input is clamped, never rejected.
type Page struct {
	Number int
	Size   int
}

// Clamp returns the page with Number >= 1 and Size >= 0.
func (p Page) Clamp() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 0 {
		p.Size = 0
	}
	return p
}

// Offset is the number of rows skipped before the page starts.
func (p Page) Offset() int {
	c := p.Clamp()
	return (c.Number - 1) * c.Size
}

// PagedCollection carries one page of items and the total count matching the query.
// TotalCount ignores paging, so it stays authoritative when Items is a strict subset.
type PagedCollection[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"total_count"`
}

// Empty returns a collection with no items and a zero total.
func Empty[T any]() PagedCollection[T] {
	return PagedCollection[T]{Items: []T{}}
}
