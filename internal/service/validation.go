package service

import "github.com/maxviazov/dispensing-data-access/internal/query"

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// normalizePage applies API paging defaults on top of query.Page clamping: an unset size
// means defaultPageSize and no page is larger than maxPageSize.
func normalizePage(p query.Page) query.Page {
	p = p.Clamp()
	if p.Size == 0 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}
