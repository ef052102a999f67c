// Package query holds the calling convention shared by every repository list operation:
// find criteria, the tri-state filter wrapper, paging input and the paged result.
package query

// Filter distinguishes "no filter" from "filter on this value", including a nil value.
// The zero value is Unspecified.
type Filter[T any] struct {
	value     T
	specified bool
}

// Unspecified returns a filter that applies no predicate.
func Unspecified[T any]() Filter[T] { return Filter[T]{} }

// Specified returns a filter that applies a predicate on v.
func Specified[T any](v T) Filter[T] { return Filter[T]{value: v, specified: true} }

// Get returns the value and whether the filter is specified.
func (f Filter[T]) Get() (T, bool) { return f.value, f.specified }

func (f Filter[T]) IsSpecified() bool { return f.specified }

// Arg renders the filter as a query argument: nil when unspecified.
// A specified pointer filter holding nil also renders as nil, so callers that
// must tell the two apart pass IsSpecified alongside.
func (f Filter[T]) Arg() any {
	if !f.specified {
		return nil
	}
	return f.value
}
