package query

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrInvalidCriteria marks criteria that cannot be sent to the database.
var ErrInvalidCriteria = errors.New("invalid find criteria")

// Operator is the comparison applied by a Condition.
type Operator string

const (
	OpEqual        Operator = "eq"
	OpNotEqual     Operator = "ne"
	OpLess         Operator = "lt"
	OpLessEqual    Operator = "le"
	OpGreater      Operator = "gt"
	OpGreaterEqual Operator = "ge"
	OpLike         Operator = "like"
	OpIn           Operator = "in"
	OpIsNull       Operator = "is_null"
	OpNotNull      Operator = "not_null"
)

// Valid reports whether op is one of the known operators.
func (op Operator) Valid() bool {
	switch op {
	case OpEqual, OpNotEqual, OpLess, OpLessEqual, OpGreater, OpGreaterEqual,
		OpLike, OpIn, OpIsNull, OpNotNull:
		return true
	default:
		return false
	}
}

// ParseOperator accepts the canonical names case-insensitively.
func ParseOperator(s string) (Operator, bool) {
	op := Operator(strings.ToLower(strings.TrimSpace(s)))
	return op, op.Valid()
}

// Condition is one (field, operator, value) predicate. The stored procedure applies
// conditions in order; field names are validated on the database side.
type Condition struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

// FindCriteria describes a list request. It is built per call and never persisted.
type FindCriteria[K comparable] struct {
	SelectedKeys Filter[[]K]
	ExcludedKeys []K
	SearchText   Filter[string]
	Conditions   []Condition
	OrderBy      Filter[string]
	Ascending    bool
}

// NewCriteria returns criteria with no restriction, ascending order.
func NewCriteria[K comparable]() FindCriteria[K] {
	return FindCriteria[K]{Ascending: true}
}

// Select restricts the result to keys. Calling it with no keys yields an empty result.
func (c FindCriteria[K]) Select(keys ...K) FindCriteria[K] {
	prev, _ := c.SelectedKeys.Get()
	merged := make([]K, 0, len(prev)+len(keys))
	merged = append(merged, prev...)
	merged = append(merged, keys...)
	c.SelectedKeys = Specified(merged)
	return c
}

func (c FindCriteria[K]) Exclude(keys ...K) FindCriteria[K] {
	c.ExcludedKeys = append(append([]K(nil), c.ExcludedKeys...), keys...)
	return c
}

func (c FindCriteria[K]) Search(text string) FindCriteria[K] {
	c.SearchText = Specified(text)
	return c
}

func (c FindCriteria[K]) Where(field string, op Operator, value any) FindCriteria[K] {
	c.Conditions = append(append([]Condition(nil), c.Conditions...), Condition{Field: field, Operator: op, Value: value})
	return c
}

func (c FindCriteria[K]) Order(field string, ascending bool) FindCriteria[K] {
	c.OrderBy = Specified(field)
	c.Ascending = ascending
	return c
}

// Validate checks every condition for a field name and a known operator.
func (c FindCriteria[K]) Validate() error {
	for i, cond := range c.Conditions {
		if strings.TrimSpace(cond.Field) == "" {
			return fmt.Errorf("%w: condition %d has no field", ErrInvalidCriteria, i)
		}
		if !cond.Operator.Valid() {
			return fmt.Errorf("%w: condition %d on %q has unknown operator %q", ErrInvalidCriteria, i, cond.Field, cond.Operator)
		}
	}
	if f, ok := c.OrderBy.Get(); ok && strings.TrimSpace(f) == "" {
		return fmt.Errorf("%w: empty order by", ErrInvalidCriteria)
	}
	return nil
}

// SelectsNothing reports a present-but-empty key selection.
func (c FindCriteria[K]) SelectsNothing() bool {
	keys, ok := c.SelectedKeys.Get()
	return ok && len(keys) == 0
}

// NullExactMatch reports whether any equality condition on one of fields carries a nil value.
// Repositories use it for required exact-match filters, which can never match null.
func (c FindCriteria[K]) NullExactMatch(fields ...string) bool {
	for _, cond := range c.Conditions {
		if cond.Operator != OpEqual || !isNil(cond.Value) {
			continue
		}
		for _, f := range fields {
			if strings.EqualFold(cond.Field, f) {
				return true
			}
		}
	}
	return false
}

// isNil treats typed nils (a nil *uuid.UUID, a nil slice) the same as an untyped nil.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
