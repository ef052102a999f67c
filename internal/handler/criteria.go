package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/maxviazov/dispensing-data-access/internal/query"
	"github.com/maxviazov/dispensing-data-access/internal/repository"
)

// parseListRequest builds find criteria and a page from the query string:
//
//	selected=k1,k2   restrict to keys; present but empty selects nothing
//	excluded=k1,k2   drop keys
//	search=text      free-text match
//	filter=f:op:v    repeatable; "in" takes a comma-separated value, is_null/not_null none
//	order_by=f&asc=false
//	page=2&page_size=25
//
// Every malformed parameter is reported, not just the first.
func parseListRequest(c *gin.Context) (repository.Criteria, query.Page, error) {
	criteria := query.NewCriteria[uuid.UUID]()
	var fe []repository.FieldError

	if raw, ok := c.GetQueryArray("selected"); ok {
		keys, err := parseKeys(raw)
		if err != nil {
			fe = append(fe, repository.FieldError{Field: "selected", Message: "must be comma-separated UUIDs"})
		}
		criteria = criteria.Select(keys...)
	}
	if raw, ok := c.GetQueryArray("excluded"); ok {
		keys, err := parseKeys(raw)
		if err != nil {
			fe = append(fe, repository.FieldError{Field: "excluded", Message: "must be comma-separated UUIDs"})
		}
		criteria = criteria.Exclude(keys...)
	}
	if s, ok := c.GetQuery("search"); ok && strings.TrimSpace(s) != "" {
		criteria = criteria.Search(s)
	}
	for _, f := range c.QueryArray("filter") {
		cond, ok := parseFilter(f)
		if !ok {
			fe = append(fe, repository.FieldError{Field: "filter", Message: "must be field:operator[:value], got " + strconv.Quote(f)})
			continue
		}
		criteria = criteria.Where(cond.Field, cond.Operator, cond.Value)
	}
	if by := strings.TrimSpace(c.Query("order_by")); by != "" {
		asc := true
		if raw, ok := c.GetQuery("asc"); ok {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				fe = append(fe, repository.FieldError{Field: "asc", Message: "must be a boolean"})
			} else {
				asc = v
			}
		}
		criteria = criteria.Order(by, asc)
	}

	var page query.Page
	if n, ok, err := intParam(c, "page"); err != nil {
		fe = append(fe, repository.FieldError{Field: "page", Message: "must be an integer"})
	} else if ok {
		page.Number = n
	}
	if n, ok, err := intParam(c, "page_size"); err != nil {
		fe = append(fe, repository.FieldError{Field: "page_size", Message: "must be an integer"})
	} else if ok {
		page.Size = n
	}

	if err := repository.NewInvalidInput(fe...); err != nil {
		return criteria, page, err
	}
	return criteria, page, nil
}

func parseKeys(raw []string) ([]uuid.UUID, error) {
	keys := []uuid.UUID{}
	for _, part := range raw {
		for _, s := range strings.Split(part, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			k, err := uuid.Parse(s)
			if err != nil {
				return nil, err
			}
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// parseFilter splits "field:op:value". The value keeps any further colons, so timestamps
// pass through intact.
func parseFilter(s string) (query.Condition, bool) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" {
		return query.Condition{}, false
	}
	op, ok := query.ParseOperator(parts[1])
	if !ok {
		return query.Condition{}, false
	}
	cond := query.Condition{Field: strings.TrimSpace(parts[0]), Operator: op}
	switch op {
	case query.OpIsNull, query.OpNotNull:
		return cond, len(parts) == 2 || parts[2] == ""
	}
	if len(parts) < 3 {
		return query.Condition{}, false
	}
	if op == query.OpIn {
		cond.Value = strings.Split(parts[2], ",")
	} else {
		cond.Value = parts[2]
	}
	return cond, true
}

func intParam(c *gin.Context, name string) (int, bool, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	return n, true, err
}
