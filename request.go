package pandey

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/render"
)

const (
	DefaultPageLimit = 12
	MaxPageLimit     = 100
)

// ParsePagination reads the page and limit query parameters.
func ParsePagination(r *http.Request) (ListQuery, error) {
	query := ListQuery{Page: 1, Limit: DefaultPageLimit}

	q := r.URL.Query()

	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return query, Invalid("page", "must be a positive integer")
		}
		query.Page = page
	}

	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > MaxPageLimit {
			return query, Invalid("limit", fmt.Sprintf("must be between 1 and %d", MaxPageLimit))
		}
		query.Limit = limit
	}

	return query, nil
}

// DecodeJSON decodes the request body into v.
func DecodeJSON(r *http.Request, v any) error {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		return Invalid("body", fmt.Sprintf("malformed JSON: %v", err))
	}

	return nil
}

// QueryUint parses an optional unsigned integer query parameter.
func QueryUint(r *http.Request, name string) (*uint, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, Invalid(name, "must be a positive integer")
	}

	id := uint(v)

	return &id, nil
}

// QueryFloat parses an optional float query parameter.
func QueryFloat(r *http.Request, name string) (*float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, Invalid(name, "must be a non-negative number")
	}

	return &v, nil
}

// QueryBool parses an optional boolean query parameter.
func QueryBool(r *http.Request, name string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, Invalid(name, "must be true or false")
	}

	return &v, nil
}

// ParseID parses a path identifier.
func ParseID(raw string) (uint, error) {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, Invalid("id", "must be a positive integer")
	}

	return uint(v), nil
}

// LikePattern wraps s for a substring ILIKE match, escaping wildcards.
func LikePattern(s string) string {
	return "%" + strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s) + "%"
}
