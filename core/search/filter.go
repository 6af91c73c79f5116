// ABOUTME: Search filter derives a query-filtered view of session items
// ABOUTME: Pure case-insensitive substring matching over named string fields

package search

import (
	"strings"
	"unicode/utf8"

	coreerrors "hackerhome-api/core/errors"
)

// MaxQueryLength bounds queries accepted by NormalizeQuery
const MaxQueryLength = 100

// DefaultFields are matched when a caller names no fields
var DefaultFields = []string{"title", "description", "author"}

// Searchable exposes item fields by name
type Searchable interface {
	Field(name string) any
}

// Filter returns the items where at least one of fields holds a string
// containing query, ignoring case. An empty query returns items unchanged.
// Non-string field values never match. Filter does not modify items.
func Filter[T Searchable](items []T, fields []string, query string) []T {
	if query == "" {
		return items
	}

	needle := strings.ToLower(query)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if matches(item, fields, needle) {
			out = append(out, item)
		}
	}
	return out
}

func matches(item Searchable, fields []string, needle string) bool {
	for _, field := range fields {
		s, ok := item.Field(field).(string)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

// NormalizeQuery trims surrounding whitespace and validates the length
func NormalizeQuery(query string) (string, error) {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) > MaxQueryLength {
		return "", &coreerrors.ValidationError{
			Field:   "q",
			Message: "search query cannot exceed 100 characters",
		}
	}
	return q, nil
}

// ParseFields splits a comma separated field list, falling back to DefaultFields
func ParseFields(raw string) []string {
	var fields []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, strings.ToLower(f))
		}
	}
	if len(fields) == 0 {
		return DefaultFields
	}
	return fields
}
