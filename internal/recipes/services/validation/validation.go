package validation

import (
	"sort"
	"strings"
)

// NonFieldKey is where errors not tied to a single field land, the way
// DRF-style APIs report bad login payloads.
const NonFieldKey = "non_field_errors"

// Error carries field-level messages and is surfaced as a 400 with the
// Fields map as the response body.
type Error struct {
	Fields map[string][]string
}

func New(field, msg string) *Error {
	e := &Error{Fields: make(map[string][]string)}

	return e.Add(field, msg)
}

func NonField(msg string) *Error {
	return New(NonFieldKey, msg)
}

func (e *Error) Add(field, msg string) *Error {
	e.Fields[field] = append(e.Fields[field], msg)

	return e
}

func (e *Error) Empty() bool {
	return len(e.Fields) == 0
}

func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}

	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e.Fields[f], "; "))
	}

	return "validation error: " + strings.Join(parts, ", ")
}
