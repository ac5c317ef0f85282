// Package validation carries field-level form errors, whether produced locally
// before submission or returned by the backend as a field -> messages map.
package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// NonField is the key the backend uses for errors not tied to one field.
const NonField = "non_field_errors"

// ErrInvalid is matched by every *Error via errors.Is.
var ErrInvalid = errors.New("validation failed")

// Fields maps a field name to its messages.
type Fields map[string][]string

// Error is a set of field errors.
type Error struct {
	Fields Fields
}

// Error renders the fields in a stable order.
func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Is makes errors.Is(err, ErrInvalid) true for any *Error.
func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

// Has reports whether field has at least one message.
func (e *Error) Has(field string) bool {
	return len(e.Fields[field]) > 0
}

// Builder accumulates field errors.
type Builder struct {
	fields Fields
}

// Add records a message for field.
func (b *Builder) Add(field, format string, args ...any) {
	if b.fields == nil {
		b.fields = Fields{}
	}
	b.fields[field] = append(b.fields[field], fmt.Sprintf(format, args...))
}

// Check records the message when ok is false.
func (b *Builder) Check(ok bool, field, format string, args ...any) {
	if !ok {
		b.Add(field, format, args...)
	}
}

// Err returns the accumulated *Error, or nil when nothing was recorded.
func (b *Builder) Err() error {
	if len(b.fields) == 0 {
		return nil
	}
	return &Error{Fields: b.fields}
}

// FieldsOf extracts the field map from err, if it is (or wraps) a *Error.
func FieldsOf(err error) (Fields, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Fields, true
	}
	return nil, false
}
