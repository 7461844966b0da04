package shared

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// NonFieldKey is the key under which whole-document violations are reported.
const NonFieldKey = "__all__"

// Common validation messages shared by entity and schema validation.
const (
	MsgRequired       = "Field is required"
	MsgStringTooLong  = "String value is too long"
	MsgStringTooShort = "String value is too short"
	MsgRegexMismatch  = "String value did not match validation regex"
	MsgDecimalTooLow  = "Decimal value is too small"
	MsgIntegerTooLow  = "Integer value is too small"
)

// ValidationError collects field-scoped and whole-document violations.
//
// A field carries exactly one entry: a plain message, a per-index message set
// (for list fields), or a nested ValidationError (for embedded documents).
// The first message recorded for a field wins.
type ValidationError struct {
	fields  map[string]string
	indexed map[string]map[int]string
	nested  map[string]*ValidationError
}

// NewValidationError creates an empty validation error
func NewValidationError() *ValidationError {
	return &ValidationError{
		fields:  make(map[string]string),
		indexed: make(map[string]map[int]string),
		nested:  make(map[string]*ValidationError),
	}
}

// FieldError creates a validation error holding a single field message
func FieldError(field, message string) *ValidationError {
	v := NewValidationError()
	v.Add(field, message)
	return v
}

// Add records a message for field unless the field already has one
func (v *ValidationError) Add(field, message string) {
	if v.Has(field) {
		return
	}
	v.fields[field] = message
}

// AddIndexed records a message for one element of a list field
func (v *ValidationError) AddIndexed(field string, index int, message string) {
	if _, ok := v.fields[field]; ok {
		return
	}
	if _, ok := v.nested[field]; ok {
		return
	}
	items, ok := v.indexed[field]
	if !ok {
		items = make(map[int]string)
		v.indexed[field] = items
	}
	if _, exists := items[index]; !exists {
		items[index] = message
	}
}

// AddNested records the violations of an embedded document under field.
// Empty or nil errors are ignored.
func (v *ValidationError) AddNested(field string, inner *ValidationError) {
	if inner == nil || inner.Empty() || v.Has(field) {
		return
	}
	v.nested[field] = inner
}

// AddNonField records a whole-document violation
func (v *ValidationError) AddNonField(message string) {
	v.Add(NonFieldKey, message)
}

// Has reports whether field already has a violation
func (v *ValidationError) Has(field string) bool {
	if _, ok := v.fields[field]; ok {
		return true
	}
	if _, ok := v.indexed[field]; ok {
		return true
	}
	_, ok := v.nested[field]
	return ok
}

// Message returns the plain message recorded for field
func (v *ValidationError) Message(field string) (string, bool) {
	msg, ok := v.fields[field]
	return msg, ok
}

// Indexed returns the per-index messages recorded for a list field
func (v *ValidationError) Indexed(field string) map[int]string {
	return v.indexed[field]
}

// Nested returns the embedded document violations recorded for field
func (v *ValidationError) Nested(field string) *ValidationError {
	return v.nested[field]
}

// Fields returns the sorted names of all fields with violations
func (v *ValidationError) Fields() []string {
	names := make([]string, 0, len(v.fields)+len(v.indexed)+len(v.nested))
	for k := range v.fields {
		names = append(names, k)
	}
	for k := range v.indexed {
		names = append(names, k)
	}
	for k := range v.nested {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether no violation was recorded
func (v *ValidationError) Empty() bool {
	return v == nil || (len(v.fields) == 0 && len(v.indexed) == 0 && len(v.nested) == 0)
}

// Err returns v as an error, or nil when nothing was recorded
func (v *ValidationError) Err() error {
	if v.Empty() {
		return nil
	}
	return v
}

// Merge copies every violation of other into v, keeping existing entries
func (v *ValidationError) Merge(other *ValidationError) {
	if other.Empty() {
		return
	}
	for k, msg := range other.fields {
		v.Add(k, msg)
	}
	for k, items := range other.indexed {
		for i, msg := range items {
			v.AddIndexed(k, i, msg)
		}
	}
	for k, inner := range other.nested {
		v.AddNested(k, inner)
	}
}

// ToMap returns the violations as field -> message, with list fields
// rendered as index -> message and embedded documents as nested maps.
func (v *ValidationError) ToMap() map[string]any {
	out := make(map[string]any, len(v.fields)+len(v.indexed)+len(v.nested))
	for k, msg := range v.fields {
		out[k] = msg
	}
	for k, items := range v.indexed {
		m := make(map[string]string, len(items))
		for i, msg := range items {
			m[strconv.Itoa(i)] = msg
		}
		out[k] = m
	}
	for k, inner := range v.nested {
		out[k] = inner.ToMap()
	}
	return out
}

// ToListMap returns the violations with every message wrapped in a list,
// the shape returned to HTTP clients.
func (v *ValidationError) ToListMap() map[string]any {
	out := make(map[string]any, len(v.fields)+len(v.indexed)+len(v.nested))
	for k, msg := range v.fields {
		out[k] = []string{msg}
	}
	for k, items := range v.indexed {
		m := make(map[string][]string, len(items))
		for i, msg := range items {
			m[strconv.Itoa(i)] = []string{msg}
		}
		out[k] = m
	}
	for k, inner := range v.nested {
		out[k] = inner.ToListMap()
	}
	return out
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	return "validation failed (" + v.describe() + ")"
}

func (v *ValidationError) describe() string {
	names := v.Fields()
	parts := make([]string, 0, len(names))
	for _, k := range names {
		switch {
		case v.fields[k] != "":
			parts = append(parts, fmt.Sprintf("%s: %s", k, v.fields[k]))
		case v.indexed[k] != nil:
			idx := make([]int, 0, len(v.indexed[k]))
			for i := range v.indexed[k] {
				idx = append(idx, i)
			}
			sort.Ints(idx)
			for _, i := range idx {
				parts = append(parts, fmt.Sprintf("%s.%d: %s", k, i, v.indexed[k][i]))
			}
		case v.nested[k] != nil:
			parts = append(parts, fmt.Sprintf("%s: {%s}", k, v.nested[k].describe()))
		}
	}
	return strings.Join(parts, "; ")
}
