// Package settings maps GitHub API payloads onto typed settings records.
//
// A Schema declares, for one record type, every canonical field together with
// the wire keys that may populate it. The same schema drives decoding, encoding,
// partial updates and change detection, so a record type is described once.
package settings

import (
	"fmt"
	"sort"
)

// Kind is the declared type of a settings field
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindEnum
	KindStringList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindEnum:
		return "enumeration"
	case KindStringList:
		return "list of strings"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Converter maps a value read under an alias to the canonical field value.
// Converters are only applied for aliases, never for the field's own name.
type Converter func(any) any

// Alias is a wire key that populates a field
type Alias struct {
	Key     string
	Convert Converter
}

// Field describes one canonical field of the record type T.
//
// Get and Set exchange normalized values: string (or nil when Nullable), bool,
// int, the enum member name, or []string.
type Field[T any] struct {
	Name     string
	Kind     Kind
	Enum     *Enum
	Aliases  []Alias
	Default  any
	Required bool
	Nullable bool
	ReadOnly bool
	Get      func(T) any
	Set      func(*T, any)
}

// Nested is a sub-record embedded in a parent schema. It is implemented by
// *Embedding.
type Nested[T any] interface {
	name() string
	fieldNames() []string
	lookup() map[string][]string
	decodeInto(rec *T, doc map[string]any, writable bool) error
	encodeInto(rec T, out map[string]any) error
	encodeWriteInto(rec T, out map[string]any) error
	equal(a, b T) bool
	changes(a, b T) []Change
}

// Schema is the field-mapping table for one record type
type Schema[T any] struct {
	name     string
	fields   []Field[T]
	defaults []any
	nested   []Nested[T]
	table    map[string][]string
}

// NewSchema validates the field declarations and builds the wire lookup table.
// Duplicate canonical names, including names shared with embedded records,
// fail with a *SchemaError.
func NewSchema[T any](name string, fields []Field[T], nested ...Nested[T]) (*Schema[T], error) {
	s := &Schema[T]{
		name:     name,
		fields:   fields,
		defaults: make([]any, len(fields)),
		nested:   nested,
		table:    make(map[string][]string),
	}

	seen := make(map[string]bool)
	for i := range fields {
		f := &fields[i]
		if f.Name == "" {
			return nil, &SchemaError{Record: name, Field: fmt.Sprintf("#%d", i), Reason: "has no name"}
		}
		if seen[f.Name] {
			return nil, &SchemaError{Record: name, Field: f.Name, Reason: "is declared more than once"}
		}
		seen[f.Name] = true

		if f.Get == nil || f.Set == nil {
			return nil, &SchemaError{Record: name, Field: f.Name, Reason: "needs both an accessor and a mutator"}
		}
		if f.Kind == KindEnum && f.Enum == nil {
			return nil, &SchemaError{Record: name, Field: f.Name, Reason: "is an enumeration without members"}
		}
		if f.Required && f.Default != nil {
			return nil, &SchemaError{Record: name, Field: f.Name, Reason: "is required but declares a default"}
		}

		if !f.Required {
			def, err := normalize(f.Kind, f.Enum, f.Nullable, f.Default)
			if err != nil {
				return nil, &SchemaError{Record: name, Field: f.Name, Reason: fmt.Sprintf("has an invalid default: %v", err)}
			}
			s.defaults[i] = def
		}

		s.table[f.Name] = append(s.table[f.Name], f.Name)
		for _, alias := range f.Aliases {
			if alias.Key == "" {
				return nil, &SchemaError{Record: name, Field: f.Name, Reason: "declares an alias with an empty key"}
			}
			if alias.Key == f.Name {
				return nil, &SchemaError{Record: name, Field: f.Name, Reason: "declares itself as an alias"}
			}
			s.table[alias.Key] = append(s.table[alias.Key], f.Name)
		}
	}

	for _, n := range nested {
		if seen[n.name()] {
			return nil, &SchemaError{Record: name, Field: n.name(), Reason: "is declared more than once"}
		}
		seen[n.name()] = true
		for _, sub := range n.fieldNames() {
			if seen[sub] {
				return nil, &SchemaError{Record: name, Field: sub, Reason: "is declared more than once"}
			}
			seen[sub] = true
		}
		for key, targets := range n.lookup() {
			s.table[key] = append(s.table[key], targets...)
		}
	}

	return s, nil
}

// MustSchema is like NewSchema but panics on an invalid declaration. It is
// intended for package-level schema variables.
func MustSchema[T any](name string, fields []Field[T], nested ...Nested[T]) *Schema[T] {
	s, err := NewSchema(name, fields, nested...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the record type name
func (s *Schema[T]) Name() string {
	return s.name
}

// FieldNames returns the canonical field names, embedded fields last
func (s *Schema[T]) FieldNames() []string {
	names := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		names = append(names, f.Name)
	}
	for _, n := range s.nested {
		names = append(names, n.fieldNames()...)
	}
	return names
}

// Lookup returns a copy of the wire key table. Each wire key maps to the
// ordered canonical fields it populates.
func (s *Schema[T]) Lookup() map[string][]string {
	out := make(map[string][]string, len(s.table))
	for k, v := range s.table {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Known reports whether a wire key populates any field
func (s *Schema[T]) Known(key string) bool {
	_, ok := s.table[key]
	return ok
}

// Unknown returns the sorted keys of doc that the schema ignores
func (s *Schema[T]) Unknown(doc map[string]any) []string {
	var keys []string
	for k := range doc {
		if !s.Known(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
