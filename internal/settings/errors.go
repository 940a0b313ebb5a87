package settings

import "fmt"

// SchemaError represents an invalid schema declaration. It is raised while the
// schema is being built, before any record is decoded or encoded.
type SchemaError struct {
	Record string
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid schema for %s: field '%s' %s", e.Record, e.Field, e.Reason)
}

// DecodeError represents a wire value that cannot populate a record field
type DecodeError struct {
	Record string
	Field  string
	Key    string
	Value  any
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Key != "" && e.Key != e.Field {
		return fmt.Sprintf("cannot decode %s.%s from '%s' (%v): %s", e.Record, e.Field, e.Key, e.Value, e.Reason)
	}
	return fmt.Sprintf("cannot decode %s.%s (%v): %s", e.Record, e.Field, e.Value, e.Reason)
}

// EncodeError represents a record that is in a state that cannot be serialized
type EncodeError struct {
	Record string
	Field  string
	Reason string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("cannot encode %s.%s: %s", e.Record, e.Field, e.Reason)
}
