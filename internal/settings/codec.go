package settings

import (
	"encoding/json"
	"fmt"
	"math"
)

// Defaults returns a record with every optional field set to its default
func (s *Schema[T]) Defaults() T {
	var rec T
	for i, f := range s.fields {
		if f.Required {
			continue
		}
		f.Set(&rec, cloneValue(s.defaults[i]))
	}
	return rec
}

// Decode builds a record from a wire document. Fields absent from the document
// take their defaults, keys the schema does not know are ignored, and a
// required field with no wire key present fails with a *DecodeError.
func (s *Schema[T]) Decode(doc map[string]any) (T, error) {
	for _, f := range s.fields {
		if !f.Required {
			continue
		}
		if !s.present(f, doc) {
			var zero T
			return zero, &DecodeError{Record: s.name, Field: f.Name, Reason: "required field is missing"}
		}
	}

	rec := s.Defaults()
	if err := s.apply(&rec, doc, false); err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

// Encode returns the full wire document of a record under canonical names.
// Enumerations are written as their lower-case token and embedded records are
// flattened into the document when present.
func (s *Schema[T]) Encode(rec T) (map[string]any, error) {
	out := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		v := f.Get(rec)
		if v == nil && f.Required {
			return nil, &EncodeError{Record: s.name, Field: f.Name, Reason: "required field is unset"}
		}
		out[f.Name] = wireValue(f.Kind, f.Enum, v)
	}
	for _, n := range s.nested {
		if err := n.encodeInto(rec, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// EncodeWrite returns the document sent to the API when writing a record.
// Read-only fields and unset nullable fields are left out and embedded records
// are written under their write group when they declare one.
func (s *Schema[T]) EncodeWrite(rec T) (map[string]any, error) {
	out := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		if f.ReadOnly {
			continue
		}
		v := f.Get(rec)
		if v == nil {
			if f.Required {
				return nil, &EncodeError{Record: s.name, Field: f.Name, Reason: "required field is unset"}
			}
			continue
		}
		out[f.Name] = wireValue(f.Kind, f.Enum, v)
	}
	for _, n := range s.nested {
		if err := n.encodeWriteInto(rec, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// apply writes every known key of doc into rec. Aliases are applied before
// identity keys so a canonical key wins over an alias that targets the same
// field. When writable is set, read-only fields keep their value.
func (s *Schema[T]) apply(rec *T, doc map[string]any, writable bool) error {
	for _, f := range s.fields {
		if writable && f.ReadOnly {
			continue
		}
		for _, alias := range f.Aliases {
			raw, ok := doc[alias.Key]
			if !ok {
				continue
			}
			value := raw
			if alias.Convert != nil {
				value = alias.Convert(raw)
			}
			if err := s.assign(rec, f, alias.Key, value); err != nil {
				return err
			}
		}
	}

	for _, f := range s.fields {
		if writable && f.ReadOnly {
			continue
		}
		raw, ok := doc[f.Name]
		if !ok {
			continue
		}
		if err := s.assign(rec, f, f.Name, raw); err != nil {
			return err
		}
	}

	for _, n := range s.nested {
		if err := n.decodeInto(rec, doc, writable); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema[T]) assign(rec *T, f Field[T], key string, raw any) error {
	if raw == nil && !f.Nullable {
		if f.Required {
			return &DecodeError{Record: s.name, Field: f.Name, Key: key, Value: raw, Reason: "must not be null"}
		}
		f.Set(rec, cloneValue(s.defaultOf(f.Name)))
		return nil
	}

	v, err := normalize(f.Kind, f.Enum, f.Nullable, raw)
	if err != nil {
		return &DecodeError{Record: s.name, Field: f.Name, Key: key, Value: raw, Reason: err.Error()}
	}
	f.Set(rec, v)
	return nil
}

func (s *Schema[T]) defaultOf(name string) any {
	for i, f := range s.fields {
		if f.Name == name {
			return s.defaults[i]
		}
	}
	return nil
}

func (s *Schema[T]) present(f Field[T], doc map[string]any) bool {
	if _, ok := doc[f.Name]; ok {
		return true
	}
	for _, alias := range f.Aliases {
		if _, ok := doc[alias.Key]; ok {
			return true
		}
	}
	return false
}

// presentAny reports whether doc carries any key the schema knows
func (s *Schema[T]) presentAny(doc map[string]any) bool {
	for key := range s.table {
		if _, ok := doc[key]; ok {
			return true
		}
	}
	return false
}

// normalize checks a value against a field kind and returns its canonical form.
// Any integer or integral float is accepted for integers and enumeration
// tokens are matched case-insensitively; everything else must match exactly.
func normalize(kind Kind, enum *Enum, nullable bool, v any) (any, error) {
	if v == nil {
		if nullable {
			return nil, nil
		}
		return zeroValue(kind, enum), nil
	}

	switch kind {
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case KindInt:
		if n, ok := toInt(v); ok {
			return n, nil
		}
	case KindEnum:
		if s, ok := v.(string); ok {
			return enum.Parse(s)
		}
	case KindStringList:
		switch list := v.(type) {
		case []string:
			return append([]string{}, list...), nil
		case []any:
			out := make([]string, 0, len(list))
			for i, item := range list {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("item %d is %T, expected string", i, item)
				}
				out = append(out, s)
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("expected %s, got %T", kind, v)
}

func zeroValue(kind Kind, enum *Enum) any {
	switch kind {
	case KindString:
		return ""
	case KindBool:
		return false
	case KindInt:
		return 0
	case KindEnum:
		if len(enum.members) > 0 {
			return enum.members[0]
		}
		return ""
	case KindStringList:
		return []string{}
	}
	return nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float32:
		return toInt(float64(n))
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}

func wireValue(kind Kind, enum *Enum, v any) any {
	if v == nil {
		return nil
	}
	switch kind {
	case KindEnum:
		if s, ok := v.(string); ok {
			return enum.Token(s)
		}
	case KindStringList:
		if list, ok := v.([]string); ok {
			return append([]string{}, list...)
		}
	}
	return v
}

func cloneValue(v any) any {
	if list, ok := v.([]string); ok {
		return append([]string{}, list...)
	}
	return v
}
