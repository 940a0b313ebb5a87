package settings

import (
	"context"
	"slices"

	logger "github.com/sirupsen/logrus"
)

// Change is one field whose wire value differs between two records
type Change struct {
	Field string
	Old   any
	New   any
}

// Merge returns a copy of base with the fields carried by overlay replaced.
// Overlay keys follow the same alias rules as Decode. Unknown keys and
// read-only fields are ignored. base is never modified.
func (s *Schema[T]) Merge(base T, overlay map[string]any) (T, error) {
	if unknown := s.Unknown(overlay); len(unknown) > 0 {
		logger.Debugf("%s: ignoring unknown keys %v", s.name, unknown)
	}

	rec := s.clone(base)
	if err := s.apply(&rec, overlay, true); err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

// Equal reports whether every canonical field of a and b holds the same value
func (s *Schema[T]) Equal(a, b T) bool {
	for _, f := range s.fields {
		if !valueEqual(f.Get(a), f.Get(b)) {
			return false
		}
	}
	for _, n := range s.nested {
		if !n.equal(a, b) {
			return false
		}
	}
	return true
}

// HasChanged reports whether desired differs from current on any field
func (s *Schema[T]) HasChanged(current, desired T) bool {
	return !s.Equal(current, desired)
}

// Changes lists the fields that differ between current and desired, in
// declaration order, with wire values
func (s *Schema[T]) Changes(current, desired T) []Change {
	var changes []Change
	for _, f := range s.fields {
		a, b := f.Get(current), f.Get(desired)
		if valueEqual(a, b) {
			continue
		}
		changes = append(changes, Change{
			Field: f.Name,
			Old:   wireValue(f.Kind, f.Enum, a),
			New:   wireValue(f.Kind, f.Enum, b),
		})
	}
	for _, n := range s.nested {
		changes = append(changes, n.changes(current, desired)...)
	}
	return changes
}

func (s *Schema[T]) clone(rec T) T {
	out := rec
	for _, f := range s.fields {
		if f.Kind == KindStringList {
			f.Set(&out, cloneValue(f.Get(rec)))
		}
	}
	return out
}

func valueEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	la, aok := a.([]string)
	lb, bok := b.([]string)
	if aok || bok {
		return aok && bok && slices.Equal(la, lb)
	}
	return a == b
}

// WriteFunc persists a desired record and returns the state the API reports
// back
type WriteFunc[T any] func(ctx context.Context, desired T) (T, error)

// Result is the outcome of one reconciliation
type Result[T any] struct {
	Current T
	Desired T
	Applied T
	Changed bool
	Written bool
	Changes []Change
}

// Reconcile merges overlay into current and writes the result when it differs
func Reconcile[T any](ctx context.Context, s *Schema[T], current T, overlay map[string]any, write WriteFunc[T]) (Result[T], error) {
	desired, err := s.Merge(current, overlay)
	if err != nil {
		return Result[T]{Current: current}, err
	}
	return Apply(ctx, s, current, desired, write)
}

// Apply writes desired only when it differs from current. A nil write
// reports the changes without persisting them.
func Apply[T any](ctx context.Context, s *Schema[T], current, desired T, write WriteFunc[T]) (Result[T], error) {
	res := Result[T]{
		Current: current,
		Desired: desired,
		Applied: current,
		Changes: s.Changes(current, desired),
	}
	res.Changed = len(res.Changes) > 0

	if !res.Changed {
		logger.Debugf("%s: no changes", s.name)
		return res, nil
	}
	if write == nil {
		return res, nil
	}

	applied, err := write(ctx, desired)
	if err != nil {
		return res, err
	}
	res.Applied = applied
	res.Written = true
	return res, nil
}
