package settings

// Embedding nests a record of type N inside a record of type T. The nested
// fields are flattened into the parent's wire document, so a parent document
// carries them at the top level next to its own fields.
//
// On decode the nested record is created as soon as any of its keys is present.
// A nil nested record is left out when encoding.
type Embedding[T, N any] struct {
	Name   string
	Schema *Schema[N]
	Get    func(T) *N
	Set    func(*T, *N)

	// Group is the key the nested record is written under by EncodeWrite.
	// Wire renders that value; when either is unset the nested fields are
	// flattened into the write document.
	Group string
	Wire  func(N) any
}

func (e *Embedding[T, N]) name() string {
	return e.Name
}

func (e *Embedding[T, N]) fieldNames() []string {
	return e.Schema.FieldNames()
}

func (e *Embedding[T, N]) lookup() map[string][]string {
	return e.Schema.Lookup()
}

func (e *Embedding[T, N]) decodeInto(rec *T, doc map[string]any, writable bool) error {
	if !e.Schema.presentAny(doc) {
		return nil
	}

	var sub N
	if cur := e.Get(*rec); cur != nil {
		sub = *cur
	} else {
		sub = e.Schema.Defaults()
	}
	if err := e.Schema.apply(&sub, doc, writable); err != nil {
		return err
	}
	e.Set(rec, &sub)
	return nil
}

func (e *Embedding[T, N]) encodeInto(rec T, out map[string]any) error {
	sub := e.Get(rec)
	if sub == nil {
		return nil
	}
	doc, err := e.Schema.Encode(*sub)
	if err != nil {
		return err
	}
	for k, v := range doc {
		out[k] = v
	}
	return nil
}

func (e *Embedding[T, N]) encodeWriteInto(rec T, out map[string]any) error {
	sub := e.Get(rec)
	if sub == nil {
		return nil
	}
	if e.Group != "" && e.Wire != nil {
		out[e.Group] = e.Wire(*sub)
		return nil
	}
	doc, err := e.Schema.EncodeWrite(*sub)
	if err != nil {
		return err
	}
	for k, v := range doc {
		out[k] = v
	}
	return nil
}

func (e *Embedding[T, N]) equal(a, b T) bool {
	sa, sb := e.Get(a), e.Get(b)
	if sa == nil || sb == nil {
		return sa == nil && sb == nil
	}
	return e.Schema.Equal(*sa, *sb)
}

func (e *Embedding[T, N]) changes(a, b T) []Change {
	sa, sb := e.Get(a), e.Get(b)
	switch {
	case sa == nil && sb == nil:
		return nil
	case sa != nil && sb != nil:
		return e.Schema.Changes(*sa, *sb)
	}

	var from, to map[string]any
	if sa != nil {
		from, _ = e.Schema.Encode(*sa)
	}
	if sb != nil {
		to, _ = e.Schema.Encode(*sb)
	}
	var changes []Change
	for _, name := range e.Schema.FieldNames() {
		changes = append(changes, Change{Field: name, Old: from[name], New: to[name]})
	}
	return changes
}
