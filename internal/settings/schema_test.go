package settings_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callmegreg/gh-migrate-settings/internal/settings"
)

var shade = settings.NewEnum("Shade", "LIGHT", "DARK")

type lamp struct {
	Label  *string
	On     bool
	Watts  int
	Shade  string
	Tags   []string
	Serial string
	Bulb   *bulb
}

type bulb struct {
	Smart  bool
	Dimmer bool
}

var bulbSchema = settings.MustSchema("Bulb", []settings.Field[bulb]{
	{
		Name: "smart", Kind: settings.KindBool,
		Aliases: []settings.Alias{{Key: "bulb_type", Convert: settings.Equals("smart")}},
		Get:     func(b bulb) any { return b.Smart },
		Set:     func(b *bulb, v any) { b.Smart = settings.ToBool(v) },
	},
	{
		Name: "dimmer", Kind: settings.KindBool,
		Get: func(b bulb) any { return b.Dimmer },
		Set: func(b *bulb, v any) { b.Dimmer = settings.ToBool(v) },
	},
})

func lampFields() []settings.Field[lamp] {
	return []settings.Field[lamp]{
		{
			Name: "label", Kind: settings.KindString, Nullable: true,
			Aliases: []settings.Alias{{Key: "title"}},
			Get:     func(l lamp) any { return settings.StringPtr(l.Label) },
			Set:     func(l *lamp, v any) { l.Label = settings.ToStringPtr(v) },
		},
		{
			Name: "on", Kind: settings.KindBool, Default: true,
			Aliases: []settings.Alias{
				{Key: "power", Convert: settings.NotEquals("off")},
				{Key: "state", Convert: settings.Equals("lit")},
			},
			Get: func(l lamp) any { return l.On },
			Set: func(l *lamp, v any) { l.On = settings.ToBool(v) },
		},
		{
			Name: "watts", Kind: settings.KindInt, Default: 40,
			Get: func(l lamp) any { return l.Watts },
			Set: func(l *lamp, v any) { l.Watts = settings.ToInt(v) },
		},
		{
			Name: "shade", Kind: settings.KindEnum, Enum: shade, Default: "LIGHT",
			Get: func(l lamp) any { return l.Shade },
			Set: func(l *lamp, v any) { l.Shade = settings.ToString(v) },
		},
		{
			Name: "tags", Kind: settings.KindStringList,
			Get: func(l lamp) any { return l.Tags },
			Set: func(l *lamp, v any) { l.Tags = settings.ToStrings(v) },
		},
		{
			Name: "serial", Kind: settings.KindString, ReadOnly: true,
			Get: func(l lamp) any { return l.Serial },
			Set: func(l *lamp, v any) { l.Serial = settings.ToString(v) },
		},
	}
}

func bulbEmbedding() *settings.Embedding[lamp, bulb] {
	return &settings.Embedding[lamp, bulb]{
		Name:   "bulb",
		Schema: bulbSchema,
		Get:    func(l lamp) *bulb { return l.Bulb },
		Set:    func(l *lamp, b *bulb) { l.Bulb = b },
		Group:  "fixture",
		Wire: func(b bulb) any {
			return map[string]any{"smart": settings.Status(b.Smart)}
		},
	}
}

var lampSchema = settings.MustSchema("Lamp", lampFields(), bulbEmbedding())

func TestNewSchema(t *testing.T) {
	t.Parallel()

	t.Run("should build the wire lookup table with aliases and embedded fields", func(t *testing.T) {
		t.Parallel()

		// when
		table := lampSchema.Lookup()

		// then
		assert.Equal(t, []string{"label"}, table["title"])
		assert.Equal(t, []string{"on"}, table["power"])
		assert.Equal(t, []string{"on"}, table["on"])
		assert.Equal(t, []string{"smart"}, table["bulb_type"])
		assert.Equal(t, []string{"dimmer"}, table["dimmer"])
		assert.NotContains(t, table, "bulb")
	})

	t.Run("should reject duplicate canonical names", func(t *testing.T) {
		t.Parallel()

		// given
		fields := lampFields()
		fields = append(fields, fields[1])

		// when
		_, err := settings.NewSchema("Lamp", fields)

		// then
		var schemaErr *settings.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, "on", schemaErr.Field)
	})

	t.Run("should reject names shared with an embedded record", func(t *testing.T) {
		t.Parallel()

		// given
		fields := lampFields()
		fields = append(fields, settings.Field[lamp]{
			Name: "dimmer", Kind: settings.KindBool,
			Get: func(l lamp) any { return false },
			Set: func(l *lamp, v any) {},
		})

		// when
		_, err := settings.NewSchema("Lamp", fields, bulbEmbedding())

		// then
		var schemaErr *settings.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, "dimmer", schemaErr.Field)
	})

	t.Run("should reject an empty alias key", func(t *testing.T) {
		t.Parallel()

		// given
		fields := lampFields()
		fields[0].Aliases = []settings.Alias{{Key: ""}}

		// when
		_, err := settings.NewSchema("Lamp", fields)

		// then
		var schemaErr *settings.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Contains(t, err.Error(), "empty key")
	})

	t.Run("should reject a default that does not match the field kind", func(t *testing.T) {
		t.Parallel()

		// given
		fields := lampFields()
		fields[2].Default = "forty"

		// when
		_, err := settings.NewSchema("Lamp", fields)

		// then
		var schemaErr *settings.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, "watts", schemaErr.Field)
	})

	t.Run("should panic from MustSchema on an invalid declaration", func(t *testing.T) {
		t.Parallel()

		// given
		fields := lampFields()
		fields[3].Enum = nil

		// when / then
		assert.Panics(t, func() { settings.MustSchema("Lamp", fields) })
	})
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("should fill defaults for absent fields", func(t *testing.T) {
		t.Parallel()

		// when
		rec, err := lampSchema.Decode(map[string]any{})

		// then
		require.NoError(t, err)
		assert.Nil(t, rec.Label)
		assert.True(t, rec.On)
		assert.Equal(t, 40, rec.Watts)
		assert.Equal(t, "LIGHT", rec.Shade)
		assert.Equal(t, []string{}, rec.Tags)
		assert.Nil(t, rec.Bulb)
	})

	t.Run("should apply alias converters", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name     string
			doc      map[string]any
			expected bool
		}{
			{name: "power off", doc: map[string]any{"power": "off"}, expected: false},
			{name: "power dimmed", doc: map[string]any{"power": "dimmed"}, expected: true},
			{name: "state lit", doc: map[string]any{"state": "LIT"}, expected: true},
			{name: "state dark", doc: map[string]any{"state": "dark"}, expected: false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec, err := lampSchema.Decode(tt.doc)
				require.NoError(t, err)
				assert.Equal(t, tt.expected, rec.On)
			})
		}
	})

	t.Run("should let the canonical key win over an alias", func(t *testing.T) {
		t.Parallel()

		// given
		doc := map[string]any{"power": "off", "on": true, "title": "alias", "label": "canonical"}

		// when
		rec, err := lampSchema.Decode(doc)

		// then
		require.NoError(t, err)
		assert.True(t, rec.On)
		require.NotNil(t, rec.Label)
		assert.Equal(t, "canonical", *rec.Label)
	})

	t.Run("should ignore unknown keys", func(t *testing.T) {
		t.Parallel()

		// given
		doc := map[string]any{"watts": 60, "url": "https://example.com", "id": 7}

		// when
		rec, err := lampSchema.Decode(doc)

		// then
		require.NoError(t, err)
		assert.Equal(t, 60, rec.Watts)
		assert.Equal(t, []string{"id", "url"}, lampSchema.Unknown(doc))
	})

	t.Run("should parse enumerations case-insensitively", func(t *testing.T) {
		t.Parallel()

		for _, token := range []string{"dark", "DARK", "Dark"} {
			rec, err := lampSchema.Decode(map[string]any{"shade": token})
			require.NoError(t, err)
			assert.Equal(t, "DARK", rec.Shade)
		}
	})

	t.Run("should reject unknown enumeration tokens", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := lampSchema.Decode(map[string]any{"shade": "dim"})

		// then
		var decodeErr *settings.DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, "shade", decodeErr.Field)
		assert.Contains(t, err.Error(), "light, dark")
	})

	t.Run("should reject values of the wrong kind", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name  string
			doc   map[string]any
			field string
		}{
			{name: "string for bool", doc: map[string]any{"on": "yes"}, field: "on"},
			{name: "fractional integer", doc: map[string]any{"watts": 40.5}, field: "watts"},
			{name: "number for string", doc: map[string]any{"label": 3}, field: "label"},
			{name: "mixed list", doc: map[string]any{"tags": []any{"a", 1}}, field: "tags"},
			{name: "converted alias", doc: map[string]any{"power": 1}, field: "on"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := lampSchema.Decode(tt.doc)
				var decodeErr *settings.DecodeError
				require.ErrorAs(t, err, &decodeErr)
				assert.Equal(t, tt.field, decodeErr.Field)
			})
		}
	})

	t.Run("should accept JSON numbers for integers", func(t *testing.T) {
		t.Parallel()

		// given
		var doc map[string]any
		require.NoError(t, json.Unmarshal([]byte(`{"watts": 75}`), &doc))

		// when
		rec, err := lampSchema.Decode(doc)

		// then
		require.NoError(t, err)
		assert.Equal(t, 75, rec.Watts)
	})

	t.Run("should keep null on nullable fields and default it elsewhere", func(t *testing.T) {
		t.Parallel()

		// when
		rec, err := lampSchema.Decode(map[string]any{"label": nil, "watts": nil})

		// then
		require.NoError(t, err)
		assert.Nil(t, rec.Label)
		assert.Equal(t, 40, rec.Watts)
	})

	t.Run("should create the embedded record when any of its keys is present", func(t *testing.T) {
		t.Parallel()

		// when
		rec, err := lampSchema.Decode(map[string]any{"dimmer": true})

		// then
		require.NoError(t, err)
		require.NotNil(t, rec.Bulb)
		assert.True(t, rec.Bulb.Dimmer)
		assert.False(t, rec.Bulb.Smart)
	})

	t.Run("should fail when a required field is missing", func(t *testing.T) {
		t.Parallel()

		// given
		fields := lampFields()
		fields[5].Required = true
		schema := settings.MustSchema("Lamp", fields)

		// when
		_, err := schema.Decode(map[string]any{"watts": 10})

		// then
		var decodeErr *settings.DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, "serial", decodeErr.Field)
	})
}

func TestEncode(t *testing.T) {
	t.Parallel()

	t.Run("should reproduce a canonical document", func(t *testing.T) {
		t.Parallel()

		// given
		wire := `{"label":"desk","on":false,"watts":60,"shade":"dark","tags":["a","b"],"serial":"X1","smart":true,"dimmer":false}`
		var doc map[string]any
		require.NoError(t, json.Unmarshal([]byte(wire), &doc))

		// when
		rec, err := lampSchema.Decode(doc)
		require.NoError(t, err)
		out, err := lampSchema.Encode(rec)
		require.NoError(t, err)

		// then
		encoded, err := json.Marshal(out)
		require.NoError(t, err)
		assert.JSONEq(t, wire, string(encoded))
	})

	t.Run("should omit an unset embedded record", func(t *testing.T) {
		t.Parallel()

		// when
		out, err := lampSchema.Encode(lampSchema.Defaults())

		// then
		require.NoError(t, err)
		assert.NotContains(t, out, "smart")
		assert.NotContains(t, out, "dimmer")
		assert.Contains(t, out, "label")
		assert.Nil(t, out["label"])
	})

	t.Run("should write the embedded record under its group and skip read-only fields", func(t *testing.T) {
		t.Parallel()

		// given
		rec := lampSchema.Defaults()
		rec.Serial = "X1"
		rec.Bulb = &bulb{Smart: true}

		// when
		out, err := lampSchema.EncodeWrite(rec)

		// then
		require.NoError(t, err)
		assert.NotContains(t, out, "serial")
		assert.NotContains(t, out, "label")
		assert.NotContains(t, out, "smart")
		assert.Equal(t, map[string]any{"smart": map[string]any{"status": "enabled"}}, out["fixture"])
	})

	t.Run("should fail on an unset required field", func(t *testing.T) {
		t.Parallel()

		// given
		fields := lampFields()
		fields[0].Required = true
		schema := settings.MustSchema("Lamp", fields)

		// when
		_, err := schema.Encode(schema.Defaults())

		// then
		var encodeErr *settings.EncodeError
		require.ErrorAs(t, err, &encodeErr)
		assert.Equal(t, "label", encodeErr.Field)
	})
}

func TestMerge(t *testing.T) {
	t.Parallel()

	t.Run("should replace only the fields in the overlay", func(t *testing.T) {
		t.Parallel()

		// given
		base := lampSchema.Defaults()
		base.Tags = []string{"a"}

		// when
		merged, err := lampSchema.Merge(base, map[string]any{"watts": 100, "unknown": true})

		// then
		require.NoError(t, err)
		assert.Equal(t, 100, merged.Watts)
		assert.Equal(t, base.On, merged.On)
		assert.Equal(t, 40, base.Watts)
		assert.True(t, lampSchema.HasChanged(base, merged))
	})

	t.Run("should not share lists with the base record", func(t *testing.T) {
		t.Parallel()

		// given
		base := lampSchema.Defaults()
		base.Tags = []string{"a"}

		// when
		merged, err := lampSchema.Merge(base, map[string]any{})
		require.NoError(t, err)
		merged.Tags[0] = "b"

		// then
		assert.Equal(t, "a", base.Tags[0])
	})

	t.Run("should report no change when the overlay matches", func(t *testing.T) {
		t.Parallel()

		// given
		base := lampSchema.Defaults()

		// when
		merged, err := lampSchema.Merge(base, map[string]any{"watts": 40, "shade": "light"})

		// then
		require.NoError(t, err)
		assert.False(t, lampSchema.HasChanged(base, merged))
		assert.Empty(t, lampSchema.Changes(base, merged))
	})

	t.Run("should keep read-only fields of the base record", func(t *testing.T) {
		t.Parallel()

		// given
		base := lampSchema.Defaults()
		base.Serial = "A-1"

		// when
		merged, err := lampSchema.Merge(base, map[string]any{"serial": "B-2", "watts": 40})

		// then
		require.NoError(t, err)
		assert.Equal(t, "A-1", merged.Serial)
		assert.False(t, lampSchema.HasChanged(base, merged))
	})

	t.Run("should merge into an existing embedded record", func(t *testing.T) {
		t.Parallel()

		// given
		base := lampSchema.Defaults()
		base.Bulb = &bulb{Smart: true}

		// when
		merged, err := lampSchema.Merge(base, map[string]any{"dimmer": true})

		// then
		require.NoError(t, err)
		assert.Equal(t, &bulb{Smart: true, Dimmer: true}, merged.Bulb)
		assert.Equal(t, &bulb{Smart: true}, base.Bulb)
	})
}

func TestChanges(t *testing.T) {
	t.Parallel()

	t.Run("should list changed fields with wire values", func(t *testing.T) {
		t.Parallel()

		// given
		current := lampSchema.Defaults()
		desired := current
		desired.Shade = "DARK"
		desired.Bulb = &bulb{Smart: true}

		// when
		changes := lampSchema.Changes(current, desired)

		// then
		assert.Equal(t, []settings.Change{
			{Field: "shade", Old: "light", New: "dark"},
			{Field: "smart", Old: nil, New: true},
			{Field: "dimmer", Old: nil, New: false},
		}, changes)
	})
}

func TestReconcile(t *testing.T) {
	t.Parallel()

	t.Run("should write when the overlay changes the record", func(t *testing.T) {
		t.Parallel()

		// given
		current := lampSchema.Defaults()
		var written *lamp
		write := func(_ context.Context, desired lamp) (lamp, error) {
			written = &desired
			return desired, nil
		}

		// when
		res, err := settings.Reconcile(context.Background(), lampSchema, current, map[string]any{"on": false}, write)

		// then
		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.True(t, res.Written)
		require.NotNil(t, written)
		assert.False(t, written.On)
		assert.False(t, res.Applied.On)
	})

	t.Run("should not write when nothing changes", func(t *testing.T) {
		t.Parallel()

		// given
		current := lampSchema.Defaults()
		calls := 0
		write := func(_ context.Context, desired lamp) (lamp, error) {
			calls++
			return desired, nil
		}

		// when
		res, err := settings.Reconcile(context.Background(), lampSchema, current, map[string]any{"on": true}, write)

		// then
		require.NoError(t, err)
		assert.False(t, res.Changed)
		assert.Zero(t, calls)
	})

	t.Run("should report changes without writing on a dry run", func(t *testing.T) {
		t.Parallel()

		// when
		res, err := settings.Reconcile(context.Background(), lampSchema, lampSchema.Defaults(), map[string]any{"watts": 1}, nil)

		// then
		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.False(t, res.Written)
		assert.Equal(t, 40, res.Applied.Watts)
	})

	t.Run("should return the write error", func(t *testing.T) {
		t.Parallel()

		// given
		boom := errors.New("boom")
		write := func(_ context.Context, desired lamp) (lamp, error) { return lamp{}, boom }

		// when
		_, err := settings.Reconcile(context.Background(), lampSchema, lampSchema.Defaults(), map[string]any{"watts": 1}, write)

		// then
		assert.ErrorIs(t, err, boom)
	})
}
