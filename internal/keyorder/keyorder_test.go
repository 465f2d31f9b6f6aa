package keyorder

import (
	"testing"

	"github.com/iancoleman/orderedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildMap(keys ...string) *orderedmap.OrderedMap {
	m := orderedmap.New()
	for i, k := range keys {
		m.Set(k, i)
	}
	return m
}

func TestReorder(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		pins Pins
		want []string
	}{
		{
			name: "plain lexicographic sort",
			keys: []string{"c", "a", "b"},
			pins: Pins{},
			want: []string{"a", "b", "c"},
		},
		{
			name: "start pins come first in given order",
			keys: []string{"version", "name", "scripts"},
			pins: Pins{Start: []string{"name", "version"}},
			want: []string{"name", "version", "scripts"},
		},
		{
			name: "end pins come last",
			keys: []string{"dependencies", "name", "scripts"},
			pins: Pins{Start: []string{"name"}, End: []string{"dependencies"}},
			want: []string{"name", "scripts", "dependencies"},
		},
		{
			name: "absent pinned keys are dropped",
			keys: []string{"b", "a"},
			pins: Pins{Start: []string{"missing", "a"}, End: []string{"alsoMissing"}},
			want: []string{"a", "b"},
		},
		{
			name: "duplicate pins are deduplicated",
			keys: []string{"b", "a", "c"},
			pins: Pins{Start: []string{"a", "a"}, End: []string{"c", "c"}},
			want: []string{"a", "b", "c"},
		},
		{
			name: "key in both start and end keeps start position",
			keys: []string{"b", "a"},
			pins: Pins{Start: []string{"a"}, End: []string{"a"}},
			want: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := buildMap(tt.keys...)
			got, changed := Reorder(m, tt.pins)
			assert.Equal(t, tt.want, got.Keys())
			assert.True(t, changed)
		})
	}
}

func TestReorderNoChange(t *testing.T) {
	m := buildMap("a", "b", "c")
	got, changed := Reorder(m, Pins{})
	assert.False(t, changed)
	assert.Same(t, m, got, "unchanged order should return the input container")
}

func TestReorderPreservesBindings(t *testing.T) {
	m := orderedmap.New()
	m.Set("z", "last")
	m.Set("a", "first")

	got, changed := Reorder(m, Pins{})
	require.True(t, changed)

	v, ok := got.Get("z")
	require.True(t, ok)
	assert.Equal(t, "last", v)
	v, ok = got.Get("a")
	require.True(t, ok)
	assert.Equal(t, "first", v)
}
