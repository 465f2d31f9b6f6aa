package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confkit/datafile/internal/treeutil"
)

func TestJSONParse(t *testing.T) {
	t.Run("preserves key order", func(t *testing.T) {
		tree, err := JSON{}.Parse([]byte(`{"zebra": 1, "alpha": 2, "mike": 3}`))
		require.NoError(t, err)
		m, ok := treeutil.ToOrderedMap(tree)
		require.True(t, ok)
		assert.Equal(t, []string{"zebra", "alpha", "mike"}, m.Keys())
	})

	t.Run("preserves nested key order", func(t *testing.T) {
		tree, err := JSON{}.Parse([]byte(`{"outer": {"z": 1, "a": 2}}`))
		require.NoError(t, err)
		m, _ := treeutil.ToOrderedMap(tree)
		inner, _ := m.Get("outer")
		im, ok := treeutil.ToOrderedMap(inner)
		require.True(t, ok)
		assert.Equal(t, []string{"z", "a"}, im.Keys())
	})

	t.Run("tolerates comments and trailing commas", func(t *testing.T) {
		content := `{
  // a comment
  "name": "app",
  "port": 8080, /* trailing comma next */
}`
		tree, err := JSON{}.Parse([]byte(content))
		require.NoError(t, err)
		m, ok := treeutil.ToOrderedMap(tree)
		require.True(t, ok)
		v, _ := m.Get("port")
		assert.Equal(t, float64(8080), v)
	})

	t.Run("array root keeps nested object order", func(t *testing.T) {
		tree, err := JSON{}.Parse([]byte(`[{"z": 1, "a": 2}, "s"]`))
		require.NoError(t, err)
		arr, ok := tree.([]any)
		require.True(t, ok)
		require.Len(t, arr, 2)
		m, ok := treeutil.ToOrderedMap(arr[0])
		require.True(t, ok)
		assert.Equal(t, []string{"z", "a"}, m.Keys())
		assert.Equal(t, "s", arr[1])
	})

	t.Run("scalar root parses to scalar", func(t *testing.T) {
		tree, err := JSON{}.Parse([]byte(`42`))
		require.NoError(t, err)
		assert.Equal(t, float64(42), tree)
	})

	t.Run("empty content yields nil tree", func(t *testing.T) {
		tree, err := JSON{}.Parse([]byte("  \n"))
		require.NoError(t, err)
		assert.Nil(t, tree)
	})

	t.Run("invalid content errors", func(t *testing.T) {
		_, err := JSON{}.Parse([]byte(`{"a": `))
		assert.Error(t, err)
	})
}

func TestJSONSerialize(t *testing.T) {
	t.Run("two-space indent with trailing newline", func(t *testing.T) {
		tree, err := JSON{}.Parse([]byte(`{"b": 1, "a": "x"}`))
		require.NoError(t, err)

		out, err := JSON{}.Serialize(tree)
		require.NoError(t, err)
		assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": \"x\"\n}\n", string(out))
	})

	t.Run("round trip keeps key order", func(t *testing.T) {
		src := `{"z": {"c": 1, "b": 2}, "a": [1, {"y": true, "x": false}]}`
		tree, err := JSON{}.Parse([]byte(src))
		require.NoError(t, err)

		out, err := JSON{}.Serialize(tree)
		require.NoError(t, err)

		again, err := JSON{}.Parse(out)
		require.NoError(t, err)
		assert.True(t, treeutil.DeepEqual(tree, again))

		m, _ := treeutil.ToOrderedMap(again)
		assert.Equal(t, []string{"z", "a"}, m.Keys())
		nested, _ := m.Get("z")
		nm, _ := treeutil.ToOrderedMap(nested)
		assert.Equal(t, []string{"c", "b"}, nm.Keys())
	})
}
