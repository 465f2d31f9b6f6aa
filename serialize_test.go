package datafile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confkit/datafile/dferrors"
	"github.com/confkit/datafile/formatter"
	"github.com/confkit/datafile/storage"
)

func TestSerialize(t *testing.T) {
	ctx := context.Background()

	t.Run("json output keeps key order", func(t *testing.T) {
		doc := newTestDoc(t, map[string]any{})
		doc.Set(ParsePath("zebra"), Literal(1)).
			Set(ParsePath("alpha"), Literal(2))

		out, err := doc.Serialize(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, "{\n  \"zebra\": 1,\n  \"alpha\": 2\n}\n", string(out))
	})

	t.Run("yaml output", func(t *testing.T) {
		mem := storage.NewMemory()
		doc, err := FromData(ctx, "/repo/app.yaml", map[string]any{"a": 1}, WithStorage(mem))
		require.NoError(t, err)

		out, err := doc.Serialize(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, "a: 1\n", string(out))
	})

	t.Run("formatter is applied", func(t *testing.T) {
		doc := newTestDoc(t, map[string]any{"a": 1}, WithFormatter(formatter.JSONNormalizer{}))
		out, err := doc.Serialize(ctx, false)
		require.NoError(t, err)
		assert.Contains(t, string(out), `"a"`)
	})
}

func TestSave(t *testing.T) {
	ctx := context.Background()

	t.Run("writes through storage", func(t *testing.T) {
		mem := storage.NewMemory()
		doc, err := FromData(ctx, "/repo/app.json", map[string]any{}, WithStorage(mem))
		require.NoError(t, err)

		doc.Set(ParsePath("name"), Literal("app"))
		require.NoError(t, doc.Save(ctx))

		text, err := mem.ReadText(ctx, "/repo/app.json")
		require.NoError(t, err)
		assert.Contains(t, string(text), `"name": "app"`)
		assert.True(t, doc.Found(), "a saved document is found")
	})

	t.Run("read-only document errors", func(t *testing.T) {
		mem := storage.NewMemory()
		doc, err := FromData(ctx, "/repo/app.json", map[string]any{}, WithStorage(mem), WithReadOnly())
		require.NoError(t, err)

		err = doc.Save(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Cannot save")
		assert.True(t, errors.Is(err, dferrors.ErrReadOnly))
	})

	t.Run("read-only document can log instead", func(t *testing.T) {
		mem := storage.NewMemory()
		doc, err := FromData(ctx, "/repo/app.json", map[string]any{}, WithStorage(mem), WithReadOnly())
		require.NoError(t, err)

		require.NoError(t, doc.Save(ctx, WithThrowOnReadOnly(false)))
		exists, err := mem.Exists(ctx, "/repo/app.json")
		require.NoError(t, err)
		assert.False(t, exists, "nothing was written")
	})
}

func TestSaveIfChanged(t *testing.T) {
	ctx := context.Background()
	seeded := `{"b": 1, "a": 2}`

	load := func(t *testing.T) (*Document, *storage.Memory) {
		t.Helper()
		mem := storage.NewMemory()
		mem.Put("/repo/app.json", []byte(seeded))
		doc, err := Load(ctx, "/repo/app.json", WithStorage(mem), WithSaveIfChanged())
		require.NoError(t, err)
		return doc, mem
	}

	t.Run("unchanged document skips the write", func(t *testing.T) {
		doc, mem := load(t)
		require.NoError(t, doc.Save(ctx))
		text, err := mem.ReadText(ctx, "/repo/app.json")
		require.NoError(t, err)
		assert.Equal(t, seeded, string(text), "file bytes untouched")
	})

	t.Run("net no-op edits still skip", func(t *testing.T) {
		doc, mem := load(t)
		doc.Set(ParsePath("a"), Literal(99)).
			Set(ParsePath("a"), Literal(float64(2)))
		require.NoError(t, doc.Save(ctx))
		text, err := mem.ReadText(ctx, "/repo/app.json")
		require.NoError(t, err)
		assert.Equal(t, seeded, string(text))
	})

	t.Run("a real change writes", func(t *testing.T) {
		doc, mem := load(t)
		doc.Set(ParsePath("c"), Literal(3))
		require.NoError(t, doc.Save(ctx))
		text, err := mem.ReadText(ctx, "/repo/app.json")
		require.NoError(t, err)
		assert.Contains(t, string(text), `"c": 3`)
	})

	t.Run("key reorder forces the write", func(t *testing.T) {
		doc, mem := load(t)
		doc.SortKeys(Root(), SortPins{})
		require.NoError(t, doc.Save(ctx))
		text, err := mem.ReadText(ctx, "/repo/app.json")
		require.NoError(t, err)
		assert.Equal(t, "{\n  \"a\": 2,\n  \"b\": 1\n}\n", string(text))
	})

	t.Run("no-op sort does not force a write", func(t *testing.T) {
		mem := storage.NewMemory()
		mem.Put("/repo/app.json", []byte(`{"a": 1, "b": 2}`))
		doc, err := Load(ctx, "/repo/app.json", WithStorage(mem), WithSaveIfChanged())
		require.NoError(t, err)

		doc.SortKeys(Root(), SortPins{})
		require.NoError(t, doc.Save(ctx))
		text, err := mem.ReadText(ctx, "/repo/app.json")
		require.NoError(t, err)
		assert.Equal(t, `{"a": 1, "b": 2}`, string(text))
	})

	t.Run("snapshot recaptures after save", func(t *testing.T) {
		doc, mem := load(t)
		doc.Set(ParsePath("c"), Literal(3))
		require.NoError(t, doc.Save(ctx))
		written, err := mem.ReadText(ctx, "/repo/app.json")
		require.NoError(t, err)

		// Saving again without changes must not rewrite.
		mem.Put("/repo/app.json", []byte("sentinel"))
		require.NoError(t, doc.Save(ctx))
		text, err := mem.ReadText(ctx, "/repo/app.json")
		require.NoError(t, err)
		assert.Equal(t, "sentinel", string(text))
		assert.NotEqual(t, string(written), string(text))
	})
}

func TestReload(t *testing.T) {
	ctx := context.Background()

	t.Run("discards in-memory edits", func(t *testing.T) {
		mem := storage.NewMemory()
		mem.Put("/repo/app.json", []byte(`{"a": 1}`))
		doc, err := Load(ctx, "/repo/app.json", WithStorage(mem))
		require.NoError(t, err)

		doc.Set(ParsePath("a"), Literal(99)).Set(ParsePath("b"), Literal(2))
		same, err := doc.Reload(ctx)
		require.NoError(t, err)

		assert.Same(t, doc, same)
		assert.Equal(t, float64(1), doc.Get(ParsePath("a")))
		assert.False(t, doc.Has(ParsePath("b")))
		assert.Empty(t, doc.ModifiedKeys(nil).Set, "change logs reset")
	})

	t.Run("sees external edits", func(t *testing.T) {
		mem := storage.NewMemory()
		mem.Put("/repo/app.json", []byte(`{"a": 1}`))
		doc, err := Load(ctx, "/repo/app.json", WithStorage(mem))
		require.NoError(t, err)

		mem.Put("/repo/app.json", []byte(`{"a": 42}`))
		_, err = doc.Reload(ctx)
		require.NoError(t, err)
		assert.Equal(t, float64(42), doc.Get(ParsePath("a")))
	})

	t.Run("falls back to default when the file disappears", func(t *testing.T) {
		mem := storage.NewMemory()
		mem.Put("/repo/app.json", []byte(`{"a": 1}`))
		doc, err := Load(ctx, "/repo/app.json", WithStorage(mem),
			WithDefaultData(map[string]any{"fresh": true}))
		require.NoError(t, err)

		mem.Remove("/repo/app.json")
		_, err = doc.Reload(ctx)
		require.NoError(t, err)
		assert.False(t, doc.Found())
		assert.Equal(t, true, doc.Get(ParsePath("fresh")))
	})
}

func TestSubtreeDocuments(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) (*Document, *storage.Memory) {
		t.Helper()
		mem := storage.NewMemory()
		mem.Put("/repo/package.json", []byte(`{"name": "app", "mytool": {"x": 1}}`))
		doc, err := Load(ctx, "/repo/package.json",
			WithStorage(mem), WithSubtreePath(ParsePath("mytool")))
		require.NoError(t, err)
		return doc, mem
	}

	t.Run("data is the sub-tree", func(t *testing.T) {
		doc, _ := seed(t)
		assert.Equal(t, float64(1), doc.Get(ParsePath("x")))
		assert.False(t, doc.Has(ParsePath("name")))
	})

	t.Run("whole-file serialization splices back", func(t *testing.T) {
		doc, _ := seed(t)
		doc.Set(ParsePath("y"), Literal(2))

		out, err := doc.Serialize(ctx, true)
		require.NoError(t, err)
		assert.Contains(t, string(out), `"name": "app"`)
		assert.Contains(t, string(out), `"y": 2`)
	})

	t.Run("partial serialization encodes only the sub-tree", func(t *testing.T) {
		doc, _ := seed(t)
		out, err := doc.Serialize(ctx, false)
		require.NoError(t, err)
		assert.NotContains(t, string(out), "name")
		assert.Contains(t, string(out), `"x": 1`)
	})

	t.Run("save preserves sibling keys", func(t *testing.T) {
		doc, mem := seed(t)
		doc.Set(ParsePath("y"), Literal(2))
		require.NoError(t, doc.Save(ctx))

		text, err := mem.ReadText(ctx, "/repo/package.json")
		require.NoError(t, err)
		assert.Contains(t, string(text), `"name": "app"`)
		assert.Contains(t, string(text), `"x": 1`)
		assert.Contains(t, string(text), `"y": 2`)
	})

	t.Run("reload re-extracts the sub-tree", func(t *testing.T) {
		doc, mem := seed(t)
		mem.Put("/repo/package.json", []byte(`{"name": "app", "mytool": {"x": 9}}`))
		_, err := doc.Reload(ctx)
		require.NoError(t, err)
		assert.Equal(t, float64(9), doc.Get(ParsePath("x")))
	})
}
