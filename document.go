package datafile

import (
	"context"
	"path/filepath"

	"github.com/iancoleman/orderedmap"

	"github.com/confkit/datafile/formatter"
	"github.com/confkit/datafile/internal/keyorder"
	"github.com/confkit/datafile/internal/pathops"
	"github.com/confkit/datafile/internal/treeutil"
	"github.com/confkit/datafile/storage"
)

// Document is the in-memory editable representation of one configuration
// file: its data tree, source metadata, and a log of the paths mutated since
// load. Mutation operations return the document for chaining and must not be
// interleaved from concurrent goroutines.
//
// Documents are built by [Load] or [FromData], edited through the mutation
// operations, and persisted with [Document.Save].
type Document struct {
	data        any
	found       bool
	format      Format
	explicitRO  bool
	sourcePath  string
	rootDir     string
	subtreePath Path
	defaultData any

	setLog     changeLog
	deletedLog changeLog

	saveIfChanged bool
	snapshot      any
	sorted        bool

	logger     Logger
	storage    storage.Storage
	formatter  formatter.Formatter
	profile    formatter.Profile
	profileOK  bool
	profileSet bool

	// reread returns the current whole on-disk (or discovered) tree so
	// Reload and whole-file serialization see fresh state.
	reread func(ctx context.Context) (tree any, found bool, err error)
}

// Data returns the document's root data tree. The tree is owned by the
// document; prefer the mutation operations over direct aliasing so change
// tracking stays accurate.
func (d *Document) Data() any { return d.data }

// SetData replaces the document's root data tree wholesale. The value is
// normalized into ordered-tree form. No change tracking is recorded; use Set
// with the root path when tracking matters.
func (d *Document) SetData(data any) {
	d.data = treeutil.Normalize(data)
}

// Found reports whether the backing file or discovered config existed at
// load time.
func (d *Document) Found() bool { return d.found }

// Format returns the document's source format, fixed at construction.
func (d *Document) Format() Format { return d.format }

// ReadOnly reports whether the document refuses to save: code-format and
// unknown-format documents always do, and any document can be constructed
// with an explicit read-only override.
func (d *Document) ReadOnly() bool {
	return d.explicitRO || d.format == FormatJS || d.format == FormatUnknown
}

// Path returns the absolute source path used for I/O.
func (d *Document) Path() string { return d.sourcePath }

// shortPath renders the source path relative to the configured root
// directory for log messages.
func (d *Document) shortPath() string {
	if d.rootDir != "" {
		if rel, err := filepath.Rel(d.rootDir, d.sourcePath); err == nil {
			return rel
		}
	}
	return filepath.Base(d.sourcePath)
}

func (d *Document) log() Logger {
	if d.logger != nil {
		return d.logger
	}
	return NopLogger{}
}

// Get returns the value at path, or nil when any segment is missing.
func (d *Document) Get(path Path) any {
	v, ok := pathops.Get(d.data, path)
	if !ok {
		return nil
	}
	return v
}

// GetOr returns the value at path, or the resolved default when the path
// does not exist. The default follows the same literal-or-computed protocol
// as mutation values.
func (d *Document) GetOr(path Path, def Value) any {
	if v, ok := pathops.Get(d.data, path); ok {
		return v
	}
	resolved := resolveValue(def, d.valueContext(path))
	if isUndefined(resolved) {
		return nil
	}
	return resolved
}

// Has reports whether path resolves to an existing key. A present key
// holding nil still counts as existing.
func (d *Document) Has(path Path) bool {
	return pathops.Has(d.data, path)
}

// Set writes a value at path, creating missing intermediate containers.
// The write is skipped when a guard rejects it or the value resolves to
// Undefined; a successful write records the path in the set log.
//
// Setting the root path replaces the whole data tree and requires a
// container value.
func (d *Document) Set(path Path, value Value, opts ...MutateOption) *Document {
	cfg := applyMutateOptions(opts)
	ctx := d.valueContext(path)

	if !d.guardPasses(cfg.predicate, ctx, "set") {
		return d
	}

	resolved := resolveValue(value, ctx)
	if isUndefined(resolved) {
		d.log().Info("skipped setting value", "path", path.String(), "file", d.shortPath())
		return d
	}
	resolved = treeutil.Normalize(resolved)

	if path.IsRoot() && !treeutil.IsContainer(resolved) {
		d.log().Warn("refusing to replace document root with a non-container value",
			"file", d.shortPath())
		return d
	}

	d.data = pathops.Set(d.data, path, resolved)
	d.setLog.add(path.String())
	d.log().Info("set value", "path", path.String(), "file", d.shortPath())
	return d
}

// Delete removes the value at path. The deleted log records the attempt
// whenever the guard passes, whether or not a value existed: the logs are
// append-only history of requested changes, so a caller deciding what to
// clean up downstream sees the path either way. Ancestors left empty are not
// pruned; see DeleteEmptyPath.
func (d *Document) Delete(path Path, opts ...MutateOption) *Document {
	cfg := applyMutateOptions(opts)
	ctx := d.valueContext(path)

	if !d.guardPasses(cfg.predicate, ctx, "delete") {
		return d
	}

	var removed bool
	d.data, removed = pathops.Unset(d.data, path)
	d.deletedLog.add(path.String())
	if removed {
		d.log().Info("deleted value", "path", path.String(), "file", d.shortPath())
	} else {
		d.log().Debug("no value to delete", "path", path.String(), "file", d.shortPath())
	}
	return d
}

// DeleteEmptyPath removes the value at path and then walks upward, removing
// each ancestor that became empty (nil, empty string, or empty container)
// until a non-empty ancestor or the root is reached.
func (d *Document) DeleteEmptyPath(path Path) *Document {
	d.data = pathops.DeleteEmpty(d.data, path)
	d.deletedLog.add(path.String())
	d.log().Info("deleted empty path", "path", path.String(), "file", d.shortPath())
	return d
}

// Merge deep-merges the resolved sources into the sub-tree at path, left to
// right. When the path does not exist yet, the merge result is computed into
// a fresh container and installed, creating intermediate containers along
// the way. The root (empty) path merges into the whole document. A
// successful merge records the path in the set log.
func (d *Document) Merge(path Path, sources []Value, opts ...MutateOption) *Document {
	cfg := applyMutateOptions(opts)
	ctx := d.valueContext(path)

	if !d.guardPasses(cfg.predicate, ctx, "merge") {
		return d
	}

	resolved := make([]any, 0, len(sources))
	for _, src := range sources {
		v := resolveValue(src, ctx)
		if isUndefined(v) {
			continue
		}
		resolved = append(resolved, treeutil.Normalize(v))
	}
	if len(resolved) == 0 {
		d.log().Info("skipped merge with no sources", "path", path.String(), "file", d.shortPath())
		return d
	}

	target, exists := pathops.Get(d.data, path)
	if !exists || !treeutil.IsContainer(target) {
		if _, isArray := resolved[0].([]any); isArray {
			target = []any{}
		} else {
			target = orderedmap.New()
		}
	}
	for _, src := range resolved {
		target = deepMerge(target, src)
	}
	if path.IsRoot() && !treeutil.IsContainer(target) {
		d.log().Warn("refusing to replace document root with a non-container value",
			"file", d.shortPath())
		return d
	}
	d.data = pathops.Set(d.data, path, target)

	d.setLog.add(path.String())
	d.log().Info("merged value", "path", path.String(), "file", d.shortPath())
	return d
}

// SortPins names keys pinned to the start and end of a sorted container; all
// remaining keys sort lexicographically between them.
type SortPins struct {
	Start []string
	End   []string
}

// SortKeys reorders the keys of the object at path (the whole document for
// the root path). When the computed order matches the current order the
// document is left untouched; a real reorder sets the sorted flag, which
// forces the next save even under the save-if-changed policy.
func (d *Document) SortKeys(path Path, pins SortPins) *Document {
	target, ok := pathops.Get(d.data, path)
	if !ok {
		d.log().Warn("cannot sort keys of missing path", "path", path.String(), "file", d.shortPath())
		return d
	}
	m, isMap := treeutil.ToOrderedMap(target)
	if !isMap {
		d.log().Warn("cannot sort keys of non-object value", "path", path.String(), "file", d.shortPath())
		return d
	}

	reordered, changed := keyorder.Reorder(m, keyorder.Pins{Start: pins.Start, End: pins.End})
	if !changed {
		d.log().Debug("keys already sorted", "path", path.String(), "file", d.shortPath())
		return d
	}

	d.data = pathops.Set(d.data, path, reordered)
	d.sorted = true
	d.log().Info("sorted keys", "path", path.String(), "file", d.shortPath())
	return d
}

// ModifiedKeys returns the paths recorded by Set/Merge and Delete since load
// (or the last Reload), in first-insertion order. The returned slices are
// copies; filtering is optional.
func (d *Document) ModifiedKeys(filter ChangeFilter) Changes {
	return Changes{
		Set:     d.setLog.entries(ChangeSet, filter),
		Deleted: d.deletedLog.entries(ChangeDeleted, filter),
	}
}

// guardPasses evaluates an optional predicate, logging skips and evaluation
// failures. A failed evaluation counts as a rejection.
func (d *Document) guardPasses(p Predicate, ctx ValueContext, op string) bool {
	ok, err := resolvePredicate(p, ctx)
	if err != nil {
		d.log().Warn("guard evaluation failed, skipping "+op,
			"path", ctx.Path.String(), "file", d.shortPath(), "error", err.Error())
		return false
	}
	if !ok {
		d.log().Info("skipped "+op+" due to guard",
			"path", ctx.Path.String(), "file", d.shortPath())
		return false
	}
	return true
}
