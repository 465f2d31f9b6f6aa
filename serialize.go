package datafile

import (
	"context"

	"github.com/iancoleman/orderedmap"

	"github.com/confkit/datafile/codec"
	"github.com/confkit/datafile/dferrors"
	"github.com/confkit/datafile/internal/pathops"
	"github.com/confkit/datafile/internal/treeutil"
)

// Serialize encodes the document in its source format. For a sub-tree
// document with wholeFile set, the current on-disk full document (or the
// remembered default when the file is absent) is re-read and the document's
// data is spliced back in at the sub-tree path before encoding. Text then
// passes through the formatter collaborator when one resolved a profile for
// this path.
func (d *Document) Serialize(ctx context.Context, wholeFile bool) ([]byte, error) {
	c, ok := codec.ForFormat(d.format)
	if !ok {
		return nil, &dferrors.UnsupportedFormatError{Path: d.sourcePath}
	}

	tree := d.data
	if wholeFile && len(d.subtreePath) > 0 {
		full, err := d.wholeTree(ctx)
		if err != nil {
			return nil, err
		}
		tree = pathops.Set(full, d.subtreePath, d.data)
	}

	text, err := c.Serialize(tree)
	if err != nil {
		return nil, err
	}
	return d.applyFormatter(ctx, text)
}

// Save writes the serialized whole file through the storage backend.
//
// A read-only document returns a ReadOnlyError, or logs and returns nil under
// WithThrowOnReadOnly(false). Under the save-if-changed policy, the write is
// skipped when the data deep-equals the load-time snapshot and no key
// reorder happened since.
func (d *Document) Save(ctx context.Context, opts ...SaveOption) error {
	cfg := saveConfig{throwOnReadOnly: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if d.ReadOnly() {
		reason := "document is read-only"
		if d.format == FormatJS {
			reason = "derived from a js file"
		}
		err := &dferrors.ReadOnlyError{Path: d.sourcePath, Reason: reason}
		if cfg.throwOnReadOnly {
			return err
		}
		d.log().Warn("skipped saving read-only file", "file", d.shortPath(), "reason", reason)
		return nil
	}

	if d.saveIfChanged && !d.sorted && treeutil.DeepEqual(d.data, d.snapshot) {
		d.log().Info("skipped saving unchanged file", "file", d.shortPath())
		return nil
	}

	text, err := d.Serialize(ctx, true)
	if err != nil {
		return err
	}
	if err := d.storage.WriteText(ctx, d.sourcePath, text); err != nil {
		return err
	}

	if d.saveIfChanged {
		d.snapshot = treeutil.DeepCopy(d.data)
	}
	d.sorted = false
	d.found = true
	d.log().Info("saved file", "file", d.shortPath())
	return nil
}

// Reload replaces the in-memory data with the current on-disk (or
// discovered) state, falling back to the default data when the source is
// absent. Change logs, the sorted flag, and the save-if-changed snapshot are
// reset. The same document is returned for chaining.
func (d *Document) Reload(ctx context.Context) (*Document, error) {
	var data any
	found := false

	if d.reread != nil {
		full, ok, err := d.reread(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			found = true
			if len(d.subtreePath) > 0 {
				if sub, exists := pathops.Get(full, d.subtreePath); exists {
					data = sub
				}
			} else {
				data = full
			}
		}
	}
	if data == nil {
		data = d.defaultTree()
	}

	d.data = data
	d.found = found
	d.setLog.reset()
	d.deletedLog.reset()
	d.sorted = false
	if d.saveIfChanged {
		d.snapshot = treeutil.DeepCopy(d.data)
	}
	d.log().Info("reloaded file", "file", d.shortPath())
	return d, nil
}

// wholeTree returns the current on-disk full document for sub-tree splicing,
// falling back to the remembered default or a fresh object.
func (d *Document) wholeTree(ctx context.Context) (any, error) {
	if d.reread != nil {
		full, found, err := d.reread(ctx)
		if err != nil {
			return nil, err
		}
		if found && treeutil.IsContainer(full) {
			return full, nil
		}
	}
	return d.defaultTree(), nil
}

// defaultTree materializes a fresh copy of the configured default data, or
// an empty object when none was configured.
func (d *Document) defaultTree() any {
	return copyDefault(d.defaultData)
}

func copyDefault(defaultData any) any {
	if defaultData == nil {
		return orderedmap.New()
	}
	return treeutil.DeepCopy(treeutil.Normalize(defaultData))
}

// applyFormatter runs serialized text through the formatter collaborator.
// The formatting profile is resolved once per document; resolution or
// formatting failures degrade to the unformatted text with a warning.
func (d *Document) applyFormatter(ctx context.Context, text []byte) ([]byte, error) {
	if d.formatter == nil {
		return text, nil
	}
	if !d.profileSet {
		profile, ok, err := d.formatter.ResolveProfile(ctx, d.sourcePath)
		if err != nil {
			d.log().Warn("formatter profile resolution failed",
				"file", d.shortPath(), "error", err.Error())
			d.profileSet = true
			return text, nil
		}
		d.profile, d.profileOK, d.profileSet = profile, ok, true
	}
	if !d.profileOK {
		return text, nil
	}
	formatted, err := d.formatter.Format(ctx, text, d.format, d.profile)
	if err != nil {
		d.log().Warn("formatting failed, using unformatted text",
			"file", d.shortPath(), "error", err.Error())
		return text, nil
	}
	return formatted, nil
}
