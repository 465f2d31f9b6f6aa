package datafile

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/confkit/datafile/codec"
	"github.com/confkit/datafile/dferrors"
	"github.com/confkit/datafile/discovery"
	"github.com/confkit/datafile/internal/pathops"
	"github.com/confkit/datafile/internal/treeutil"
	"github.com/confkit/datafile/storage"
)

// Load reads the configuration file at path into a Document.
//
// The format is derived from the file extension; an unrecognized extension
// is an error unless discovery is enabled, in which case path names the
// module whose configuration is searched for instead of a concrete file. A
// missing file yields a Document with Found() == false holding the default
// data. Text content is parsed leniently: JSON first, then YAML, with both
// failures aggregated when neither applies. The parsed root must be an
// object or array.
func Load(ctx context.Context, path string, opts ...Option) (*Document, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	if cfg.discovery != nil {
		return loadDiscovered(ctx, path, cfg)
	}

	format := codec.DetectFromPath(path)
	switch format {
	case FormatUnknown:
		return nil, &dferrors.UnsupportedFormatError{Path: path, Extension: filepath.Ext(path)}
	case FormatJS:
		return loadCode(ctx, path, cfg)
	}

	reread := textRereader(cfg.storage, path)
	full, found, err := reread(ctx)
	if err != nil {
		return nil, err
	}

	var data any
	if found {
		data = subtreeOf(full, cfg.subtreePath)
	}
	if data == nil {
		data = defaultTreeFor(cfg)
	}

	d := newDocument(cfg, path, format, data, found, cfg.subtreePath)
	d.reread = reread
	d.log().Debug("loaded file", "file", d.shortPath(), "found", found, "format", string(format))
	return d, nil
}

// FromData constructs a Document around data the caller already has, bound
// to the path it should eventually be saved at. No read is performed beyond
// an existence check for the Found flag. Code-format targets are rejected.
func FromData(ctx context.Context, path string, data any, opts ...Option) (*Document, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	format := codec.DetectFromPath(path)
	switch format {
	case FormatJS:
		return nil, &dferrors.ConstructionError{Path: path, Message: "cannot hold data for a js file"}
	case FormatUnknown:
		if cfg.defaultFormat == "" {
			return nil, &dferrors.UnsupportedFormatError{Path: path, Extension: filepath.Ext(path)}
		}
		format = cfg.defaultFormat
	}

	found, err := cfg.storage.Exists(ctx, path)
	if err != nil {
		return nil, err
	}

	tree := treeutil.Normalize(data)
	if !treeutil.IsContainer(tree) {
		return nil, shapeError(path, tree)
	}

	d := newDocument(cfg, path, format, tree, found, cfg.subtreePath)
	d.reread = textRereader(cfg.storage, path)
	return d, nil
}

// loadCode loads a code-format file through the configured CodeLoader. The
// resulting document is permanently read-only.
func loadCode(ctx context.Context, path string, cfg *loadConfig) (*Document, error) {
	reread := codeRereader(cfg.storage, cfg.codeLoader, path)
	full, found, err := reread(ctx)
	if err != nil {
		return nil, err
	}

	var data any
	if found {
		data = subtreeOf(full, cfg.subtreePath)
	}
	if data == nil {
		data = defaultTreeFor(cfg)
	}

	d := newDocument(cfg, path, FormatJS, data, found, cfg.subtreePath)
	d.reread = reread
	return d, nil
}

// loadDiscovered searches for moduleName's configuration instead of reading
// a fixed path. A miss yields a not-found document bound to the module name
// with the default format.
func loadDiscovered(ctx context.Context, moduleName string, cfg *loadConfig) (*Document, error) {
	searcher := cfg.discovery.Searcher
	if searcher == nil {
		searcher = discovery.NewFileSearcher(cfg.storage)
	}

	res, err := searcher.Search(ctx, moduleName, cfg.discovery.Options)
	if err != nil {
		return nil, err
	}

	if res == nil {
		format := cfg.defaultFormat
		if format == "" {
			format = FormatJSON
		}
		d := newDocument(cfg, moduleName, format, defaultTreeFor(cfg), false, cfg.subtreePath)
		d.log().Debug("no configuration found", "module", moduleName)
		return d, nil
	}

	format := codec.DetectFromPath(res.Filepath)
	if format == FormatJS {
		sub := joinPaths(res.DataPath, cfg.subtreePath)
		codeCfg := *cfg
		codeCfg.subtreePath = sub
		return loadCode(ctx, res.Filepath, &codeCfg)
	}
	if format == FormatUnknown {
		format, err = detectStoredFormat(ctx, cfg, res.Filepath)
		if err != nil {
			return nil, err
		}
	}

	subtree := joinPaths(res.DataPath, cfg.subtreePath)

	var data any
	if !res.IsEmpty {
		data = subtreeOf(res.Config, cfg.subtreePath)
	}
	if data == nil {
		data = defaultTreeFor(cfg)
	}

	d := newDocument(cfg, res.Filepath, format, data, true, subtree)
	d.reread = textRereader(cfg.storage, res.Filepath)
	d.log().Debug("discovered configuration", "module", moduleName, "file", d.shortPath())
	return d, nil
}

// newDocument assembles a Document from resolved construction state.
func newDocument(cfg *loadConfig, path string, format Format, data any, found bool, subtree Path) *Document {
	d := &Document{
		data:          data,
		found:         found,
		format:        format,
		explicitRO:    cfg.readOnly,
		sourcePath:    path,
		rootDir:       cfg.rootDir,
		subtreePath:   subtree,
		defaultData:   cfg.defaultData,
		saveIfChanged: cfg.saveIfChanged,
		logger:        cfg.logger,
		storage:       cfg.storage,
		formatter:     cfg.formatter,
	}
	if d.saveIfChanged {
		d.snapshot = treeutil.DeepCopy(d.data)
	}
	return d
}

// textRereader returns a reader for the whole parsed tree of a structured
// text file. Absence is reported through the found flag, not as an error.
func textRereader(st storage.Storage, path string) func(context.Context) (any, bool, error) {
	return func(ctx context.Context) (any, bool, error) {
		exists, err := st.Exists(ctx, path)
		if err != nil {
			return nil, false, err
		}
		if !exists {
			return nil, false, nil
		}
		text, err := st.ReadText(ctx, path)
		if err != nil {
			return nil, false, err
		}
		tree, _, parseErrs := codec.ParseAny(text)
		if parseErrs != nil {
			return nil, false, &dferrors.ParseError{Path: path, Causes: parseErrs}
		}
		if !treeutil.IsContainer(tree) {
			return nil, false, shapeError(path, tree)
		}
		return tree, true, nil
	}
}

// codeRereader returns a reader that evaluates a code-format file through
// the CodeLoader collaborator.
func codeRereader(st storage.Storage, cl CodeLoader, path string) func(context.Context) (any, bool, error) {
	return func(ctx context.Context) (any, bool, error) {
		exists, err := st.Exists(ctx, path)
		if err != nil {
			return nil, false, err
		}
		if !exists {
			return nil, false, nil
		}
		if cl == nil {
			return nil, false, &dferrors.ConstructionError{Path: path, Message: "no code loader configured for js files"}
		}
		value, err := cl.Load(ctx, path)
		if err != nil {
			return nil, false, &dferrors.ConstructionError{Path: path, Message: "code evaluation failed", Cause: err}
		}
		tree := treeutil.Normalize(value)
		if !treeutil.IsContainer(tree) {
			return nil, false, shapeError(path, tree)
		}
		return tree, true, nil
	}
}

// detectStoredFormat decides the format of an extension-less discovered file
// from its content, falling back to the configured default and finally JSON.
func detectStoredFormat(ctx context.Context, cfg *loadConfig, path string) (Format, error) {
	text, err := cfg.storage.ReadText(ctx, path)
	if err != nil {
		return FormatUnknown, err
	}
	if format := codec.DetectFromContent(text); format != FormatUnknown {
		return format, nil
	}
	if cfg.defaultFormat != "" {
		return cfg.defaultFormat, nil
	}
	return FormatJSON, nil
}

// subtreeOf extracts the sub-tree at path, or nil when absent. An empty path
// returns the tree itself.
func subtreeOf(tree any, path Path) any {
	if len(path) == 0 {
		return tree
	}
	sub, ok := pathops.Get(tree, path)
	if !ok {
		return nil
	}
	return sub
}

// defaultTreeFor materializes the configured default data, or an empty
// object.
func defaultTreeFor(cfg *loadConfig) any {
	return copyDefault(cfg.defaultData)
}

// joinPaths concatenates a discovery data path with a caller sub-tree path.
func joinPaths(dataPath []string, subtree Path) Path {
	if len(dataPath) == 0 {
		return subtree
	}
	joined := make(Path, 0, len(dataPath)+len(subtree))
	joined = append(joined, dataPath...)
	joined = append(joined, subtree...)
	return joined
}

// shapeError builds the invalid-root error with a readable type name.
func shapeError(path string, v any) error {
	got := ""
	if v != nil {
		got = fmt.Sprintf("%T", v)
	}
	return &dferrors.InvalidShapeError{Path: path, Got: got}
}
