package datafile

import (
	"fmt"

	"github.com/confkit/datafile/discovery"
	"github.com/confkit/datafile/formatter"
	"github.com/confkit/datafile/storage"
)

// DiscoveryConfig enables cosmiconfig-style search during Load. The path
// argument of Load is treated as the module name being searched for rather
// than a concrete file path.
type DiscoveryConfig struct {
	// Searcher performs the search. Nil defaults to a file-system searcher
	// over the load's storage backend.
	Searcher discovery.Searcher
	// Options is passed through to the searcher.
	Options discovery.Options
}

// loadConfig collects the construction options for Load and FromData.
type loadConfig struct {
	defaultData   any
	defaultFormat Format
	discovery     *DiscoveryConfig
	subtreePath   Path
	rootDir       string
	readOnly      bool
	saveIfChanged bool
	logger        Logger
	storage       storage.Storage
	formatter     formatter.Formatter
	codeLoader    CodeLoader
}

// Option configures document construction.
type Option func(*loadConfig) error

// applyOptions builds the effective configuration from defaults and opts.
func applyOptions(opts []Option) (*loadConfig, error) {
	cfg := &loadConfig{
		logger:  NopLogger{},
		storage: storage.OS(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithDefaultData supplies the data tree used when the source file does not
// exist (and on Reload after the file disappears). The value is normalized
// into ordered-tree form and deep-copied on each use.
func WithDefaultData(data any) Option {
	return func(cfg *loadConfig) error {
		cfg.defaultData = data
		return nil
	}
}

// WithDefaultFormat fixes the serialization format used when none can be
// derived from the file extension, such as a discovery miss or an
// extension-less rc file.
func WithDefaultFormat(format Format) Option {
	return func(cfg *loadConfig) error {
		switch format {
		case FormatJSON, FormatYAML:
			cfg.defaultFormat = format
			return nil
		default:
			return fmt.Errorf("default format must be json or yaml, got %q", format)
		}
	}
}

// WithDiscovery turns on configuration search. Load's path argument becomes
// the module name to search for.
func WithDiscovery(dc DiscoveryConfig) Option {
	return func(cfg *loadConfig) error {
		cfg.discovery = &dc
		return nil
	}
}

// WithSubtreePath declares that the document's data is the sub-tree at the
// given path inside a larger on-disk file. Saving splices the sub-tree back
// into the current full document.
func WithSubtreePath(path Path) Option {
	return func(cfg *loadConfig) error {
		cfg.subtreePath = path
		return nil
	}
}

// WithRootDir sets the directory log messages render source paths relative
// to.
func WithRootDir(dir string) Option {
	return func(cfg *loadConfig) error {
		cfg.rootDir = dir
		return nil
	}
}

// WithReadOnly marks the document read-only regardless of format, so Save
// refuses to write.
func WithReadOnly() Option {
	return func(cfg *loadConfig) error {
		cfg.readOnly = true
		return nil
	}
}

// WithSaveIfChanged enables the save-if-changed policy: Save skips the write
// when the data is deep-equal to the load-time snapshot and no key reorder
// happened.
func WithSaveIfChanged() Option {
	return func(cfg *loadConfig) error {
		cfg.saveIfChanged = true
		return nil
	}
}

// WithLogger sets the logger used by the document and the load itself.
func WithLogger(logger Logger) Option {
	return func(cfg *loadConfig) error {
		if logger == nil {
			return fmt.Errorf("logger must not be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithStorage replaces the operating-system storage backend.
func WithStorage(st storage.Storage) Option {
	return func(cfg *loadConfig) error {
		if st == nil {
			return fmt.Errorf("storage must not be nil")
		}
		cfg.storage = st
		return nil
	}
}

// WithFormatter attaches a formatting collaborator applied to serialized
// text. The formatting profile is resolved lazily on first use and cached
// per document.
func WithFormatter(f formatter.Formatter) Option {
	return func(cfg *loadConfig) error {
		cfg.formatter = f
		return nil
	}
}

// WithCodeLoader supplies the evaluator for code-format (.js) configuration
// files. Without one, loading a code-format file fails.
func WithCodeLoader(cl CodeLoader) Option {
	return func(cfg *loadConfig) error {
		cfg.codeLoader = cl
		return nil
	}
}

// mutateConfig collects the per-mutation options of Set, Delete, and Merge.
type mutateConfig struct {
	predicate Predicate
}

// MutateOption configures a single mutation call.
type MutateOption func(*mutateConfig)

func applyMutateOptions(opts []MutateOption) mutateConfig {
	var cfg mutateConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithIf guards the mutation with a function of the current state.
func WithIf(fn func(ValueContext) bool) MutateOption {
	return func(cfg *mutateConfig) { cfg.predicate = If(fn) }
}

// WithIfExpr guards the mutation with an expression evaluated against
// {value, key, path, data, exists}.
func WithIfExpr(code string) MutateOption {
	return func(cfg *mutateConfig) { cfg.predicate = IfExpr(code) }
}

// WithPredicate guards the mutation with an explicit predicate value.
func WithPredicate(p Predicate) MutateOption {
	return func(cfg *mutateConfig) { cfg.predicate = p }
}

// saveConfig collects per-save options.
type saveConfig struct {
	throwOnReadOnly bool
}

// SaveOption configures a single Save call.
type SaveOption func(*saveConfig)

// WithThrowOnReadOnly controls whether saving a read-only document returns
// an error (the default) or logs a warning and returns nil.
func WithThrowOnReadOnly(throw bool) SaveOption {
	return func(cfg *saveConfig) { cfg.throwOnReadOnly = throw }
}
