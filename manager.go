package datafile

import (
	"context"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/confkit/datafile/formatter"
	"github.com/confkit/datafile/storage"
)

// ManagerConfig configures a Manager. The zero value is usable: documents
// load from the working directory through the operating-system backend with
// no logging.
type ManagerConfig struct {
	// Root is the directory relative paths resolve against. It also becomes
	// each document's log-display root.
	Root string
	// Logger is handed to every document. Nil means no logging.
	Logger Logger
	// SaveIfChanged enables the save-if-changed policy on every document.
	SaveIfChanged bool
	// Storage is the backend documents read and write through. Nil defaults
	// to the operating-system backend.
	Storage storage.Storage
	// Formatter is shared by all documents; its formatting profile is
	// resolved once and reused.
	Formatter formatter.Formatter
}

// Manager is a cache of Documents keyed by resolved absolute path, with
// batch load and save. Loading the same path twice returns the same
// Document instance. A Manager is safe for concurrent use; the Documents it
// hands out are not.
type Manager struct {
	root          string
	logger        Logger
	saveIfChanged bool
	storage       storage.Storage
	formatter     formatter.Formatter

	mu   sync.Mutex
	docs map[string]*Document
	keys []string
}

// NewManager creates a Manager.
func NewManager(cfg ManagerConfig) *Manager {
	st := cfg.Storage
	if st == nil {
		st = storage.OS()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	return &Manager{
		root:          cfg.Root,
		logger:        logger,
		saveIfChanged: cfg.SaveIfChanged,
		storage:       st,
		formatter:     formatter.Memoize(cfg.Formatter),
		docs:          make(map[string]*Document),
	}
}

// Load returns the cached Document for path, loading it on first use.
// Relative paths resolve against the manager root. Caller options are
// applied after the manager's own, so they win on conflict.
func (m *Manager) Load(ctx context.Context, path string, opts ...Option) (*Document, error) {
	resolved := m.resolve(path)
	key := cacheKey(resolved)

	if doc := m.cached(key); doc != nil {
		return doc, nil
	}

	doc, err := Load(ctx, resolved, m.withManagerOptions(opts)...)
	if err != nil {
		return nil, err
	}
	return m.store(key, doc), nil
}

// FromData returns the cached Document for path, constructing it from data
// on first use.
func (m *Manager) FromData(ctx context.Context, path string, data any, opts ...Option) (*Document, error) {
	resolved := m.resolve(path)
	key := cacheKey(resolved)

	if doc := m.cached(key); doc != nil {
		return doc, nil
	}

	doc, err := FromData(ctx, resolved, data, m.withManagerOptions(opts)...)
	if err != nil {
		return nil, err
	}
	return m.store(key, doc), nil
}

// LoadAll loads every path in parallel and returns the documents in input
// order. The first failure is returned; loads already in flight run to
// completion.
func (m *Manager) LoadAll(ctx context.Context, paths []string, opts ...Option) ([]*Document, error) {
	docs := make([]*Document, len(paths))
	var g errgroup.Group
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			doc, err := m.Load(ctx, path, opts...)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// SaveAll saves every cached Document in parallel. Read-only documents are
// skipped with a warning rather than failing the batch; any real write
// failure is returned after all saves have finished.
func (m *Manager) SaveAll(ctx context.Context) error {
	m.mu.Lock()
	docs := make([]*Document, 0, len(m.keys))
	for _, key := range m.keys {
		docs = append(docs, m.docs[key])
	}
	m.mu.Unlock()

	var g errgroup.Group
	for _, doc := range docs {
		doc := doc
		g.Go(func() error {
			return doc.Save(ctx, WithThrowOnReadOnly(false))
		})
	}
	return g.Wait()
}

// Documents returns the cached documents in first-load order.
func (m *Manager) Documents() []*Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := make([]*Document, 0, len(m.keys))
	for _, key := range m.keys {
		docs = append(docs, m.docs[key])
	}
	return docs
}

// withManagerOptions prepends the manager-level construction options so
// per-call options can still override them.
func (m *Manager) withManagerOptions(opts []Option) []Option {
	base := []Option{
		WithLogger(m.logger),
		WithStorage(m.storage),
		WithRootDir(m.root),
	}
	if m.saveIfChanged {
		base = append(base, WithSaveIfChanged())
	}
	if m.formatter != nil {
		base = append(base, WithFormatter(m.formatter))
	}
	return append(base, opts...)
}

func (m *Manager) resolve(path string) string {
	if m.root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.root, path)
}

// cached returns the document for key, or nil.
func (m *Manager) cached(key string) *Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.docs[key]
}

// store inserts doc under key. When a concurrent load inserted first, the
// earlier document wins so every caller shares one instance per path.
func (m *Manager) store(key string, doc *Document) *Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.docs[key]; ok {
		return existing
	}
	m.docs[key] = doc
	m.keys = append(m.keys, key)
	return doc
}

// cacheKey normalizes a path so lexically different spellings of the same
// file share a cache entry.
func cacheKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
