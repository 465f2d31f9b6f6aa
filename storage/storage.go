// Package storage defines the file-system collaborator used by datafile
// documents, plus an operating-system backend and an in-memory backend for
// tests and embedding.
//
// "File does not exist" is the one failure that callers must be able to
// distinguish from everything else: ReadText reports it by wrapping
// [fs.ErrNotExist], and the loader translates it into a not-found document
// with default data rather than an error.
package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/confkit/datafile/internal/fileutil"
)

// Storage abstracts the file-system operations a document performs.
type Storage interface {
	// Exists reports whether a file exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// ReadText reads the full content of the file at path. A missing file
	// returns an error matching errors.Is(err, fs.ErrNotExist); all other
	// failures propagate as-is.
	ReadText(ctx context.Context, path string) ([]byte, error)

	// WriteText writes text to path, creating parent directories as needed.
	WriteText(ctx context.Context, path string, text []byte) error
}

// OS returns a Storage backed by the operating system's file system.
func OS() Storage {
	return osStorage{}
}

type osStorage struct{}

func (osStorage) Exists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("storage: stat %q: %w", path, err)
}

func (osStorage) ReadText(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("storage: %q: %w", path, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("storage: read %q: %w", path, err)
	}
	return data, nil
}

func (osStorage) WriteText(_ context.Context, path string, text []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, fileutil.DirReadableByAll); err != nil {
			return fmt.Errorf("storage: mkdir %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, text, fileutil.ReadableByAll); err != nil {
		return fmt.Errorf("storage: write %q: %w", path, err)
	}
	return nil
}

// Memory is an in-memory Storage keyed by cleaned path. It is safe for
// concurrent use.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemory creates an empty in-memory storage.
func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

// Put seeds a file without going through WriteText.
func (m *Memory) Put(path string, text []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filepath.Clean(path)] = append([]byte(nil), text...)
}

// Remove deletes a file if present.
func (m *Memory) Remove(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, filepath.Clean(path))
}

// Paths returns the stored file paths in sorted order.
func (m *Memory) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Exists implements Storage.
func (m *Memory) Exists(_ context.Context, path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[filepath.Clean(path)]
	return ok, nil
}

// ReadText implements Storage.
func (m *Memory) ReadText(_ context.Context, path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	text, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, fmt.Errorf("storage: %q: %w", path, fs.ErrNotExist)
	}
	return append([]byte(nil), text...), nil
}

// WriteText implements Storage.
func (m *Memory) WriteText(_ context.Context, path string, text []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filepath.Clean(path)] = append([]byte(nil), text...)
	return nil
}

// Ensure implementations satisfy Storage at compile time.
var (
	_ Storage = osStorage{}
	_ Storage = (*Memory)(nil)
)
