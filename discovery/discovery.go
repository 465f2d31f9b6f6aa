// Package discovery provides cosmiconfig-style configuration search: walking
// a directory tree upward for a named tool's configuration, including
// extraction from a sub-key of the project manifest (package.json).
//
// The package defines the collaborator interface consumed by the datafile
// loader plus a file-system implementation. Alternative implementations can
// serve monorepo-aware lookup, remote configuration, or test fixtures.
package discovery

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/confkit/datafile/codec"
	"github.com/confkit/datafile/internal/pathops"
	"github.com/confkit/datafile/internal/treeutil"
	"github.com/confkit/datafile/storage"
)

// Result describes a found configuration.
type Result struct {
	// Filepath is the absolute or search-relative path of the file the
	// configuration was found in.
	Filepath string
	// Config is the parsed configuration tree. It is nil for code-format
	// files, which the caller must evaluate through its own code loader.
	Config any
	// IsEmpty is true when the file existed but held no configuration.
	IsEmpty bool
	// DataPath is the sub-key path inside the host file that Config was
	// extracted from (for example ["mytool"] inside package.json). Empty
	// when the whole file is the configuration.
	DataPath []string
}

// Options configures a search.
type Options struct {
	// SearchFrom is the directory the upward walk starts in. Defaults to ".".
	SearchFrom string
	// StopDir, when set, ends the walk after that directory is searched.
	StopDir string
	// SearchPlaces overrides the candidate file names tried in each
	// directory. Defaults to SearchPlaces(moduleName).
	SearchPlaces []string
	// PackageProp is the manifest key holding the configuration when the
	// found file is package.json. Defaults to the module name. Dotted keys
	// address nested properties.
	PackageProp string
}

// Searcher is the discovery collaborator consumed by the datafile loader.
// A nil Result with a nil error means nothing was found.
type Searcher interface {
	Search(ctx context.Context, moduleName string, opts Options) (*Result, error)
}

// manifestFile is the project manifest searched for an embedded config key.
const manifestFile = "package.json"

// SearchPlaces returns the default candidate file names for a module name,
// in search priority order.
func SearchPlaces(moduleName string) []string {
	return []string{
		manifestFile,
		"." + moduleName + "rc",
		"." + moduleName + "rc.json",
		"." + moduleName + "rc.yaml",
		"." + moduleName + "rc.yml",
		moduleName + ".config.json",
		moduleName + ".config.yaml",
		moduleName + ".config.yml",
	}
}

// FileSearcher searches a directory tree through a storage backend.
type FileSearcher struct {
	storage storage.Storage
}

// NewFileSearcher creates a FileSearcher. A nil storage defaults to the
// operating-system backend.
func NewFileSearcher(st storage.Storage) *FileSearcher {
	if st == nil {
		st = storage.OS()
	}
	return &FileSearcher{storage: st}
}

// Search implements Searcher. Directories are walked from SearchFrom upward
// to the file-system root (or StopDir), trying each search place in order.
func (s *FileSearcher) Search(ctx context.Context, moduleName string, opts Options) (*Result, error) {
	dir := opts.SearchFrom
	if dir == "" {
		dir = "."
	}
	dir = filepath.Clean(dir)

	places := opts.SearchPlaces
	if len(places) == 0 {
		places = SearchPlaces(moduleName)
	}

	for {
		for _, place := range places {
			path := filepath.Join(dir, place)
			res, err := s.searchPlace(ctx, path, place, moduleName, opts)
			if err != nil {
				return nil, err
			}
			if res != nil {
				return res, nil
			}
		}

		if dir == opts.StopDir {
			return nil, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// searchPlace inspects a single candidate file. A nil Result means the
// candidate did not yield a configuration and the walk continues.
func (s *FileSearcher) searchPlace(ctx context.Context, path, place, moduleName string, opts Options) (*Result, error) {
	exists, err := s.storage.Exists(ctx, path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	if codec.DetectFromPath(place) == codec.FormatJS {
		// Code-format configs are evaluated by the caller's code loader.
		return &Result{Filepath: path}, nil
	}

	text, err := s.storage.ReadText(ctx, path)
	if err != nil {
		return nil, err
	}

	tree, _, parseErrs := codec.ParseAny(text)
	if parseErrs != nil {
		if len(strings.TrimSpace(string(text))) == 0 {
			return &Result{Filepath: path, IsEmpty: true}, nil
		}
		return nil, fmt.Errorf("discovery: cannot parse %q: %v", path, parseErrs)
	}
	if treeutil.IsNil(tree) {
		return &Result{Filepath: path, IsEmpty: true}, nil
	}

	if place == manifestFile {
		prop := opts.PackageProp
		if prop == "" {
			prop = moduleName
		}
		propPath := strings.Split(prop, ".")
		config, ok := pathops.Get(tree, propPath)
		if !ok {
			// Manifest exists but carries no config for this module.
			return nil, nil
		}
		return &Result{
			Filepath: path,
			Config:   config,
			IsEmpty:  treeutil.IsEmpty(config),
			DataPath: propPath,
		}, nil
	}

	return &Result{Filepath: path, Config: tree, IsEmpty: treeutil.IsEmpty(tree)}, nil
}

// Ensure FileSearcher implements Searcher at compile time.
var _ Searcher = (*FileSearcher)(nil)
