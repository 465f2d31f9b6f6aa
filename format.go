package datafile

import (
	"context"

	"github.com/confkit/datafile/codec"
)

// Format re-exports the codec format enum for convenience.
type Format = codec.Format

// Format constants re-exported from the codec package.
const (
	FormatJSON    = codec.FormatJSON
	FormatYAML    = codec.FormatYAML
	FormatJS      = codec.FormatJS
	FormatUnknown = codec.FormatUnknown
)

// CodeLoader is the collaborator that evaluates a code-format configuration
// file (a .js config module) into a data value. The core never executes code
// itself; documents produced through a CodeLoader are permanently read-only.
type CodeLoader interface {
	Load(ctx context.Context, path string) (any, error)
}
