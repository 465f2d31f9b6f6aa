// Package dferrors provides structured error types for the datafile library.
//
// Import path: github.com/confkit/datafile/dferrors
//
// This package enables programmatic error handling via [errors.Is] and
// [errors.As], allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
//
// # Error Types
//
//   - [UnsupportedFormatError]: file extension outside the recognized set
//   - [ParseError]: content present but unparseable by any codec
//   - [InvalidShapeError]: parsed root is not an object or array
//   - [ReadOnlyError]: save attempted on a read-only document
//   - [ConstructionError]: document cannot be constructed for the target
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel for use with errors.Is():
//
//   - [ErrUnsupportedFormat]: matches any [UnsupportedFormatError]
//   - [ErrParse]: matches any [ParseError]
//   - [ErrInvalidShape]: matches any [InvalidShapeError]
//   - [ErrReadOnly]: matches any [ReadOnlyError]
//   - [ErrConstruction]: matches any [ConstructionError]
//
// # Usage
//
//	doc, err := datafile.Load(ctx, "config.xyz")
//	if errors.Is(err, dferrors.ErrUnsupportedFormat) {
//	    // fall back to a default configuration
//	}
//
// Note that "file does not exist" is not an error category here: a missing
// file yields a document with Found() == false and the default data.
package dferrors
