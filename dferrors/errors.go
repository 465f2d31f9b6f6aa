package dferrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrUnsupportedFormat indicates a file extension outside the recognized set.
	ErrUnsupportedFormat = errors.New("unsupported file type")

	// ErrParse indicates that neither codec could parse the file content.
	ErrParse = errors.New("parse error")

	// ErrInvalidShape indicates the parsed root value is not an object or array.
	ErrInvalidShape = errors.New("invalid document shape")

	// ErrReadOnly indicates a save was attempted on a read-only document.
	ErrReadOnly = errors.New("read-only document")

	// ErrConstruction indicates a document could not be constructed for the
	// requested target (for example, FromData on a js file).
	ErrConstruction = errors.New("construction error")
)

// UnsupportedFormatError reports a file whose extension is not in the
// recognized set and for which no discovery path was taken.
type UnsupportedFormatError struct {
	// Path is the file path that was rejected
	Path string
	// Extension is the offending file extension (may be empty)
	Extension string
}

// Error returns a human-readable error message.
func (e *UnsupportedFormatError) Error() string {
	msg := fmt.Sprintf("Unsupported file type: %q", e.Path)
	if e.Extension != "" {
		msg += fmt.Sprintf(" (extension %q)", e.Extension)
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// ParseError reports content that was present but could not be parsed by any
// codec. When both the JSON and YAML codecs were attempted, both underlying
// errors are aggregated into the message.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Causes holds the underlying codec errors, in attempt order
	Causes []error
}

// Error returns a human-readable error message aggregating all causes.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if len(e.Causes) > 0 {
		parts := make([]string, 0, len(e.Causes))
		for _, c := range e.Causes {
			parts = append(parts, c.Error())
		}
		msg += ": " + strings.Join(parts, "; ")
	}
	return msg
}

// Unwrap returns the underlying causes for error chaining.
func (e *ParseError) Unwrap() []error {
	return e.Causes
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// InvalidShapeError reports a successfully parsed root value that is not a
// container (a bare number, string, or wholly empty content).
type InvalidShapeError struct {
	// Path is the file path or source identifier
	Path string
	// Got describes the offending root value type (may be empty)
	Got string
}

// Error returns a human-readable error message.
func (e *InvalidShapeError) Error() string {
	msg := "data"
	if e.Path != "" {
		msg = fmt.Sprintf("data in %q", e.Path)
	}
	msg += " must be an object or array"
	if e.Got != "" {
		msg += ", got " + e.Got
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *InvalidShapeError) Is(target error) bool {
	return target == ErrInvalidShape
}

// ReadOnlyError reports a save attempted on a read-only document.
type ReadOnlyError struct {
	// Path is the document's source path
	Path string
	// Reason describes why the document is read-only
	// (for example "derived from a js file")
	Reason string
}

// Error returns a human-readable error message.
func (e *ReadOnlyError) Error() string {
	msg := fmt.Sprintf("Cannot save %q", e.Path)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ReadOnlyError) Is(target error) bool {
	return target == ErrReadOnly
}

// ConstructionError reports a document that cannot be constructed for the
// requested target.
type ConstructionError struct {
	// Path is the target file path
	Path string
	// Message describes the construction failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConstructionError) Error() string {
	msg := fmt.Sprintf("Cannot create data file for %q", e.Path)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConstructionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConstructionError) Is(target error) bool {
	return target == ErrConstruction
}
