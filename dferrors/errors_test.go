package dferrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnsupportedFormatError(t *testing.T) {
	err := &UnsupportedFormatError{Path: "config.toml", Extension: ".toml"}
	assert.Contains(t, err.Error(), `Unsupported file type: "config.toml"`)
	assert.Contains(t, err.Error(), `.toml`)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.False(t, errors.Is(err, ErrParse))
}

func TestParseError(t *testing.T) {
	jsonErr := fmt.Errorf("json: bad token")
	yamlErr := fmt.Errorf("yaml: bad indent")
	err := &ParseError{Path: "app.json", Causes: []error{jsonErr, yamlErr}}

	assert.Contains(t, err.Error(), "app.json")
	assert.Contains(t, err.Error(), "json: bad token")
	assert.Contains(t, err.Error(), "yaml: bad indent")
	assert.True(t, errors.Is(err, ErrParse))
	assert.True(t, errors.Is(err, jsonErr))
	assert.True(t, errors.Is(err, yamlErr))
}

func TestInvalidShapeError(t *testing.T) {
	err := &InvalidShapeError{Path: "app.json", Got: "float64"}
	assert.Contains(t, err.Error(), "must be an object or array")
	assert.Contains(t, err.Error(), "float64")
	assert.True(t, errors.Is(err, ErrInvalidShape))

	bare := &InvalidShapeError{}
	assert.Contains(t, bare.Error(), "must be an object")
}

func TestReadOnlyError(t *testing.T) {
	err := &ReadOnlyError{Path: "config.js", Reason: "derived from a js file"}
	assert.Contains(t, err.Error(), `Cannot save "config.js"`)
	assert.Contains(t, err.Error(), "derived from a js file")
	assert.True(t, errors.Is(err, ErrReadOnly))
}

func TestConstructionError(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := &ConstructionError{Path: "config.js", Message: "cannot hold data for a js file", Cause: cause}
	assert.Contains(t, err.Error(), `Cannot create data file for "config.js"`)
	assert.Contains(t, err.Error(), "cannot hold data for a js file")
	assert.True(t, errors.Is(err, ErrConstruction))
	require.True(t, errors.Is(err, cause))
	assert.Equal(t, cause, errors.Unwrap(err))
}
