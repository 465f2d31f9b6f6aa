package codec

import (
	"bytes"
	"path/filepath"
)

// Format represents the on-disk format of a document source.
type Format string

const (
	// FormatJSON indicates a JSON source. Parsing is lenient: comments and
	// trailing commas are tolerated.
	FormatJSON Format = "json"
	// FormatYAML indicates a YAML source.
	FormatYAML Format = "yaml"
	// FormatJS indicates a dynamically-evaluated code source. Documents in
	// this format are permanently read-only.
	FormatJS Format = "js"
	// FormatUnknown indicates the format could not be determined.
	FormatUnknown Format = "unknown"
)

// DetectFromPath detects the source format from a file path extension.
func DetectFromPath(path string) Format {
	switch filepath.Ext(path) {
	case ".json", ".jsonc", ".json5":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".js", ".cjs", ".mjs":
		return FormatJS
	default:
		return FormatUnknown
	}
}

// DetectFromContent attempts to detect the format from the content bytes.
// JSON typically starts with '{' or '[', while YAML does not. This is used
// for extension-less discovery results such as rc files.
func DetectFromContent(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\n\r")
	if len(trimmed) == 0 {
		return FormatUnknown
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return FormatJSON
	}
	return FormatYAML
}
