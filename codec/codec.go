// Package codec provides the pluggable parse/serialize collaborators used by
// datafile documents.
//
// Both codecs produce and consume order-preserving trees: objects are
// *orderedmap.OrderedMap, arrays are []any, and scalars are plain Go values.
// Key order observed in the source survives a parse/serialize round trip;
// comments and exact whitespace do not.
package codec

import "fmt"

// Codec parses raw file content into a data tree and serializes a tree back
// to text.
type Codec interface {
	// Parse decodes data into an ordered tree. Empty content yields a nil
	// tree and no error; shape validation is the loader's concern.
	Parse(data []byte) (any, error)

	// Serialize encodes a tree to text, preserving object key order.
	Serialize(tree any) ([]byte, error)
}

// ForFormat returns the codec for a structured text format. There is no
// codec for FormatJS or FormatUnknown.
func ForFormat(f Format) (Codec, bool) {
	switch f {
	case FormatJSON:
		return JSON{}, true
	case FormatYAML:
		return YAML{}, true
	default:
		return nil, false
	}
}

// ParseAny decodes content by trying the JSON codec first and the YAML codec
// second. On success it returns the tree and the format that accepted the
// content. When both codecs fail, the returned slice carries both errors in
// attempt order so callers can aggregate them into one message.
func ParseAny(data []byte) (any, Format, []error) {
	tree, jsonErr := JSON{}.Parse(data)
	if jsonErr == nil {
		return tree, FormatJSON, nil
	}

	tree, yamlErr := YAML{}.Parse(data)
	if yamlErr == nil {
		return tree, FormatYAML, nil
	}

	return nil, FormatUnknown, []error{
		fmt.Errorf("json: %w", jsonErr),
		fmt.Errorf("yaml: %w", yamlErr),
	}
}
