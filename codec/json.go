package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/iancoleman/orderedmap"
	"github.com/tailscale/hujson"

	"github.com/confkit/datafile/internal/treeutil"
)

// JSON is the codec for the lenient JSON variant (JWCC: JSON with comments
// and trailing commas). Content is standardized through hujson before
// decoding, and objects decode into ordered maps so that key order survives
// the round trip.
type JSON struct{}

// Parse implements Codec.
func (JSON) Parse(data []byte) (any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	std = bytes.TrimSpace(std)

	switch std[0] {
	case '{':
		m := orderedmap.New()
		if err := json.Unmarshal(std, m); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		return treeutil.Normalize(m), nil
	case '[':
		// Decoding through a wrapper object routes array elements through
		// orderedmap's decoder, keeping nested object key order.
		wrapped := make([]byte, 0, len(std)+10)
		wrapped = append(wrapped, `{"root":`...)
		wrapped = append(wrapped, std...)
		wrapped = append(wrapped, '}')
		m := orderedmap.New()
		if err := json.Unmarshal(wrapped, m); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		root, _ := m.Get("root")
		return treeutil.Normalize(root), nil
	default:
		var v any
		if err := json.Unmarshal(std, &v); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		return v, nil
	}
}

// Serialize implements Codec. Output is two-space indented with a trailing
// newline, matching the dominant convention for committed JSON config files.
func (JSON) Serialize(tree any) ([]byte, error) {
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("cannot serialize JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Ensure JSON implements Codec at compile time.
var _ Codec = JSON{}
