package codec

import (
	"fmt"

	"github.com/iancoleman/orderedmap"
	"go.yaml.in/yaml/v4"

	"github.com/confkit/datafile/internal/treeutil"
)

// YAML is the codec for YAML sources. Decoding goes through the yaml.Node
// representation so mapping key order is captured into ordered maps, and
// encoding rebuilds a node tree in that order.
type YAML struct{}

// Parse implements Codec.
func (YAML) Parse(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if root.Kind == 0 {
		// Empty or comment-only document.
		return nil, nil
	}
	return nodeToTree(&root)
}

// Serialize implements Codec.
func (YAML) Serialize(tree any) ([]byte, error) {
	node, err := treeToNode(tree)
	if err != nil {
		return nil, err
	}
	data, err := yaml.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("cannot serialize YAML: %w", err)
	}
	return data, nil
}

// nodeToTree converts a decoded yaml.Node into an ordered tree.
func nodeToTree(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return nodeToTree(node.Content[0])

	case yaml.MappingNode:
		m := orderedmap.New()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valNode := node.Content[i], node.Content[i+1]
			val, err := nodeToTree(valNode)
			if err != nil {
				return nil, err
			}
			m.Set(keyNode.Value, val)
		}
		return m, nil

	case yaml.SequenceNode:
		arr := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			val, err := nodeToTree(child)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		return arr, nil

	case yaml.AliasNode:
		return nodeToTree(node.Alias)

	default:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("invalid YAML scalar at line %d: %w", node.Line, err)
		}
		return v, nil
	}
}

// treeToNode converts an ordered tree into a yaml.Node, emitting mapping
// keys in the tree's insertion order.
func treeToNode(v any) (*yaml.Node, error) {
	if treeutil.IsNil(v) {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}

	if m, ok := treeutil.ToOrderedMap(v); ok {
		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range m.Keys() {
			child, _ := m.Get(k)
			valNode, err := treeToNode(child)
			if err != nil {
				return nil, err
			}
			keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
			node.Content = append(node.Content, keyNode, valNode)
		}
		return node, nil
	}

	switch val := v.(type) {
	case map[string]any:
		return treeToNode(treeutil.Normalize(val))
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Content: make([]*yaml.Node, 0, len(val))}
		for _, item := range val {
			child, err := treeToNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	default:
		node := &yaml.Node{}
		if err := node.Encode(val); err != nil {
			return nil, fmt.Errorf("cannot serialize %T as YAML: %w", val, err)
		}
		return node, nil
	}
}

// Ensure YAML implements Codec at compile time.
var _ Codec = YAML{}
