// Package pathops implements path resolution and mutation over the ordered
// data trees used by datafile documents.
//
// Paths are string-segment slices. When walking an array, a segment is
// interpreted as a decimal index; when creating missing intermediate
// containers, an array is created if the next segment looks like a
// non-negative integer index, otherwise an object.
package pathops

import (
	"strconv"

	"github.com/iancoleman/orderedmap"

	"github.com/confkit/datafile/internal/treeutil"
)

// Get walks the tree along segments and returns the value at the terminal
// key. The boolean reports own-property presence: a present key holding nil
// still returns true. Missing intermediate segments never panic; they simply
// yield false.
func Get(root any, segments []string) (any, bool) {
	if len(segments) == 0 {
		return root, true
	}
	key, rest := segments[0], segments[1:]

	if m, ok := treeutil.ToOrderedMap(root); ok {
		child, exists := m.Get(key)
		if !exists {
			return nil, false
		}
		return Get(child, rest)
	}
	if arr, ok := root.([]any); ok {
		idx, ok := parseIndex(key)
		if !ok || idx >= len(arr) {
			return nil, false
		}
		return Get(arr[idx], rest)
	}
	return nil, false
}

// Has reports whether the path resolves to an existing key.
func Has(root any, segments []string) bool {
	_, ok := Get(root, segments)
	return ok
}

// Set writes value at the path, creating missing intermediate containers.
// The possibly-replaced root is returned: growing an array or replacing a
// non-container intermediate yields a new node, so callers must store the
// result back.
//
// An empty segment list replaces the root wholesale.
func Set(root any, segments []string, value any) any {
	if len(segments) == 0 {
		return value
	}
	key, rest := segments[0], segments[1:]

	if arr, ok := root.([]any); ok {
		idx, isIdx := parseIndex(key)
		if !isIdx {
			// Arrays have no string keys; nothing sensible to write.
			return root
		}
		for len(arr) <= idx {
			arr = append(arr, nil)
		}
		if len(rest) == 0 {
			arr[idx] = value
		} else {
			child := arr[idx]
			if !treeutil.IsContainer(child) {
				child = newContainer(rest[0])
			}
			arr[idx] = Set(child, rest, value)
		}
		return arr
	}

	m, ok := treeutil.ToOrderedMap(root)
	if !ok {
		m = orderedmap.New()
	}
	if len(rest) == 0 {
		m.Set(key, value)
		return m
	}
	child, exists := m.Get(key)
	if !exists || !treeutil.IsContainer(child) {
		child = newContainer(rest[0])
	}
	m.Set(key, Set(child, rest, value))
	return m
}

// Unset removes the terminal key of the path. It returns the
// possibly-replaced root and whether a removal happened. Ancestors that
// become empty are left in place; see DeleteEmpty for upward pruning.
func Unset(root any, segments []string) (any, bool) {
	if len(segments) == 0 {
		return root, false
	}
	key, rest := segments[0], segments[1:]

	if m, ok := treeutil.ToOrderedMap(root); ok {
		child, exists := m.Get(key)
		if !exists {
			return root, false
		}
		if len(rest) == 0 {
			m.Delete(key)
			return root, true
		}
		newChild, removed := Unset(child, rest)
		m.Set(key, newChild)
		return root, removed
	}

	if arr, ok := root.([]any); ok {
		idx, isIdx := parseIndex(key)
		if !isIdx || idx >= len(arr) {
			return root, false
		}
		if len(rest) == 0 {
			return append(arr[:idx], arr[idx+1:]...), true
		}
		newChild, removed := Unset(arr[idx], rest)
		arr[idx] = newChild
		return arr, removed
	}

	return root, false
}

// DeleteEmpty removes the value at the path, then walks upward removing each
// ancestor that became empty (nil, empty string, or empty container),
// stopping at the first non-empty ancestor or the root. The possibly-replaced
// root is returned.
func DeleteEmpty(root any, segments []string) any {
	if len(segments) == 0 {
		return root
	}
	root, _ = Unset(root, segments)
	for parent := segments[:len(segments)-1]; len(parent) > 0; parent = parent[:len(parent)-1] {
		v, ok := Get(root, parent)
		if !ok || !treeutil.IsEmpty(v) {
			break
		}
		root, _ = Unset(root, parent)
	}
	return root
}

// newContainer picks the container kind for a missing intermediate node
// based on the segment that will index into it.
func newContainer(nextSegment string) any {
	if _, ok := parseIndex(nextSegment); ok {
		return []any{}
	}
	return orderedmap.New()
}

// parseIndex interprets a segment as a non-negative decimal array index.
func parseIndex(segment string) (int, bool) {
	if segment == "" {
		return 0, false
	}
	for i := 0; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return 0, false
		}
	}
	idx, err := strconv.Atoi(segment)
	if err != nil {
		return 0, false
	}
	return idx, true
}
