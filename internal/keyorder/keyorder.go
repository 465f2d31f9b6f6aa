// Package keyorder recomputes the key order of an object container given
// pinned prefix and suffix key lists.
package keyorder

import (
	"slices"

	"github.com/iancoleman/orderedmap"
)

// Pins names keys whose position is fixed: Start keys come first in the
// given order, End keys come last, and everything else is sorted
// lexicographically in between. Keys listed here but absent from the
// container are dropped, not invented.
type Pins struct {
	Start []string
	End   []string
}

// Reorder returns a container whose iteration order is the computed order,
// plus a flag reporting whether the order actually changed. When the computed
// order matches the container's current key enumeration, the input container
// is returned unchanged so callers can avoid marking documents dirty.
func Reorder(m *orderedmap.OrderedMap, pins Pins) (*orderedmap.OrderedMap, bool) {
	current := m.Keys()
	desired := desiredOrder(current, pins)

	if slices.Equal(current, desired) {
		return m, false
	}

	result := orderedmap.New()
	for _, k := range desired {
		v, _ := m.Get(k)
		result.Set(k, v)
	}
	return result, true
}

// desiredOrder builds the candidate order (deduplicated start pins, then the
// remaining keys sorted ascending, then deduplicated end pins) filtered down
// to keys actually present.
func desiredOrder(present []string, pins Pins) []string {
	presentSet := make(map[string]bool, len(present))
	for _, k := range present {
		presentSet[k] = true
	}

	seen := make(map[string]bool, len(present))
	order := make([]string, 0, len(present))

	appendKey := func(k string) {
		if presentSet[k] && !seen[k] {
			seen[k] = true
			order = append(order, k)
		}
	}

	for _, k := range pins.Start {
		appendKey(k)
	}

	endSet := make(map[string]bool, len(pins.End))
	for _, k := range pins.End {
		endSet[k] = true
	}

	var middle []string
	for _, k := range present {
		if !seen[k] && !endSet[k] {
			middle = append(middle, k)
		}
	}
	slices.Sort(middle)
	for _, k := range middle {
		appendKey(k)
	}

	for _, k := range pins.End {
		appendKey(k)
	}

	return order
}
