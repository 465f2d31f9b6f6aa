// Package treeutil provides helpers for the ordered data trees used to
// represent parsed documents: objects are *orderedmap.OrderedMap, arrays are
// []any, and scalars are plain Go values (nil is JSON null).
package treeutil

import (
	"reflect"
	"slices"

	"github.com/iancoleman/orderedmap"
)

// ToOrderedMap converts both value and pointer forms of OrderedMap to a
// pointer. Returns nil and false if v is not an ordered map.
func ToOrderedMap(v any) (*orderedmap.OrderedMap, bool) {
	switch val := v.(type) {
	case *orderedmap.OrderedMap:
		return val, val != nil
	case orderedmap.OrderedMap:
		return &val, true
	default:
		return nil, false
	}
}

// Normalize converts a value into canonical tree form: plain maps become
// ordered maps (keys sorted for determinism, matching serialization of
// unordered input), value-form ordered maps become pointers, and array
// elements are normalized recursively. Scalars pass through unchanged.
func Normalize(v any) any {
	switch val := v.(type) {
	case *orderedmap.OrderedMap:
		for _, k := range val.Keys() {
			child, _ := val.Get(k)
			val.Set(k, Normalize(child))
		}
		return val
	case orderedmap.OrderedMap:
		return Normalize(&val)
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		m := orderedmap.New()
		for _, k := range keys {
			m.Set(k, Normalize(val[k]))
		}
		return m
	case []any:
		for i, item := range val {
			val[i] = Normalize(item)
		}
		return val
	default:
		return val
	}
}

// DeepCopy creates a deep copy of a normalized tree. Scalars are immutable
// and returned as-is.
func DeepCopy(v any) any {
	switch val := v.(type) {
	case *orderedmap.OrderedMap:
		result := orderedmap.New()
		for _, k := range val.Keys() {
			child, _ := val.Get(k)
			result.Set(k, DeepCopy(child))
		}
		return result
	case orderedmap.OrderedMap:
		return DeepCopy(&val)
	case map[string]any:
		return DeepCopy(Normalize(val))
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = DeepCopy(item)
		}
		return result
	default:
		return val
	}
}

// DeepEqual reports structural equality of two trees. Key order is not part
// of equality: two objects with the same key/value bindings compare equal
// regardless of insertion order. Numeric scalars compare by value across
// int/int64/float64 representations.
func DeepEqual(a, b any) bool {
	am, aIsMap := ToOrderedMap(a)
	bm, bIsMap := ToOrderedMap(b)
	if aIsMap || bIsMap {
		if !aIsMap || !bIsMap {
			return false
		}
		aKeys := am.Keys()
		if len(aKeys) != len(bm.Keys()) {
			return false
		}
		for _, k := range aKeys {
			av, _ := am.Get(k)
			bv, ok := bm.Get(k)
			if !ok || !DeepEqual(av, bv) {
				return false
			}
		}
		return true
	}

	as, aIsSlice := a.([]any)
	bs, bIsSlice := b.([]any)
	if aIsSlice || bIsSlice {
		if !aIsSlice || !bIsSlice || len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !DeepEqual(as[i], bs[i]) {
				return false
			}
		}
		return true
	}

	if af, aNum := toFloat(a); aNum {
		if bf, bNum := toFloat(b); bNum {
			return af == bf
		}
		return false
	}

	return a == b
}

// toFloat widens the numeric scalar types produced by the codecs.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

// ToPlain converts a tree into plain Go values (map[string]any for objects),
// losing key order. Used when handing data to engines that only understand
// maps, such as expression evaluators.
func ToPlain(v any) any {
	if m, ok := ToOrderedMap(v); ok {
		result := make(map[string]any, len(m.Keys()))
		for _, k := range m.Keys() {
			child, _ := m.Get(k)
			result[k] = ToPlain(child)
		}
		return result
	}
	if arr, ok := v.([]any); ok {
		result := make([]any, len(arr))
		for i, item := range arr {
			result[i] = ToPlain(item)
		}
		return result
	}
	return v
}

// IsContainer reports whether v is an object or array tree node.
func IsContainer(v any) bool {
	if _, ok := ToOrderedMap(v); ok {
		return true
	}
	if _, ok := v.(map[string]any); ok {
		return true
	}
	_, ok := v.([]any)
	return ok
}

// IsEmpty reports whether v is nil, an empty string, or an empty container.
func IsEmpty(v any) bool {
	if IsNil(v) {
		return true
	}
	switch val := v.(type) {
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		if m, ok := ToOrderedMap(v); ok {
			return len(m.Keys()) == 0
		}
		return false
	}
}

// IsNil reports whether v is nil, including typed nil pointers inside
// interfaces.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// EqualPtr compares two pointers of any comparable type for equality.
// Both nil returns true, both non-nil with equal values returns true.
func EqualPtr[T comparable](a, b *T) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
