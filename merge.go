package datafile

import (
	"github.com/confkit/datafile/internal/treeutil"
)

// deepMerge merges source into target and returns the merged value.
// Containers of the same kind merge recursively (objects by key, arrays by
// index, with longer sources appending); anything else is overwritten by the
// incoming value — except Undefined, which preserves the existing value.
// Object targets are mutated in place; the return value must still be used,
// since mismatched kinds replace the target wholesale.
func deepMerge(target, source any) any {
	if isUndefined(source) {
		return target
	}

	if tm, ok := treeutil.ToOrderedMap(target); ok {
		if sm, ok := treeutil.ToOrderedMap(source); ok {
			for _, k := range sm.Keys() {
				sv, _ := sm.Get(k)
				if isUndefined(sv) {
					continue
				}
				if tv, exists := tm.Get(k); exists {
					tm.Set(k, deepMerge(tv, sv))
				} else {
					tm.Set(k, sv)
				}
			}
			return tm
		}
	}

	if ta, ok := target.([]any); ok {
		if sa, ok := source.([]any); ok {
			for i, sv := range sa {
				if isUndefined(sv) {
					continue
				}
				if i < len(ta) {
					ta[i] = deepMerge(ta[i], sv)
				} else {
					ta = append(ta, sv)
				}
			}
			return ta
		}
	}

	return source
}
