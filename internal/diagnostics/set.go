package diagnostics

import (
	"maps"
	"slices"
)

// Set is a bag of named diagnostic values.
type Set map[string]float64

// Merge copies other into s, prefixing each key with prefix and a dot when
// prefix is not empty.
func (s Set) Merge(prefix string, other Set) {
	for k, v := range other {
		if prefix != "" {
			k = prefix + "." + k
		}
		s[k] = v
	}
}

// Keys returns the names in sorted order.
func (s Set) Keys() []string {
	return slices.Sorted(maps.Keys(s))
}
