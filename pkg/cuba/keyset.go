package cuba

import (
	"sort"
	"strings"
)

// KeySet is a set of keys.
type KeySet map[Key]struct{}

// NewKeySet returns a set holding keys.
func NewKeySet(keys ...Key) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether k is in the set.
func (s KeySet) Has(k Key) bool {
	_, ok := s[k]
	return ok
}

// Add inserts k.
func (s KeySet) Add(k Key) {
	s[k] = struct{}{}
}

// Len returns the number of keys.
func (s KeySet) Len() int { return len(s) }

// Intersect returns the keys present in both sets.
func (s KeySet) Intersect(other KeySet) KeySet {
	out := NewKeySet()
	for k := range s {
		if other.Has(k) {
			out.Add(k)
		}
	}
	return out
}

// Difference returns the keys of s absent from other.
func (s KeySet) Difference(other KeySet) KeySet {
	out := NewKeySet()
	for k := range s {
		if !other.Has(k) {
			out.Add(k)
		}
	}
	return out
}

// Sorted returns the keys in declaration order.
func (s KeySet) Sorted() []Key {
	keys := make([]Key, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (s KeySet) String() string {
	names := make([]string, 0, len(s))
	for _, k := range s.Sorted() {
		names = append(names, k.String())
	}
	return "{" + strings.Join(names, ", ") + "}"
}
