// Package collections holds the small generic containers the analyzer indexes
// are built from.
package collections

import (
	"fmt"
	"sort"
)

// Set is an unordered set backed by a map.
type Set[T comparable] map[T]struct{}

func NewSet[T comparable](vs ...T) Set[T] {
	s := make(Set[T], len(vs))
	s.Add(vs...)
	return s
}

func (s Set[T]) Add(vs ...T) {
	for _, v := range vs {
		s[v] = struct{}{}
	}
}

func (s Set[T]) Delete(v T) {
	delete(s, v)
}

func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

func (s Set[T]) Len() int {
	return len(s)
}

// Members returns the values in unspecified order.
func (s Set[T]) Members() []T {
	r := make([]T, 0, len(s))
	for v := range s {
		r = append(r, v)
	}
	return r
}

// Difference returns the members of s missing from other.
func (s Set[T]) Difference(other Set[T]) Set[T] {
	r := NewSet[T]()
	for v := range s {
		if !other.Has(v) {
			r.Add(v)
		}
	}
	return r
}

func (s Set[T]) String() string {
	parts := make([]string, 0, len(s))
	for v := range s {
		parts = append(parts, fmt.Sprint(v))
	}
	sort.Strings(parts)
	return fmt.Sprintf("%v", parts)
}
