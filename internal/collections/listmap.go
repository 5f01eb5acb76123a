package collections

import "slices"

// ListMap maps each key to an ordered list of distinct values.
// Adding a value already present under a key is a no-op.
type ListMap[K comparable, V comparable] struct {
	m map[K][]V
}

func NewListMap[K comparable, V comparable]() *ListMap[K, V] {
	return &ListMap[K, V]{m: make(map[K][]V)}
}

func (lm *ListMap[K, V]) Add(key K, value V) {
	list := lm.m[key]
	if slices.Contains(list, value) {
		return
	}
	lm.m[key] = append(list, value)
}

// Get returns the values under key. The slice must not be modified.
func (lm *ListMap[K, V]) Get(key K) []V {
	return lm.m[key]
}

func (lm *ListMap[K, V]) Has(key K) bool {
	return len(lm.m[key]) > 0
}

// Delete removes a single value, dropping the key once its list is empty.
func (lm *ListMap[K, V]) Delete(key K, value V) {
	list := lm.m[key]
	i := slices.Index(list, value)
	if i < 0 {
		return
	}
	list = slices.Delete(slices.Clone(list), i, i+1)
	if len(list) == 0 {
		delete(lm.m, key)
		return
	}
	lm.m[key] = list
}

// DeleteKey removes key and every value under it.
func (lm *ListMap[K, V]) DeleteKey(key K) {
	delete(lm.m, key)
}

func (lm *ListMap[K, V]) Keys() []K {
	keys := make([]K, 0, len(lm.m))
	for k := range lm.m {
		keys = append(keys, k)
	}
	return keys
}

// Values returns every value across all keys.
func (lm *ListMap[K, V]) Values() []V {
	var out []V
	for _, list := range lm.m {
		out = append(out, list...)
	}
	return out
}

// KeyCount is the number of keys holding at least one value.
func (lm *ListMap[K, V]) KeyCount() int {
	return len(lm.m)
}
