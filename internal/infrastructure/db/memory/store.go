// Package memory holds process-local repositories. They are volatile and meant
// for development and tests; production runs on the mongo package.
package memory

import "sync"

// Store is a mutex-guarded key/value map. Values are copied on the way in and
// out through clone so callers never share memory with the store.
type Store[V any] struct {
	mu    sync.RWMutex
	items map[string]V
	order []string
	clone func(V) V
}

func NewStore[V any](clone func(V) V) *Store[V] {
	if clone == nil {
		clone = func(v V) V { return v }
	}
	return &Store[V]{items: make(map[string]V), clone: clone}
}

func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	return s.clone(v), true
}

func (s *Store[V]) Put(key string, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[key]; !ok {
		s.order = append(s.order, key)
	}
	s.items[key] = s.clone(v)
}

// PutIfAbsent stores v unless key is already present and reports whether it
// stored.
func (s *Store[V]) PutIfAbsent(key string, v V) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[key]; ok {
		return false
	}
	s.order = append(s.order, key)
	s.items[key] = s.clone(v)
	return true
}

// Values returns copies of all values in insertion order.
func (s *Store[V]) Values() []V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]V, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.clone(s.items[k]))
	}
	return out
}
