// Package store holds the attribute values of a model behind a lock.
package store

import "sync"

// Typed provides guarded access to a single value of type T.
type Typed[T any] struct {
	mu    sync.RWMutex
	data  T
	clone func(T) T
}

// NewTyped creates a Typed holding initial. clone produces the copies handed
// out by Get; when nil, Get returns a plain value copy.
func NewTyped[T any](initial T, clone func(T) T) *Typed[T] {
	return &Typed[T]{
		data:  initial,
		clone: clone,
	}
}

// Get returns a copy of the current value.
func (s *Typed[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.clone != nil {
		return s.clone(s.data)
	}
	return s.data
}

// View runs fn with read access to the value. fn must not retain the
// pointer or write through it.
func (s *Typed[T]) View(fn func(*T)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.data)
}

// Update runs fn with write access to the value.
func (s *Typed[T]) Update(fn func(*T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.data)
}
