// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package attr

import (
	"maps"
	"sync"
)

// Store is the heterogeneous attribute container owned by each figure,
// keyed by [Accessor] identity. The zero value is ready to use.
// It is safe for concurrent use, because attribute values of one figure
// can be assigned by several goroutines while a document is read.
type Store struct {
	mu     sync.RWMutex
	values map[Accessor]any
}

// Get returns the value stored for the given accessor,
// and whether there is one.
func (s *Store) Get(a Accessor) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[a]
	return v, ok
}

// Set stores the given value for the given accessor, returning the
// previous value and whether there was one.
func (s *Store) Set(a Accessor, v any) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = map[Accessor]any{}
	}
	old, had := s.values[a]
	s.values[a] = v
	return old, had
}

// Delete removes the value for the given accessor, returning the
// previous value and whether there was one.
func (s *Store) Delete(a Accessor) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, had := s.values[a]
	delete(s.values, a)
	return old, had
}

// Has returns whether a value is stored for the given accessor.
func (s *Store) Has(a Accessor) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[a]
	return ok
}

// Len returns the number of stored values.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Keys returns the accessors that have stored values, in no particular order.
func (s *Store) Keys() []Accessor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]Accessor, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	return keys
}

// Map returns a shallow copy of the stored values.
func (s *Store) Map() map[Accessor]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}

// Reset removes all stored values.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = nil
}
