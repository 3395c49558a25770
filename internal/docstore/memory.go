// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package docstore

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps documents in process memory. Documents are stored
// encoded so callers never share mutable state with the store.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
	closed      bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string][]byte)}
}

// GetDocument implements Store.
func (s *MemoryStore) GetDocument(_ context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}
	data, ok := s.collections[collection][id]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return unmarshalDocument(data)
}

// SetDocument implements Store.
func (s *MemoryStore) SetDocument(_ context.Context, collection, id string, doc Document) error {
	data, err := marshalDocument(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	coll, ok := s.collections[collection]
	if !ok {
		coll = make(map[string][]byte)
		s.collections[collection] = coll
	}
	coll[id] = data
	return nil
}

// UpdateFields implements Store. The whole read-apply-write runs under the
// write lock.
func (s *MemoryStore) UpdateFields(_ context.Context, collection, id string, patch Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	data, ok := s.collections[collection][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	doc, err := unmarshalDocument(data)
	if err != nil {
		return err
	}
	if err := patch.Apply(doc); err != nil {
		return err
	}
	updated, err := marshalDocument(doc)
	if err != nil {
		return err
	}
	s.collections[collection][id] = updated
	return nil
}

// Query implements Store.
func (s *MemoryStore) Query(_ context.Context, collection string, q Query) ([]Document, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, ErrClosed
	}
	records := make([]record, 0, len(s.collections[collection]))
	var decodeErr error
	for id, data := range s.collections[collection] {
		doc, err := unmarshalDocument(data)
		if err != nil {
			decodeErr = err
			break
		}
		records = append(records, record{id: id, doc: doc})
	}
	s.mu.RUnlock()

	if decodeErr != nil {
		return nil, decodeErr
	}
	return evaluate(records, q)
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
