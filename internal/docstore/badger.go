// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// maxConflictRetries bounds how often UpdateFields retries a transaction
// that lost a write conflict to a concurrent writer.
const maxConflictRetries = 32

// BadgerOptions configures OpenBadger.
type BadgerOptions struct {
	Path       string
	InMemory   bool
	SyncWrites bool
	KeyPrefix  string
}

// BadgerStore persists documents in an embedded BadgerDB.
//
// Keys are laid out as "<prefix>:<collection>:<id>" so a collection scan is a
// prefix iteration. UpdateFields runs read-apply-write inside one
// serializable transaction.
type BadgerStore struct {
	db     *badger.DB
	prefix string
	owned  bool
}

var _ Store = (*BadgerStore)(nil)

// OpenBadger opens (or creates) a BadgerDB and wraps it as a Store.
func OpenBadger(opts BadgerOptions) (*BadgerStore, error) {
	path := opts.Path
	if opts.InMemory {
		path = ""
	}
	bopts := badger.DefaultOptions(path)
	bopts.InMemory = opts.InMemory
	bopts.SyncWrites = opts.SyncWrites
	bopts.Logger = nil

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	s := NewBadgerStore(db, opts.KeyPrefix)
	s.owned = true
	return s, nil
}

// NewBadgerStore wraps an already open database. Close will not close db.
func NewBadgerStore(db *badger.DB, prefix string) *BadgerStore {
	return &BadgerStore{db: db, prefix: prefix}
}

func (s *BadgerStore) collectionPrefix(collection string) string {
	if s.prefix == "" {
		return collection + ":"
	}
	return s.prefix + ":" + collection + ":"
}

func (s *BadgerStore) key(collection, id string) []byte {
	return []byte(s.collectionPrefix(collection) + id)
}

// GetDocument implements Store.
func (s *BadgerStore) GetDocument(_ context.Context, collection, id string) (Document, error) {
	var doc Document
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key(collection, id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var derr error
			doc, derr = unmarshalDocument(val)
			return derr
		})
	})
	if err != nil {
		return nil, s.classify(err)
	}
	return doc, nil
}

// SetDocument implements Store.
func (s *BadgerStore) SetDocument(_ context.Context, collection, id string, doc Document) error {
	data, err := marshalDocument(doc)
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key(collection, id), data)
	})
	return s.classify(err)
}

// UpdateFields implements Store.
func (s *BadgerStore) UpdateFields(ctx context.Context, collection, id string, patch Patch) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = s.db.Update(func(txn *badger.Txn) error {
			key := s.key(collection, id)
			item, err := txn.Get(key)
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
			}
			if err != nil {
				return err
			}
			var doc Document
			if err := item.Value(func(val []byte) error {
				var derr error
				doc, derr = unmarshalDocument(val)
				return derr
			}); err != nil {
				return err
			}
			if err := patch.Apply(doc); err != nil {
				return err
			}
			data, err := marshalDocument(doc)
			if err != nil {
				return err
			}
			return txn.Set(key, data)
		})
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	return s.classify(err)
}

// Query implements Store by scanning the collection prefix.
func (s *BadgerStore) Query(_ context.Context, collection string, q Query) ([]Document, error) {
	prefix := []byte(s.collectionPrefix(collection))
	var records []record

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			id := strings.TrimPrefix(string(item.Key()), string(prefix))
			err := item.Value(func(val []byte) error {
				doc, err := unmarshalDocument(val)
				if err != nil {
					return err
				}
				records = append(records, record{id: id, doc: doc})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.classify(err)
	}
	return evaluate(records, q)
}

// RunGC reclaims value log space. It returns nil when there was nothing to collect.
func (s *BadgerStore) RunGC(discardRatio float64) error {
	err := s.db.RunValueLogGC(discardRatio)
	if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) || errors.Is(err, badger.ErrGCInMemoryMode) {
		return nil
	}
	return err
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// classify maps badger failures onto the store sentinels.
func (s *BadgerStore) classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, badger.ErrDBClosed):
		return fmt.Errorf("%w: %w", ErrClosed, err)
	case errors.Is(err, badger.ErrConflict):
		return fmt.Errorf("%w: write conflict persisted after %d attempts: %w", ErrUnavailable, maxConflictRetries, err)
	default:
		return err
	}
}
