// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures OpenRedis.
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisStore keeps each document as a JSON string under
// "<prefix>:<collection>:<id>" and tracks collection membership in the set
// "<prefix>:<collection>:_ids". UpdateFields uses WATCH/MULTI so the
// read-apply-write is atomic against other writers of the same key.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

var _ Store = (*RedisStore)(nil)

// OpenRedis connects and pings the server.
func OpenRedis(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%w: redis ping: %w", ErrUnavailable, err)
	}

	return NewRedisStore(rdb, opts.KeyPrefix), nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) key(collection, id string) string {
	if s.prefix == "" {
		return collection + ":" + id
	}
	return s.prefix + ":" + collection + ":" + id
}

func (s *RedisStore) indexKey(collection string) string {
	return s.key(collection, "_ids")
}

// GetDocument implements Store.
func (s *RedisStore) GetDocument(ctx context.Context, collection, id string) (Document, error) {
	data, err := s.rdb.Get(ctx, s.key(collection, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return nil, s.classify(err)
	}
	return unmarshalDocument(data)
}

// SetDocument implements Store.
func (s *RedisStore) SetDocument(ctx context.Context, collection, id string, doc Document) error {
	data, err := marshalDocument(doc)
	if err != nil {
		return err
	}
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(collection, id), data, 0)
		pipe.SAdd(ctx, s.indexKey(collection), id)
		return nil
	})
	return s.classify(err)
}

// UpdateFields implements Store.
func (s *RedisStore) UpdateFields(ctx context.Context, collection, id string, patch Patch) error {
	key := s.key(collection, id)

	// applyErr keeps document-level failures apart from transport failures.
	var applyErr error
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
		}
		if err != nil {
			return err
		}
		doc, err := unmarshalDocument(data)
		if err != nil {
			applyErr = err
			return err
		}
		if err := patch.Apply(doc); err != nil {
			applyErr = err
			return err
		}
		updated, err := marshalDocument(doc)
		if err != nil {
			applyErr = err
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		return err
	}

	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = s.rdb.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if applyErr != nil {
		return applyErr
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return s.classify(err)
}

// Query implements Store. Candidates are loaded with one MGET over the
// collection's id set and filtered in process.
func (s *RedisStore) Query(ctx context.Context, collection string, q Query) ([]Document, error) {
	ids, err := s.rdb.SMembers(ctx, s.indexKey(collection)).Result()
	if err != nil {
		return nil, s.classify(err)
	}
	if len(ids) == 0 {
		return evaluate(nil, q)
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(collection, id)
	}
	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, s.classify(err)
	}

	records := make([]record, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		doc, err := unmarshalDocument([]byte(raw))
		if err != nil {
			return nil, err
		}
		records = append(records, record{id: ids[i], doc: doc})
	}
	return evaluate(records, q)
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.ErrClosed):
		return fmt.Errorf("%w: %w", ErrClosed, err)
	case errors.Is(err, redis.TxFailedErr):
		return fmt.Errorf("%w: write conflict persisted after %d attempts: %w", ErrUnavailable, maxConflictRetries, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		var redisErr redis.Error
		if errors.As(err, &redisErr) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
}
