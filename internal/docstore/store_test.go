// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package docstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/tomtom215/headliner/internal/validation"
)

// conformance runs the same behavioral checks against every backend.
func conformance(t *testing.T, newStore func(t *testing.T) Store) {
	t.Helper()

	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetDocument(context.Background(), "users", "nobody")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("GetDocument error = %v, want ErrNotFound", err)
		}
	})

	t.Run("SetThenGet", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		in := Document{"profileName": "ada", "level": 3, "tags": []string{"Tech"}}
		if err := s.SetDocument(ctx, "users", "u1", in); err != nil {
			t.Fatalf("SetDocument: %v", err)
		}
		got, err := s.GetDocument(ctx, "users", "u1")
		if err != nil {
			t.Fatalf("GetDocument: %v", err)
		}
		if got["profileName"] != "ada" {
			t.Errorf("profileName = %v, want ada", got["profileName"])
		}
		if got["level"] != float64(3) {
			t.Errorf("level = %v (%T), want float64 3", got["level"], got["level"])
		}
		tags, ok := got["tags"].([]interface{})
		if !ok || len(tags) != 1 || tags[0] != "Tech" {
			t.Errorf("tags = %#v", got["tags"])
		}
	})

	t.Run("SetReplaces", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		_ = s.SetDocument(ctx, "users", "u1", Document{"a": 1, "b": 2})
		_ = s.SetDocument(ctx, "users", "u1", Document{"a": 5})
		got, err := s.GetDocument(ctx, "users", "u1")
		if err != nil {
			t.Fatalf("GetDocument: %v", err)
		}
		if _, ok := got["b"]; ok {
			t.Error("field b survived a full replace")
		}
		if got["a"] != float64(5) {
			t.Errorf("a = %v, want 5", got["a"])
		}
	})

	t.Run("GetReturnsCopy", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		_ = s.SetDocument(ctx, "users", "u1", Document{"a": 1})
		got, _ := s.GetDocument(ctx, "users", "u1")
		got["a"] = 99
		again, _ := s.GetDocument(ctx, "users", "u1")
		if again["a"] != float64(1) {
			t.Errorf("mutating a read leaked into the store: a = %v", again["a"])
		}
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		s := newStore(t)
		err := s.UpdateFields(context.Background(), "users", "nobody", Patch{"a": 1})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("UpdateFields error = %v, want ErrNotFound", err)
		}
	})

	t.Run("UpdateTransforms", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		_ = s.SetDocument(ctx, "users", "u1", Document{
			"experience":   90,
			"achievements": []string{"first_login"},
			"keep":         "yes",
			"drop":         "me",
		})
		err := s.UpdateFields(ctx, "users", "u1", Patch{
			"experience":   Increment(15),
			"achievements": ArrayUnion("first_login", "streak_3"),
			"streak":       2,
			"drop":         DeleteField,
		})
		if err != nil {
			t.Fatalf("UpdateFields: %v", err)
		}
		got, _ := s.GetDocument(ctx, "users", "u1")
		if got["experience"] != float64(105) {
			t.Errorf("experience = %v, want 105", got["experience"])
		}
		ach, _ := got["achievements"].([]interface{})
		if len(ach) != 2 || ach[0] != "first_login" || ach[1] != "streak_3" {
			t.Errorf("achievements = %#v", got["achievements"])
		}
		if got["streak"] != float64(2) || got["keep"] != "yes" {
			t.Errorf("unexpected document %#v", got)
		}
		if _, ok := got["drop"]; ok {
			t.Error("drop field not deleted")
		}
	})

	t.Run("UpdateInvalidLeavesDocument", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		_ = s.SetDocument(ctx, "users", "u1", Document{"name": "ada", "experience": 1})
		err := s.UpdateFields(ctx, "users", "u1", Patch{
			"experience": 50,
			"name":       Increment(1),
		})
		if !errors.Is(err, validation.ErrInvalidInput) {
			t.Fatalf("UpdateFields error = %v, want ErrInvalidInput", err)
		}
		got, _ := s.GetDocument(ctx, "users", "u1")
		if got["experience"] != float64(1) {
			t.Errorf("partial patch applied: experience = %v", got["experience"])
		}
	})

	t.Run("QueryArrayContainsOrdered", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		seedArticles(t, s)

		docs, err := QueryByField(ctx, s, "news", "tags", OpArrayContains, "Tech", "date", true, 0)
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
		assertTitles(t, docs, "t3", "t1")
	})

	t.Run("QueryLimitAndAll", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		seedArticles(t, s)

		docs, err := s.Query(ctx, "news", Query{OrderBy: "date", Descending: true, Limit: 2})
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
		assertTitles(t, docs, "t4", "t3")
	})

	t.Run("QueryEmptyCollection", func(t *testing.T) {
		s := newStore(t)
		docs, err := s.Query(context.Background(), "news", Query{})
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
		if len(docs) != 0 {
			t.Errorf("got %d docs from an empty collection", len(docs))
		}
	})

	t.Run("CollectionsAreIsolated", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		_ = s.SetDocument(ctx, "users", "x", Document{"kind": "user"})
		_ = s.SetDocument(ctx, "usersx", "y", Document{"kind": "other"})
		docs, err := s.Query(ctx, "users", Query{})
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
		if len(docs) != 1 || docs[0]["kind"] != "user" {
			t.Errorf("users query = %#v", docs)
		}
	})

	t.Run("ConcurrentIncrements", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		_ = s.SetDocument(ctx, "news", "a", Document{"likes": 0})

		const workers = 10
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := s.UpdateFields(ctx, "news", "a", Patch{"likes": Increment(1)}); err != nil {
					t.Errorf("UpdateFields: %v", err)
				}
			}()
		}
		wg.Wait()

		got, _ := s.GetDocument(ctx, "news", "a")
		if got["likes"] != float64(workers) {
			t.Errorf("likes = %v, want %d", got["likes"], workers)
		}
	})

	t.Run("Closed", func(t *testing.T) {
		s := newStore(t)
		if err := s.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		_, err := s.GetDocument(context.Background(), "users", "u1")
		if !errors.Is(err, ErrClosed) {
			t.Errorf("GetDocument after Close = %v, want ErrClosed", err)
		}
	})
}

func seedArticles(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	articles := []struct {
		id, date string
		tags     []string
	}{
		{"a1", "2024-01-01T00:00:00Z", []string{"Tech"}},
		{"a2", "2024-01-02T00:00:00Z", []string{"Sports"}},
		{"a3", "2024-01-03T00:00:00Z", []string{"Tech", "Health"}},
		{"a4", "2024-01-04T00:00:00Z", []string{"Health"}},
	}
	for i, a := range articles {
		doc := Document{"title": fmt.Sprintf("t%d", i+1), "date": a.date, "tags": a.tags}
		if err := s.SetDocument(ctx, "news", a.id, doc); err != nil {
			t.Fatalf("seed %s: %v", a.id, err)
		}
	}
}

func assertTitles(t *testing.T, docs []Document, want ...string) {
	t.Helper()
	if len(docs) != len(want) {
		t.Fatalf("got %d docs, want %d", len(docs), len(want))
	}
	for i, w := range want {
		if docs[i]["title"] != w {
			t.Errorf("docs[%d].title = %v, want %s", i, docs[i]["title"], w)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	conformance(t, func(t *testing.T) Store {
		s := NewMemoryStore()
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestBadgerStore(t *testing.T) {
	conformance(t, func(t *testing.T) Store {
		s, err := OpenBadger(BadgerOptions{Path: t.TempDir(), KeyPrefix: "test"})
		if err != nil {
			t.Fatalf("OpenBadger: %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestBadgerStoreInMemory(t *testing.T) {
	s, err := OpenBadger(BadgerOptions{InMemory: true})
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.SetDocument(ctx, "users", "u1", Document{"a": 1}); err != nil {
		t.Fatalf("SetDocument: %v", err)
	}
	if err := s.RunGC(0.5); err != nil {
		t.Errorf("RunGC in memory mode: %v", err)
	}
}

func TestBadgerStorePersists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := OpenBadger(BadgerOptions{Path: dir, SyncWrites: true})
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	if err := s.SetDocument(ctx, "users", "u1", Document{"profileName": "ada"}); err != nil {
		t.Fatalf("SetDocument: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = OpenBadger(BadgerOptions{Path: dir})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.GetDocument(ctx, "users", "u1")
	if err != nil {
		t.Fatalf("GetDocument after reopen: %v", err)
	}
	if got["profileName"] != "ada" {
		t.Errorf("profileName = %v", got["profileName"])
	}
}

func TestEncodeDecode(t *testing.T) {
	type user struct {
		Name   string             `json:"profileName"`
		Level  int                `json:"level"`
		Weight map[string]float64 `json:"tagWeights,omitempty"`
	}
	doc, err := Encode(user{Name: "ada", Level: 2, Weight: map[string]float64{"Tech": 1.1}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if doc["level"] != float64(2) {
		t.Errorf("level = %v", doc["level"])
	}

	var out user
	if err := Decode(doc, &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Name != "ada" || out.Level != 2 || out.Weight["Tech"] != 1.1 {
		t.Errorf("Decode = %+v", out)
	}
}
