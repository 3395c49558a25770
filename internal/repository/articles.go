// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package repository

import (
	"context"
	"fmt"

	"github.com/tomtom215/headliner/internal/docstore"
	"github.com/tomtom215/headliner/internal/models"
)

// Articles reads and writes news items.
type Articles struct {
	store docstore.Store
}

// NewArticles creates an Articles repository over store.
func NewArticles(store docstore.Store) *Articles {
	return &Articles{store: store}
}

// Get loads one article.
func (r *Articles) Get(ctx context.Context, articleID string) (*models.Article, error) {
	doc, err := r.store.GetDocument(ctx, models.CollectionNews, articleID)
	if err != nil {
		return nil, err
	}
	var a models.Article
	if err := docstore.Decode(doc, &a); err != nil {
		return nil, fmt.Errorf("article %s: %w", articleID, err)
	}
	if a.ID == "" {
		a.ID = articleID
	}
	return &a, nil
}

// Put stores an article, replacing any existing one with the same ID.
func (r *Articles) Put(ctx context.Context, a *models.Article) error {
	doc, err := docstore.Encode(a)
	if err != nil {
		return err
	}
	return r.store.SetDocument(ctx, models.CollectionNews, a.ID, doc)
}

// Update applies a partial update, typically a counter increment.
func (r *Articles) Update(ctx context.Context, articleID string, patch docstore.Patch) error {
	return r.store.UpdateFields(ctx, models.CollectionNews, articleID, patch)
}

// Latest returns up to limit articles, most recent first. limit <= 0 means all.
func (r *Articles) Latest(ctx context.Context, limit int) ([]*models.Article, error) {
	return r.find(ctx, docstore.Query{
		OrderBy:    models.FieldDate,
		Descending: true,
		Limit:      limit,
	})
}

// LatestWithTag returns up to limit articles carrying tag, most recent first.
func (r *Articles) LatestWithTag(ctx context.Context, tag string, limit int) ([]*models.Article, error) {
	return r.find(ctx, docstore.Query{
		Where:      []docstore.Filter{{Field: models.FieldTags, Op: docstore.OpArrayContains, Value: tag}},
		OrderBy:    models.FieldDate,
		Descending: true,
		Limit:      limit,
	})
}

func (r *Articles) find(ctx context.Context, q docstore.Query) ([]*models.Article, error) {
	docs, err := r.store.Query(ctx, models.CollectionNews, q)
	if err != nil {
		return nil, err
	}
	return decodeArticles(docs)
}

func decodeArticles(docs []docstore.Document) ([]*models.Article, error) {
	out := make([]*models.Article, 0, len(docs))
	for _, doc := range docs {
		var a models.Article
		if err := docstore.Decode(doc, &a); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, nil
}
