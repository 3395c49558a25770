// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package models

import (
	"slices"
	"time"
)

// Article document field names.
const (
	FieldTitle    = "title"
	FieldDate     = "date"
	FieldLikes    = "likes"
	FieldDislikes = "dislikes"
	FieldContent  = "content"
)

// ArticleContent holds the teaser and the full body.
type ArticleContent struct {
	Short string `json:"short"`
	Long  string `json:"long"`
}

// Article is a news item. Only the like/dislike counters change after publication.
type Article struct {
	ID       string         `json:"id" validate:"required,docid"`
	Title    string         `json:"title" validate:"required,max=300"`
	Date     time.Time      `json:"date" validate:"required"`
	Tags     []string       `json:"tags" validate:"max=20,dive,min=1,max=40,topic"`
	Likes    int            `json:"likes" validate:"gte=0"`
	Dislikes int            `json:"dislikes" validate:"gte=0"`
	Content  ArticleContent `json:"content"`
}

// HasTag reports whether the article carries tag.
func (a *Article) HasTag(tag string) bool {
	return slices.Contains(a.Tags, tag)
}

// Interaction is a reader's reaction to an article.
type Interaction string

// Interaction values.
const (
	Like    Interaction = "like"
	Dislike Interaction = "dislike"
)

// Valid reports whether i is a known interaction.
func (i Interaction) Valid() bool {
	return i == Like || i == Dislike
}

// ParseInteraction converts "like"/"dislike" into an Interaction.
func ParseInteraction(s string) (Interaction, bool) {
	i := Interaction(s)
	return i, i.Valid()
}
