// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

// Package validation provides struct validation using go-playground/validator v10.
//
// A thread-safe singleton validator caches struct metadata. Two custom tags
// are registered:
//
//   - topic: a tag/preference label ("Sports", "Science & Tech")
//   - docid: a document key usable by every store backend
//
// Every failure unwraps to ErrInvalidInput:
//
//	type Registration struct {
//	    UserID string   `validate:"required,docid"`
//	    Tags   []string `validate:"min=1,max=20,dive,min=1,max=40,topic"`
//	}
//
//	if err := validation.Validate(&reg); err != nil {
//	    // errors.Is(err, validation.ErrInvalidInput) == true
//	}
package validation
