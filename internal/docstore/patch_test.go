// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package docstore

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tomtom215/headliner/internal/validation"
)

func TestPatchApply(t *testing.T) {
	tests := []struct {
		name    string
		doc     Document
		patch   Patch
		want    Document
		wantErr error
	}{
		{
			name:  "plain value replaces",
			doc:   Document{"level": 1.0},
			patch: Patch{"level": 2},
			want:  Document{"level": 2.0},
		},
		{
			name:  "increment missing field starts at delta",
			doc:   Document{},
			patch: Patch{"likes": Increment(1)},
			want:  Document{"likes": 1.0},
		},
		{
			name:  "increment negative",
			doc:   Document{"likes": 3.0},
			patch: Patch{"likes": Increment(-1)},
			want:  Document{"likes": 2.0},
		},
		{
			name:  "array union creates and dedupes",
			doc:   Document{},
			patch: Patch{"watched_news": ArrayUnion("a", "b", "a")},
			want:  Document{"watched_news": []interface{}{"a", "b"}},
		},
		{
			name:  "array union keeps existing order",
			doc:   Document{"watched_news": []interface{}{"b"}},
			patch: Patch{"watched_news": ArrayUnion("a", "b")},
			want:  Document{"watched_news": []interface{}{"b", "a"}},
		},
		{
			name:  "array remove",
			doc:   Document{"liked_news": []interface{}{"a", "b", "c"}},
			patch: Patch{"liked_news": ArrayRemove("b", "zzz")},
			want:  Document{"liked_news": []interface{}{"a", "c"}},
		},
		{
			name:  "delete field",
			doc:   Document{"tmp": "x", "keep": "y"},
			patch: Patch{"tmp": DeleteField},
			want:  Document{"keep": "y"},
		},
		{
			name:  "nested map value is normalized",
			doc:   Document{},
			patch: Patch{"tagWeights": map[string]float64{"Tech": 1.1}},
			want:  Document{"tagWeights": map[string]interface{}{"Tech": 1.1}},
		},
		{
			name:    "increment on string",
			doc:     Document{"name": "ada"},
			patch:   Patch{"name": Increment(1)},
			wantErr: validation.ErrInvalidInput,
		},
		{
			name:    "union on scalar",
			doc:     Document{"streak": 2.0},
			patch:   Patch{"streak": ArrayUnion("x")},
			wantErr: validation.ErrInvalidInput,
		},
		{
			name:    "empty field name",
			doc:     Document{},
			patch:   Patch{"": 1},
			wantErr: validation.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Apply(tt.doc)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Apply error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if !reflect.DeepEqual(tt.doc, tt.want) {
				t.Errorf("doc = %#v, want %#v", tt.doc, tt.want)
			}
		})
	}
}

func TestArrayUnionDoesNotAliasInput(t *testing.T) {
	original := []interface{}{"a"}
	doc := Document{"tags": original}
	if err := (Patch{"tags": ArrayUnion("b")}).Apply(doc); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(original) != 1 {
		t.Errorf("original slice modified: %#v", original)
	}
}
