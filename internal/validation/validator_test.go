// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package validation

import (
	"errors"
	"strings"
	"testing"
)

type registration struct {
	UserID string   `validate:"required,docid"`
	Name   string   `validate:"required,min=2,max=10"`
	Tags   []string `validate:"min=1,max=3,dive,topic"`
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	r := registration{UserID: "reader-1", Name: "Ada", Tags: []string{"Sports", "Science & Tech"}}
	if err := ValidateStruct(&r); err != nil {
		t.Fatalf("ValidateStruct() = %v, want nil", err)
	}
	if err := Validate(&r); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidateStruct_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     registration
		wantField string
		wantTag   string
	}{
		{"missing id", registration{Name: "Ada", Tags: []string{"Sports"}}, "UserID", "required"},
		{"id with slash", registration{UserID: "a/b", Name: "Ada", Tags: []string{"Sports"}}, "UserID", "docid"},
		{"short name", registration{UserID: "u", Name: "A", Tags: []string{"Sports"}}, "Name", "min"},
		{"no tags", registration{UserID: "u", Name: "Ada"}, "Tags", "min"},
		{"bad tag", registration{UserID: "u", Name: "Ada", Tags: []string{"#hot"}}, "Tags[0]", "topic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verr := ValidateStruct(&tt.input)
			if verr == nil {
				t.Fatal("expected validation error")
			}
			fe := verr.Errors()[0]
			if fe.Field != tt.wantField || fe.Tag != tt.wantTag {
				t.Errorf("got %s/%s, want %s/%s", fe.Field, fe.Tag, tt.wantField, tt.wantTag)
			}
			if !errors.Is(verr, ErrInvalidInput) {
				t.Error("error should unwrap to ErrInvalidInput")
			}
		})
	}
}

func TestTranslateMinMessages(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&registration{UserID: "u", Name: "A", Tags: []string{"Sports"}})
	if verr == nil || !strings.Contains(verr.Error(), "at least 2 characters") {
		t.Errorf("message = %v", verr)
	}
}

func TestIsDocumentID(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"article-42":             true,
		"":                       false,
		" padded":                false,
		"news/1":                 false,
		"hl:users":               false,
		strings.Repeat("x", 129): false,
	}
	for id, want := range tests {
		if got := IsDocumentID(id); got != want {
			t.Errorf("IsDocumentID(%q) = %v, want %v", id, got, want)
		}
	}
}

func TestVar(t *testing.T) {
	t.Parallel()

	if err := Var("points", 5, "gte=0"); err != nil {
		t.Errorf("Var(5) = %v", err)
	}
	err := Var("points", -1, "gte=0")
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Var(-1) = %v, want ErrInvalidInput", err)
	}
}
