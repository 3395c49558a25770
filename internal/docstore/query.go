// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package docstore

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/headliner/internal/validation"
)

// Operator is a comparison used by a Filter.
type Operator string

// Supported operators.
const (
	OpEqual         Operator = "=="
	OpNotEqual      Operator = "!="
	OpLess          Operator = "<"
	OpLessEqual     Operator = "<="
	OpGreater       Operator = ">"
	OpGreaterEqual  Operator = ">="
	OpArrayContains Operator = "array-contains"
	OpIn            Operator = "in"
)

// Filter restricts a query to documents whose Field satisfies Op against Value.
type Filter struct {
	Field string
	Op    Operator
	Value interface{}
}

// Query describes a collection read. An empty Where selects every document.
// Documents lacking the OrderBy field sort after all others; ties are broken
// by document ID so results are deterministic. Limit <= 0 means unlimited.
type Query struct {
	Where      []Filter
	OrderBy    string
	Descending bool
	Limit      int
}

// Validate checks operators and field names.
func (q Query) Validate() error {
	for _, f := range q.Where {
		if f.Field == "" {
			return fmt.Errorf("%w: filter without field", validation.ErrInvalidInput)
		}
		switch f.Op {
		case OpEqual, OpNotEqual, OpLess, OpLessEqual, OpGreater, OpGreaterEqual, OpArrayContains:
		case OpIn:
			if v := reflect.ValueOf(f.Value); v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
				return fmt.Errorf("%w: %q filter needs a slice value", validation.ErrInvalidInput, OpIn)
			}
		default:
			return fmt.Errorf("%w: unknown operator %q", validation.ErrInvalidInput, f.Op)
		}
	}
	return nil
}

// record is a stored document paired with its key.
type record struct {
	id  string
	doc Document
}

// evaluate applies q to records in memory. Every backend funnels its
// candidates through here so query semantics are identical everywhere.
func evaluate(records []record, q Query) ([]Document, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	filters := make([]Filter, len(q.Where))
	for i, f := range q.Where {
		n, err := normalize(f.Value)
		if err != nil {
			return nil, err
		}
		filters[i] = Filter{Field: f.Field, Op: f.Op, Value: n}
	}

	matched := make([]record, 0, len(records))
	for _, r := range records {
		ok := true
		for _, f := range filters {
			if !f.matches(r.doc) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, r)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if q.OrderBy != "" {
			a, aok := matched[i].doc[q.OrderBy]
			b, bok := matched[j].doc[q.OrderBy]
			switch {
			case aok && !bok:
				return true
			case !aok && bok:
				return false
			case aok && bok:
				if c, ok := compareValues(a, b); ok && c != 0 {
					if q.Descending {
						return c > 0
					}
					return c < 0
				}
			}
		}
		return matched[i].id < matched[j].id
	})

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	out := make([]Document, len(matched))
	for i, r := range matched {
		out[i] = r.doc
	}
	return out, nil
}

func (f Filter) matches(doc Document) bool {
	v, exists := doc[f.Field]

	switch f.Op {
	case OpEqual:
		return exists && equalValues(v, f.Value)
	case OpNotEqual:
		return exists && !equalValues(v, f.Value)
	case OpArrayContains:
		arr, ok := v.([]interface{})
		if !ok {
			return false
		}
		for _, e := range arr {
			if equalValues(e, f.Value) {
				return true
			}
		}
		return false
	case OpIn:
		candidates, _ := f.Value.([]interface{})
		if !exists {
			return false
		}
		for _, c := range candidates {
			if equalValues(v, c) {
				return true
			}
		}
		return false
	}

	if !exists {
		return false
	}
	c, ok := compareValues(v, f.Value)
	if !ok {
		return false
	}
	switch f.Op {
	case OpLess:
		return c < 0
	case OpLessEqual:
		return c <= 0
	case OpGreater:
		return c > 0
	case OpGreaterEqual:
		return c >= 0
	default:
		return false
	}
}

func equalValues(a, b interface{}) bool {
	if c, ok := compareValues(a, b); ok {
		return c == 0
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders two scalars. Strings that both parse as RFC 3339
// timestamps compare chronologically, so encoded time.Time fields sort
// correctly regardless of fractional-second width.
func compareValues(a, b interface{}) (int, bool) {
	switch x := a.(type) {
	case float64:
		y, ok := b.(float64)
		if !ok {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		default:
			return 0, true
		}
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		if tx, err := time.Parse(time.RFC3339Nano, x); err == nil {
			if ty, err := time.Parse(time.RFC3339Nano, y); err == nil {
				return tx.Compare(ty), true
			}
		}
		return strings.Compare(x, y), true
	case bool:
		y, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		default:
			return 1, true
		}
	default:
		return 0, false
	}
}
