// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package docstore

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/tomtom215/headliner/internal/validation"
)

// Patch is a set of top-level field updates applied by UpdateFields.
type Patch map[string]interface{}

// Transform is a field update computed from the field's current value
// inside the backend's atomic update.
type Transform interface {
	apply(current interface{}, exists bool) (interface{}, error)
}

type arrayUnion struct{ elems []interface{} }

// ArrayUnion appends each element not already present in the array field,
// creating the array if the field is missing.
func ArrayUnion(elems ...interface{}) Transform {
	return arrayUnion{elems: elems}
}

func (t arrayUnion) apply(current interface{}, exists bool) (interface{}, error) {
	arr, err := asArray(current, exists)
	if err != nil {
		return nil, err
	}
	for _, e := range t.elems {
		n, err := normalize(e)
		if err != nil {
			return nil, err
		}
		if !containsValue(arr, n) {
			arr = append(arr, n)
		}
	}
	return arr, nil
}

type arrayRemove struct{ elems []interface{} }

// ArrayRemove removes every occurrence of each element from the array field.
func ArrayRemove(elems ...interface{}) Transform {
	return arrayRemove{elems: elems}
}

func (t arrayRemove) apply(current interface{}, exists bool) (interface{}, error) {
	arr, err := asArray(current, exists)
	if err != nil {
		return nil, err
	}
	remove := make([]interface{}, 0, len(t.elems))
	for _, e := range t.elems {
		n, err := normalize(e)
		if err != nil {
			return nil, err
		}
		remove = append(remove, n)
	}
	kept := make([]interface{}, 0, len(arr))
	for _, v := range arr {
		if !containsValue(remove, v) {
			kept = append(kept, v)
		}
	}
	return kept, nil
}

type increment struct{ delta float64 }

// Increment adds delta to a numeric field, treating a missing field as 0.
func Increment(delta float64) Transform {
	return increment{delta: delta}
}

func (t increment) apply(current interface{}, exists bool) (interface{}, error) {
	if !exists || current == nil {
		return t.delta, nil
	}
	n, ok := current.(float64)
	if !ok {
		return nil, fmt.Errorf("%w: increment of non-numeric field (%T)", validation.ErrInvalidInput, current)
	}
	return n + t.delta, nil
}

type deleteField struct{}

// DeleteField removes the field from the document.
var DeleteField Transform = deleteField{}

func (deleteField) apply(interface{}, bool) (interface{}, error) { return nil, nil }

// Apply merges the patch into doc in place. Keys are applied in sorted order
// so the outcome does not depend on map iteration.
func (p Patch) Apply(doc Document) error {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if key == "" {
			return fmt.Errorf("%w: empty field name in patch", validation.ErrInvalidInput)
		}
		switch v := p[key].(type) {
		case deleteField:
			delete(doc, key)
		case Transform:
			current, exists := doc[key]
			next, err := v.apply(current, exists)
			if err != nil {
				return fmt.Errorf("field %q: %w", key, err)
			}
			doc[key] = next
		default:
			n, err := normalize(v)
			if err != nil {
				return fmt.Errorf("field %q: %w", key, err)
			}
			doc[key] = n
		}
	}
	return nil
}

func asArray(current interface{}, exists bool) ([]interface{}, error) {
	if !exists || current == nil {
		return []interface{}{}, nil
	}
	arr, ok := current.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: array transform on non-array field (%T)", validation.ErrInvalidInput, current)
	}
	out := make([]interface{}, len(arr))
	copy(out, arr)
	return out, nil
}

func containsValue(arr []interface{}, v interface{}) bool {
	for _, e := range arr {
		if reflect.DeepEqual(e, v) {
			return true
		}
	}
	return false
}
