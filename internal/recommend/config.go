// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package recommend

import (
	"fmt"

	"github.com/tomtom215/headliner/internal/models"
)

// Config contains the tunables of the recommendation engine.
type Config struct {
	// DefaultWeight is assumed for a preferred tag with no stored weight.
	DefaultWeight float64 `json:"default_weight"`

	// WeightDelta is added on like and subtracted on dislike.
	WeightDelta float64 `json:"weight_delta"`

	// MinWeight and MaxWeight clamp every stored weight.
	MinWeight float64 `json:"min_weight"`
	MaxWeight float64 `json:"max_weight"`

	// DefaultMaxResults applies when a caller asks for zero or fewer results.
	DefaultMaxResults int `json:"default_max_results"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultWeight:     models.DefaultTagWeight,
		WeightDelta:       0.1,
		MinWeight:         models.MinTagWeight,
		MaxWeight:         models.MaxTagWeight,
		DefaultMaxResults: 10,
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.MinWeight <= 0 {
		return fmt.Errorf("min_weight must be positive, got %f", c.MinWeight)
	}
	if c.MaxWeight < c.MinWeight {
		return fmt.Errorf("max_weight (%f) must be >= min_weight (%f)", c.MaxWeight, c.MinWeight)
	}
	if c.DefaultWeight < c.MinWeight || c.DefaultWeight > c.MaxWeight {
		return fmt.Errorf("default_weight must be in [%f, %f], got %f", c.MinWeight, c.MaxWeight, c.DefaultWeight)
	}
	if c.WeightDelta <= 0 {
		return fmt.Errorf("weight_delta must be positive, got %f", c.WeightDelta)
	}
	if c.DefaultMaxResults < 1 {
		return fmt.Errorf("default_max_results must be positive, got %d", c.DefaultMaxResults)
	}
	return nil
}

// clamp bounds w to [MinWeight, MaxWeight].
func (c *Config) clamp(w float64) float64 {
	switch {
	case w < c.MinWeight:
		return c.MinWeight
	case w > c.MaxWeight:
		return c.MaxWeight
	default:
		return w
	}
}
