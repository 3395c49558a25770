// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

// Package config loads Headliner configuration with Koanf v2.
//
// Sources are layered with clear precedence (env > file > defaults):
//
//  1. Default(): built-in values
//  2. YAML file: CONFIG_PATH, ./headliner.yaml, or /etc/headliner/config.yaml
//  3. Environment variables, mapped explicitly (STORE_BACKEND, LOG_LEVEL, ...)
//
// # Example YAML
//
//	store:
//	  backend: badger
//	  path: /var/lib/headliner
//	progression:
//	  timezone: Europe/Berlin
//	  login_xp: 10
//	recommend:
//	  weight_delta: 0.1
//	events:
//	  backend: nats
//	  nats_url: nats://nats:4222
//
// Load validates the result; an invalid configuration is never returned.
package config
