// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

/*
Package cache provides a thread-safe in-memory cache with TTL expiry.

It holds short-lived derived views, such as leaderboard snapshots, that are
expensive to rebuild from the document store and acceptable to serve slightly
stale.

# Usage

	c := cache.New[[]leaderboard.Entry]("leaderboard", 30*time.Second)

	entries, err := c.GetOrLoad("top:10", func() ([]leaderboard.Entry, error) {
	    return buildTop(ctx, 10)
	})

	// After a write that changes rankings:
	c.Clear()

# Expiry

Entries expire lazily: Get treats an expired entry as a miss and removes it.
Cleanup sweeps every expired entry at once; Run calls it on an interval and is
meant to be hosted by the supervisor.

# Metrics

Every lookup is recorded as a hit or miss under the cache's name via the
metrics package, in addition to the local Stats counters.

# Thread Safety

All methods are safe for concurrent use. GetOrLoad does not coalesce
concurrent misses; two callers may both run load.
*/
package cache
