// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

// Package feed is the reader-facing article surface: browsing, search,
// opening articles and reacting to them.
//
// A reaction goes through these steps, each a separate store write:
//
//  1. the article is added to the reader's liked or disliked list and to
//     the watched list
//  2. the article's like or dislike counter is incremented
//  3. the recommendation engine adjusts the reader's tag weights
//  4. every achievement is re-evaluated
//
// A reader may react to an article once. Steps 3 and 4 are best effort and
// never undo steps 1 and 2.
//
// The once-per-article check reads the user before step 1 writes it, so two
// simultaneous reactions to the same article can both be accepted. Step 1
// stays idempotent, but the counter in step 2 and the weight in step 3 then
// move once per accepted reaction.
package feed
