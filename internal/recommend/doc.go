// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

/*
Package recommend builds personalized article feeds from per-tag preference
weights and learns those weights from likes and dislikes.

# Feed Assembly

GetPersonalizedNews fills a quota of N articles in two passes:

 1. Tag pass: the reader's tags are stably sorted by weight, highest first.
    Each tag in turn requests ceil(remaining * min(1, weight)) of its most
    recent unwatched articles; those not already collected are appended.
 2. Backfill: if the quota is still open, the most recent unwatched articles
    of any tag fill it.

The result never repeats an article and never contains one the reader has
watched. It is shorter than N only when fewer than N unwatched articles exist.

Weights at or above 1.0 let a tag claim the whole remaining quota, so the
strongest tag is served first and weaker tags get proportionally smaller
slices of what is left.

# Weight Learning

ProcessNewsInteraction moves the weight of every tag on the article by
WeightDelta (up on like, down on dislike) and clamps it to [MinWeight,
MaxWeight]. A reader with no stored weights starts from DefaultWeight on each
preferred tag; a tag seen for the first time is inserted one delta away from
the default. Weights are rounded to six decimals so repeated 0.1 steps do not
accumulate binary drift.

# Failure Handling

Both public operations absorb errors: an unknown reader, a missing article or
a store outage yields an empty feed or false, and the cause is logged.
Recommend and Interact expose the error for callers that need it.
*/
package recommend
