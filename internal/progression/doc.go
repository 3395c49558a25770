// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

/*
Package progression tracks reader experience, levels and daily login streaks.

# Levels

Experience rolls over into levels in steps of 100 points:

	total      = experience + points
	level      = level + total/100
	experience = total % 100

A grant of 20 points to a level 3 reader holding 95 points leaves them at
level 4 with 15 points. Grants are additive; callers that retry a grant will
award it twice.

# Streaks

A login is credited at most once per calendar day. Calendar days are the civil
year/month/day of an instant in the tracker's location, so "yesterday" means
the previous date on the wall calendar rather than 24 hours ago:

	previous login      effect
	none                streak = 1, +LoginXP
	same day            nothing
	previous day        streak + 1, +LoginXP
	two or more days    streak = 1, +LoginXP
	later day (skew)    nothing

Every login write (streak, last_login, experience, level) is a single
UpdateFields call, so a failed write leaves the profile untouched.

# Failures

HandleLogin and AddExperience never return errors. Missing readers, store
outages and invalid input are logged and reported as false.
*/
package progression
