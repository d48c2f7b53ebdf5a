// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

/*
Package cache provides a generic in-memory LRU cache with TTL expiry.

The text-generation layer uses it to answer repeated prompts without a second
model call. Hype scores are never cached; they depend on the clock.

# Usage

	c := cache.NewLRU[string](256, 5*time.Minute)
	c.Add(key, text)
	if text, ok := c.Get(key); ok {
		return text, nil
	}

# Thread Safety

All methods are safe for concurrent use. A single mutex guards the map and
the recency list, since Get also reorders the list.
*/
package cache
