// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package textgen

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by Unconfigured for every call.
var ErrNotConfigured = errors.New("text generation API credentials not configured")

// Unconfigured stands in for the client when no credentials are set, so the
// gateway serves its local fallback on every request.
type Unconfigured struct{}

// Generate always fails with ErrNotConfigured.
func (Unconfigured) Generate(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "", ErrNotConfigured
}
