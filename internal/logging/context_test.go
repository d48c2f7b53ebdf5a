// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestGenerateIDs(t *testing.T) {
	t.Parallel()

	rid := GenerateRequestID()
	if _, err := uuid.Parse(rid); err != nil {
		t.Errorf("GenerateRequestID() = %q is not a UUID: %v", rid, err)
	}
	if rid == GenerateRequestID() {
		t.Error("request ids should be unique")
	}

	cid := GenerateCorrelationID()
	if len(cid) != 8 {
		t.Errorf("GenerateCorrelationID() = %q, want 8 chars", cid)
	}
}

func TestContextIDs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if RequestIDFromContext(ctx) != "" || CorrelationIDFromContext(ctx) != "" {
		t.Fatal("empty context should carry no ids")
	}

	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("RequestIDFromContext() = %q", got)
	}
	if got := CorrelationIDFromContext(ctx); got != "corr-1" {
		t.Errorf("CorrelationIDFromContext() = %q", got)
	}
}

func TestCtx_AddsIDs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithRequestID(ctx, "req-42")
	ctx = ContextWithCorrelationID(ctx, "abcd1234")

	Ctx(ctx).Info().Msg("plan requested")

	out := buf.String()
	for _, want := range []string{`"request_id":"req-42"`, `"correlation_id":"abcd1234"`, "plan requested"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %q", want, out)
		}
	}
}

func TestCtxWith_ExtraFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithRequestID(ctx, "req-7")

	logger := CtxWith(ctx).Str("route", "/api/plan-night").Logger()
	logger.Warn().Msg("fallback")

	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-7"`) || !strings.Contains(out, `"route":"/api/plan-night"`) {
		t.Errorf("output = %q", out)
	}
	if strings.Contains(out, "correlation_id") {
		t.Errorf("absent correlation id should not be logged: %q", out)
	}
}

func TestLoggerFromContext_FallsBackToGlobal(t *testing.T) {
	buf := captureGlobal(t, "info")

	l := LoggerFromContext(context.Background())
	l.Info().Msg("global")
	if !strings.Contains(buf.String(), "global") {
		t.Errorf("expected global logger output, got %q", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	buf := captureGlobal(t, "info")

	l := WithComponent("catalog")
	l.Info().Msg("opened")
	if !strings.Contains(buf.String(), `"component":"catalog"`) {
		t.Errorf("output = %q", buf.String())
	}
}
