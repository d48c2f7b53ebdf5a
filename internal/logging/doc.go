// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

// Package logging provides the zerolog-based structured logger used across
// MeetTM.
//
// A global logger is configured once from main with Init and is reachable
// through the level helpers (Info, Warn, ...). Components derive child
// loggers carrying a "component" field with WithComponent, and request-scoped
// code uses Ctx to pick up the request_id and correlation_id stored in the
// context by the HTTP middleware.
//
//	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
//	logging.Info().Str("addr", addr).Msg("listening")
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("model call failed")
//
// Every line carries "service":"meettm" and an RFC 3339 "time" field. The
// console format is meant for local development only.
//
// SlogHandler adapts zerolog to log/slog for libraries that only speak slog,
// notably sutureslog in the supervisor tree.
package logging
