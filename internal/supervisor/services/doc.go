// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

/*
Package services adapts MeetTM components to suture.Service.

HTTPServerService turns ListenAndServe into a context-aware Serve with a
bounded graceful drain. CatalogGCService runs badger value log GC on a
ticker and records each pass in catalog_gc_runs_total.

Both implement fmt.Stringer so supervisor events name them.
*/
package services
