// MeetTM - Local Events Discovery and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meettm

/*
Package catalog keeps a local mirror of the events owned by the external
document store.

The mirror serves two purposes: it is the default candidate set when a
recommendation request carries no candidates, and it backs the hype listings
(/api/v1/events/trending and /api/v1/events/{id}/hype).

# Storage

Records live in BadgerDB under "event:<id>" keys as JSON. Writes go through
read-write transactions; PutMany splits transactions that grow too large.
In-memory mode is used by tests and by deployments that re-sync on start.

# Maintenance

Store.RunGC loops RunValueLogGC until badger reports nothing left to rewrite.
The supervisor runs it on an interval through the catalog GC service.

# Metrics

catalog_events tracks the number of stored events. catalog_operations_total
counts operations by result (success, error, not_found).
*/
package catalog
