// Package store provides SQLite-backed durable storage for the activity log.
//
// The store is an append-only log with a single table:
//   - activities: id, description, timestamp, day, instant
//
// # Guarantees
//
// Append-only: records are never updated or deleted. A repeated activity is
// a new row with the same description.
//
// Ordering: timestamp keeps the local offset the record was captured in;
// instant holds the same moment in UTC. Every day query uses
// ORDER BY instant ASC, id ASC, so records on both sides of a daylight
// saving change stay in time order and ties fall back to insertion order.
//
// Durability: an operation reports success only after SQLite has committed
// it with synchronous=FULL.
//
// # Database Configuration
//
//   - WAL mode: the viewer can read while the daemon's inquiry writes
//   - synchronous=FULL: no success without a durable commit
//   - busy_timeout=5000: wait for competing writers up to 5 seconds
//
// Lock contention that outlasts the busy timeout surfaces as an *Error of
// KindBusy; every other open/read/write failure is KindUnavailable.
package store
