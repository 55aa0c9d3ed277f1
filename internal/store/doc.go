// Package store provides the two point-store backends behind the single
// read/write contract the ingestion layer depends on:
//
//   - Postgres — durable storage via a pgx pool, selected when a database
//     URL is configured. Points are upserted by ID; panels live in JSONB.
//   - Memory — a mutex-guarded in-memory map seeded from fixtures, used
//     when no database is configured so the service still functions.
//
// Both backends return points unchanged on read; risk is never persisted.
// Storage failures carry ErrUnavailable so callers can map them to a
// storage-failure response.
package store
