// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
//
// Key Implementations:
//   - [LibraryRepository] : Library records with idempotent (name, root_path) creation and the sentinel ungrouped library
//   - [TrackRepository] : Track records keyed by (library_id, path), batch inserts, cascading deletes and scan reconciliation
//   - [PlaylistRepository] : Playlists and the playlist_tracks junction table
//
// The store-level invariant lives in [TrackRepository]: no playlist membership
// row may reference a missing track, so every code path that deletes tracks
// deletes the referencing memberships first, inside the same transaction.
// [TrackRepository.Reconcile] extends that guarantee across a whole scan by
// committing the deletion and insertion halves of a reconciliation as one
// transaction.
//
// Sequence numbers provide stable, human-readable ordering (e.g., library #3, track #1042) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
