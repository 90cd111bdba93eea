// Package models defines domain entities and persistence interfaces for the mus media catalog.
//
// The package contains two categories of types:
//
// 1. Value types: plain structs carried between layers
//   - [TrackMetadata] : Optional tags read from a media file
//   - [PlaylistTrack] : A playlist membership row
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Library] : A named scan scope over a filesystem root (or the sentinel ungrouped scope)
//   - [Track] : A media file and its extracted metadata, keyed by canonical path within its library
//   - [Playlist] : An ordered track collection whose memberships are coupled to track lifecycle
//
// All persistent entities implement the Model interface providing ID generation, timestamps and validation.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
