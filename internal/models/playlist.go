package models

import (
	"fmt"
	"time"
)

// Playlist is an ordered collection of tracks. Playlists are owned by a layer
// above the reconciliation engine; the engine only guarantees that their
// memberships never dangle when tracks are deleted.
type Playlist struct {
	id        string
	sequence  int
	name      string
	createdAt time.Time
	updatedAt time.Time
}

// NewPlaylist creates a new Playlist. The id is assigned by the repository on insert.
func NewPlaylist(sequence int, name string) *Playlist {
	now := time.Now()
	return &Playlist{
		sequence:  sequence,
		name:      name,
		createdAt: now,
		updatedAt: now,
	}
}

func (p *Playlist) ID() string           { return p.id }
func (p *Playlist) Sequence() int        { return p.sequence }
func (p *Playlist) Name() string         { return p.name }
func (p *Playlist) CreatedAt() time.Time { return p.createdAt }
func (p *Playlist) UpdatedAt() time.Time { return p.updatedAt }

func (p *Playlist) SetID(id string)           { p.id = id }
func (p *Playlist) SetSequence(seq int)       { p.sequence = seq }
func (p *Playlist) SetCreatedAt(ts time.Time) { p.createdAt = ts }
func (p *Playlist) SetUpdatedAt(ts time.Time) { p.updatedAt = ts }

// Validate checks if the playlist's data is valid
func (p *Playlist) Validate() error {
	if p.name == "" {
		return fmt.Errorf("playlist name is required")
	}
	return nil
}

// PlaylistTrack links a playlist to a track at a position. Rows referencing a
// track are deleted in the same transaction as the track itself.
type PlaylistTrack struct {
	ID         string
	PlaylistID string
	TrackID    string
	Position   int
}
