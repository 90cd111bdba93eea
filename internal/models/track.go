package models

import (
	"fmt"
	"time"
)

// Track is a catalog record describing one media file. The path is the
// canonical absolute filesystem path of the file and is unique within its
// library; the engine uses it as the natural key when reconciling filesystem
// state against stored state.
type Track struct {
	id         string
	sequence   int
	libraryID  string
	path       string
	meta       TrackMetadata
	length     int // seconds
	bitrate    int // kbit/s
	samplerate int // Hz
	rating     *int
	createdAt  time.Time
	updatedAt  time.Time
}

// NewTrack creates a new Track from a successful metadata extraction.
// The id and sequence are assigned by the repository on insert.
func NewTrack(libraryID, path string, meta TrackMetadata, length, bitrate, samplerate int) *Track {
	now := time.Now()
	return &Track{
		libraryID:  libraryID,
		path:       path,
		meta:       meta,
		length:     length,
		bitrate:    bitrate,
		samplerate: samplerate,
		createdAt:  now,
		updatedAt:  now,
	}
}

func (t *Track) ID() string              { return t.id }
func (t *Track) Sequence() int           { return t.sequence }
func (t *Track) LibraryID() string       { return t.libraryID }
func (t *Track) Path() string            { return t.path }
func (t *Track) Metadata() TrackMetadata { return t.meta }
func (t *Track) Title() string           { return t.meta.Title }
func (t *Track) Artist() string          { return t.meta.Artist }
func (t *Track) Album() string           { return t.meta.Album }
func (t *Track) Length() int             { return t.length }
func (t *Track) Bitrate() int            { return t.bitrate }
func (t *Track) Samplerate() int         { return t.samplerate }
func (t *Track) Rating() *int            { return t.rating }
func (t *Track) CreatedAt() time.Time    { return t.createdAt }
func (t *Track) UpdatedAt() time.Time    { return t.updatedAt }

func (t *Track) SetID(id string)            { t.id = id }
func (t *Track) SetSequence(seq int)        { t.sequence = seq }
func (t *Track) SetRating(rating *int)      { t.rating = rating }
func (t *Track) SetCreatedAt(ts time.Time)  { t.createdAt = ts }
func (t *Track) SetUpdatedAt(ts time.Time)  { t.updatedAt = ts }

// Validate checks if the track's data is valid.
//
// Stream properties are required: a file without a usable length or sample
// rate is not a valid track and should never have been constructed.
func (t *Track) Validate() error {
	if t.libraryID == "" {
		return fmt.Errorf("track library id is required")
	}
	if t.path == "" {
		return fmt.Errorf("track path is required")
	}
	if t.length <= 0 {
		return fmt.Errorf("track length must be positive")
	}
	if t.samplerate <= 0 {
		return fmt.Errorf("track samplerate must be positive")
	}
	if t.bitrate < 0 {
		return fmt.Errorf("track bitrate must not be negative")
	}
	return nil
}
