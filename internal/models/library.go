package models

import (
	"fmt"
	"time"
)

// Library is a named scan scope over a filesystem root. A nil root path marks
// the sentinel "Individual Tracks" library, which has no filesystem root and
// is never scanned. Libraries are flat and never nested.
type Library struct {
	id        string
	sequence  int
	name      string
	rootPath  *string
	createdAt time.Time
	updatedAt time.Time
}

// NewLibrary creates a new Library. The id is assigned by the repository on insert.
func NewLibrary(sequence int, name string, rootPath *string) *Library {
	now := time.Now()
	return &Library{
		sequence:  sequence,
		name:      name,
		rootPath:  rootPath,
		createdAt: now,
		updatedAt: now,
	}
}

func (l *Library) ID() string            { return l.id }
func (l *Library) Sequence() int         { return l.sequence }
func (l *Library) Name() string          { return l.name }
func (l *Library) RootPath() *string     { return l.rootPath }
func (l *Library) CreatedAt() time.Time  { return l.createdAt }
func (l *Library) UpdatedAt() time.Time  { return l.updatedAt }
func (l *Library) IsUngrouped() bool     { return l.rootPath == nil }
func (l *Library) SetID(id string)       { l.id = id }
func (l *Library) SetSequence(seq int)   { l.sequence = seq }
func (l *Library) SetCreatedAt(t time.Time) { l.createdAt = t }
func (l *Library) SetUpdatedAt(t time.Time) { l.updatedAt = t }

// Validate checks if the library's data is valid
func (l *Library) Validate() error {
	if l.name == "" {
		return fmt.Errorf("library name is required")
	}
	if l.rootPath != nil && *l.rootPath == "" {
		return fmt.Errorf("library root path must be nil or non-empty")
	}
	return nil
}
