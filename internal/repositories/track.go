package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/mus/internal/models"
	"github.com/desertthunder/mus/internal/shared"
)

// deleteChunkSize keeps IN (...) lists well under SQLite's bound-parameter limit.
const deleteChunkSize = 500

const trackColumns = `id, sequence, library_id, path, title, artist, album, comment, genre,
		year, track_no, length, bitrate, samplerate, rating, created_at, updated_at`

// TrackRepository handles persistence for [models.Track] records.
//
// Track deletion always removes the playlist memberships referencing the
// deleted tracks in the same transaction, so membership rows can never dangle.
// Batch inserts are all-or-nothing: one record's constraint failure rolls the
// whole batch back and the error is surfaced to the caller.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// PathsOf returns the set of canonical paths stored for a library.
// Used by the reconciliation engine to diff filesystem state against stored
// state without materializing full records.
func (r *TrackRepository) PathsOf(libraryID string) (map[string]struct{}, error) {
	rows, err := r.db.Query("SELECT path FROM tracks WHERE library_id = ?", libraryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query track paths: %w", err)
	}
	defer rows.Close()

	paths := make(map[string]struct{})
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("failed to scan track path: %w", err)
		}
		paths[path] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return paths, nil
}

// Get retrieves a track by ID
func (r *TrackRepository) Get(id string) (*models.Track, error) {
	query := fmt.Sprintf("SELECT %s FROM tracks WHERE id = ?", trackColumns)

	track, err := scanTrack(r.db.QueryRow(query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, shared.ErrTrackNotFound
	}
	return track, err
}

// GetByPath retrieves a track by its canonical path within a library
func (r *TrackRepository) GetByPath(libraryID, path string) (*models.Track, error) {
	query := fmt.Sprintf("SELECT %s FROM tracks WHERE library_id = ? AND path = ?", trackColumns)

	track, err := scanTrack(r.db.QueryRow(query, libraryID, path).Scan)
	if err == sql.ErrNoRows {
		return nil, shared.ErrTrackNotFound
	}
	return track, err
}

// ListByLibrary retrieves all tracks of one library ordered by sequence
func (r *TrackRepository) ListByLibrary(libraryID string) ([]*models.Track, error) {
	query := fmt.Sprintf("SELECT %s FROM tracks WHERE library_id = ? ORDER BY sequence ASC", trackColumns)
	return r.list(query, libraryID)
}

// DumpAll retrieves the full catalog ordered by sequence.
// This is the read surface consumed by UIs and exporters.
func (r *TrackRepository) DumpAll() ([]*models.Track, error) {
	query := fmt.Sprintf("SELECT %s FROM tracks ORDER BY sequence ASC", trackColumns)
	return r.list(query)
}

// InsertBatch inserts the given records in one transaction.
// Each record gets a generated id and sequence. Any validation or constraint
// failure rolls back the entire batch and reports the offending path.
func (r *TrackRepository) InsertBatch(tracks []*models.Track) error {
	if len(tracks) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertTracksTx(tx, tracks); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit track batch: %w", err)
	}

	return nil
}

// DeleteByPaths deletes the tracks of a library matching the given paths, and
// all playlist memberships referencing them, as one atomic unit.
func (r *TrackRepository) DeleteByPaths(libraryID string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteByPathsTx(tx, libraryID, paths); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit track deletion: %w", err)
	}

	return nil
}

// DeleteAll wipes every track of a library and all playlist memberships
// referencing them, as one atomic unit. The library record itself survives.
func (r *TrackRepository) DeleteAll(libraryID string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteAllTx(tx, libraryID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit track wipe: %w", err)
	}

	return nil
}

// Reconcile applies a scan delta in a single transaction: cascading deletion
// of removed paths (or a full wipe) plus insertion of the freshly extracted
// records. A failure anywhere leaves the catalog exactly as it was before the
// scan.
func (r *TrackRepository) Reconcile(libraryID string, removed []string, wipe bool, records []*models.Track) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if wipe {
		if err := deleteAllTx(tx, libraryID); err != nil {
			return err
		}
	} else if len(removed) > 0 {
		if err := deleteByPathsTx(tx, libraryID, removed); err != nil {
			return err
		}
	}

	if err := insertTracksTx(tx, records); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reconciliation: %w", err)
	}

	return nil
}

// SetRating stores a user rating on a track. Never called by the scan engine.
func (r *TrackRepository) SetRating(id string, rating *int) error {
	result, err := r.db.Exec(
		"UPDATE tracks SET rating = ?, updated_at = ? WHERE id = ?",
		nullIntPtr(rating), time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to set rating: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return shared.ErrTrackNotFound
	}

	return nil
}

func (r *TrackRepository) list(query string, args ...any) ([]*models.Track, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*models.Track
	for rows.Next() {
		track, err := scanTrack(rows.Scan)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}

// insertTracksTx inserts records within an existing transaction, allocating
// sequences and ids as it goes.
func insertTracksTx(tx *sql.Tx, tracks []*models.Track) error {
	query := `
		INSERT INTO tracks (id, sequence, library_id, path, title, artist, album, comment, genre,
			year, track_no, length, bitrate, samplerate, rating, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, track := range tracks {
		sequence, err := nextSequenceTx(tx, "tracks")
		if err != nil {
			return fmt.Errorf("failed to generate sequence: %w", err)
		}
		track.SetSequence(sequence)

		if track.ID() == "" {
			track.SetID(shared.GenerateID())
		}

		if err := track.Validate(); err != nil {
			return fmt.Errorf("validation failed for %s: %w", track.Path(), err)
		}

		meta := track.Metadata()
		_, err = tx.Exec(query,
			track.ID(),
			track.Sequence(),
			track.LibraryID(),
			track.Path(),
			nullString(meta.Title),
			nullString(meta.Artist),
			nullString(meta.Album),
			nullString(meta.Comment),
			nullString(meta.Genre),
			nullInt(meta.Year),
			nullInt(meta.TrackNumber),
			track.Length(),
			track.Bitrate(),
			track.Samplerate(),
			nullIntPtr(track.Rating()),
			track.CreatedAt(),
			track.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert track %s: %w", track.Path(), err)
		}
	}

	return nil
}

// deleteByPathsTx removes tracks by path, memberships first, within an
// existing transaction. Paths are chunked to respect SQLite's parameter limit.
func deleteByPathsTx(tx *sql.Tx, libraryID string, paths []string) error {
	for start := 0; start < len(paths); start += deleteChunkSize {
		end := start + deleteChunkSize
		if end > len(paths) {
			end = len(paths)
		}
		chunk := paths[start:end]

		placeholders := strings.Repeat("?,", len(chunk)-1) + "?"
		args := make([]any, 0, len(chunk)+1)
		args = append(args, libraryID)
		for _, path := range chunk {
			args = append(args, path)
		}

		membershipQuery := fmt.Sprintf(`
			DELETE FROM playlist_tracks
			WHERE track_id IN (
				SELECT id FROM tracks WHERE library_id = ? AND path IN (%s)
			)
		`, placeholders)
		if _, err := tx.Exec(membershipQuery, args...); err != nil {
			return fmt.Errorf("failed to delete playlist memberships: %w", err)
		}

		trackQuery := fmt.Sprintf(
			"DELETE FROM tracks WHERE library_id = ? AND path IN (%s)", placeholders)
		if _, err := tx.Exec(trackQuery, args...); err != nil {
			return fmt.Errorf("failed to delete tracks: %w", err)
		}
	}

	return nil
}

// deleteAllTx wipes a library's tracks, memberships first, within an existing transaction.
func deleteAllTx(tx *sql.Tx, libraryID string) error {
	membershipQuery := `
		DELETE FROM playlist_tracks
		WHERE track_id IN (SELECT id FROM tracks WHERE library_id = ?)
	`
	if _, err := tx.Exec(membershipQuery, libraryID); err != nil {
		return fmt.Errorf("failed to delete playlist memberships: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM tracks WHERE library_id = ?", libraryID); err != nil {
		return fmt.Errorf("failed to delete tracks: %w", err)
	}

	return nil
}

// scanTrack reads one row's columns via the given scan function.
func scanTrack(scan func(...any) error) (*models.Track, error) {
	var (
		id         string
		sequence   int
		libraryID  string
		path       string
		title      sql.NullString
		artist     sql.NullString
		album      sql.NullString
		comment    sql.NullString
		genre      sql.NullString
		year       sql.NullInt64
		trackNo    sql.NullInt64
		length     int
		bitrate    int
		samplerate int
		rating     sql.NullInt64
		createdAt  time.Time
		updatedAt  time.Time
	)

	err := scan(&id, &sequence, &libraryID, &path, &title, &artist, &album, &comment, &genre,
		&year, &trackNo, &length, &bitrate, &samplerate, &rating, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}

	meta := models.TrackMetadata{
		Title:       title.String,
		Artist:      artist.String,
		Album:       album.String,
		Comment:     comment.String,
		Genre:       genre.String,
		Year:        int(year.Int64),
		TrackNumber: int(trackNo.Int64),
	}

	track := models.NewTrack(libraryID, path, meta, length, bitrate, samplerate)
	track.SetID(id)
	track.SetSequence(sequence)
	track.SetCreatedAt(createdAt)
	track.SetUpdatedAt(updatedAt)
	if rating.Valid {
		value := int(rating.Int64)
		track.SetRating(&value)
	}

	return track, nil
}
