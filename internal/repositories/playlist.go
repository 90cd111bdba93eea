package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/mus/internal/models"
	"github.com/desertthunder/mus/internal/shared"
)

// PlaylistRepository handles persistence for [models.Playlist] records and
// their track memberships.
//
// Memberships reference track ids; their deletion is owned by
// [TrackRepository], which removes them in the same transaction as the tracks
// they point at.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a new [models.Playlist] into the database with generated ID and sequence
func (r *PlaylistRepository) Create(playlist *models.Playlist) error {
	sequence, err := NextSequence(r.db, "playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	playlist.SetSequence(sequence)
	playlist.SetID(shared.GenerateID())

	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO playlists (id, sequence, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		playlist.ID(),
		playlist.Sequence(),
		playlist.Name(),
		playlist.CreatedAt(),
		playlist.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	return nil
}

// Get retrieves a playlist by ID
func (r *PlaylistRepository) Get(id string) (*models.Playlist, error) {
	query := `
		SELECT id, sequence, name, created_at, updated_at
		FROM playlists
		WHERE id = ?
	`

	var (
		pid       string
		sequence  int
		name      string
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)

	err := r.db.QueryRow(query, id).Scan(&pid, &sequence, &name, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	playlist := models.NewPlaylist(sequence, name)
	playlist.SetID(pid)
	if createdAt.Valid {
		playlist.SetCreatedAt(createdAt.Time)
	}
	if updatedAt.Valid {
		playlist.SetUpdatedAt(updatedAt.Time)
	}

	return playlist, nil
}

// AddTrack appends a membership row linking a track into a playlist.
// Fails if the track does not exist (foreign key) or is already a member.
func (r *PlaylistRepository) AddTrack(playlistID, trackID string, position int) error {
	query := `
		INSERT INTO playlist_tracks (id, playlist_id, track_id, position)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, shared.GenerateID(), playlistID, trackID, position)
	if err != nil {
		return fmt.Errorf("failed to insert playlist membership: %w", err)
	}

	return nil
}

// TrackIDs returns the member track ids of a playlist in position order
func (r *PlaylistRepository) TrackIDs(playlistID string) ([]string, error) {
	query := `
		SELECT track_id FROM playlist_tracks
		WHERE playlist_id = ?
		ORDER BY position ASC
	`

	rows, err := r.db.Query(query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist memberships: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

// MembershipCount counts membership rows referencing the given track id.
// A deleted track must always count zero.
func (r *PlaylistRepository) MembershipCount(trackID string) (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM playlist_tracks WHERE track_id = ?", trackID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count memberships: %w", err)
	}
	return count, nil
}
