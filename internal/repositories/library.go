package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/mus/internal/models"
	"github.com/desertthunder/mus/internal/shared"
)

// UngroupedLibraryName is the display label of the sentinel library holding
// tracks that belong to no scanned root.
const UngroupedLibraryName = "Individual Tracks"

// LibraryRepository handles persistence for [models.Library] records.
//
// Creation is idempotent on the (name, root_path) pair so repeated setup runs
// converge on the same library row.
type LibraryRepository struct {
	db *sql.DB
}

// NewLibraryRepository creates a new LibraryRepository with the given database connection
func NewLibraryRepository(db *sql.DB) *LibraryRepository {
	return &LibraryRepository{db: db}
}

// Create inserts a new [models.Library] with generated ID and sequence, then
// re-reads the persisted row. If a library with the same name and root path
// already exists it is returned unchanged.
func (r *LibraryRepository) Create(name string, rootPath *string) (*models.Library, error) {
	if existing, err := r.GetByNameAndRoot(name, rootPath); err == nil {
		return existing, nil
	}

	sequence, err := NextSequence(r.db, "libraries")
	if err != nil {
		return nil, fmt.Errorf("failed to generate sequence: %w", err)
	}

	library := models.NewLibrary(sequence, name, rootPath)
	library.SetID(shared.GenerateID())

	if err := library.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO libraries (id, sequence, name, root_path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		library.ID(),
		library.Sequence(),
		library.Name(),
		nullStringPtr(rootPath),
		library.CreatedAt(),
		library.UpdatedAt(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert library: %w", err)
	}

	return r.GetByNameAndRoot(name, rootPath)
}

// EnsureUngrouped creates the sentinel ungrouped library if it does not exist yet.
func (r *LibraryRepository) EnsureUngrouped() (*models.Library, error) {
	return r.Create(UngroupedLibraryName, nil)
}

// Get retrieves a library by ID
func (r *LibraryRepository) Get(id string) (*models.Library, error) {
	query := `
		SELECT id, sequence, name, root_path, created_at, updated_at
		FROM libraries
		WHERE id = ?
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByName retrieves a library by its display name
func (r *LibraryRepository) GetByName(name string) (*models.Library, error) {
	query := `
		SELECT id, sequence, name, root_path, created_at, updated_at
		FROM libraries
		WHERE name = ?
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRow(query, name))
}

// GetByNameAndRoot retrieves a library by its (name, root_path) pair.
// A nil rootPath matches the sentinel ungrouped library.
func (r *LibraryRepository) GetByNameAndRoot(name string, rootPath *string) (*models.Library, error) {
	query := `
		SELECT id, sequence, name, root_path, created_at, updated_at
		FROM libraries
		WHERE name = ? AND root_path IS ?
	`

	return r.scanOne(r.db.QueryRow(query, name, nullStringPtr(rootPath)))
}

// List retrieves all libraries ordered by sequence
func (r *LibraryRepository) List() ([]*models.Library, error) {
	query := `
		SELECT id, sequence, name, root_path, created_at, updated_at
		FROM libraries
		ORDER BY sequence ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query libraries: %w", err)
	}
	defer rows.Close()

	var libraries []*models.Library
	for rows.Next() {
		library, err := scanLibrary(rows.Scan)
		if err != nil {
			return nil, err
		}
		libraries = append(libraries, library)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return libraries, nil
}

// scanOne scans a single [sql.Row] into a [models.Library]
func (r *LibraryRepository) scanOne(row *sql.Row) (*models.Library, error) {
	library, err := scanLibrary(row.Scan)
	if err == sql.ErrNoRows {
		return nil, shared.ErrLibraryNotFound
	}
	return library, err
}

// scanLibrary reads one row's columns via the given scan function.
func scanLibrary(scan func(...any) error) (*models.Library, error) {
	var (
		id        string
		sequence  int
		name      string
		rootPath  sql.NullString
		createdAt time.Time
		updatedAt time.Time
	)

	err := scan(&id, &sequence, &name, &rootPath, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan library: %w", err)
	}

	var root *string
	if rootPath.Valid {
		root = &rootPath.String
	}

	library := models.NewLibrary(sequence, name, root)
	library.SetID(id)
	library.SetCreatedAt(createdAt)
	library.SetUpdatedAt(updatedAt)

	return library, nil
}

func nullStringPtr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
