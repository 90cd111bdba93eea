package models

import (
	"time"
)

// Model defines the base interface for all persistent models in the catalog.
// Implementations include Library, Track and Playlist.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// TrackMetadata carries the tags read from a media file. Every field is
// optional; the zero value means the tag was absent in the source file.
type TrackMetadata struct {
	Title       string
	Artist      string
	Album       string
	Comment     string
	Genre       string
	Year        int
	TrackNumber int
}
