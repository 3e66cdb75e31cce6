package models

import (
	"time"
)

// Model defines the base interface for all persistent models in the job cache.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
type Repository[T Model] interface {
	Upsert(model T) error     // Upsert inserts or replaces a model
	Get(id string) (T, error) // Get retrieves a model by its ID
	List() ([]T, error)       // List retrieves all models, newest first
	Delete(id string) error   // Delete removes a model by its ID
	Purge() error             // Purge removes every model
}
