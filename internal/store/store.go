package store

import (
	"errors"

	"github.com/mlsechub/modelhub/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned by every store when a lookup by id fails.
var ErrNotFound = errors.New("not found")

// ModelStore owns all model records: identity assignment, mutation and
// counter updates go through it, never through ambient state.
type ModelStore interface {
	// List returns a snapshot of every record, oldest id first.
	List() ([]models.ModelRecord, error)
	Get(id uint64) (*models.ModelRecord, error)
	// Create assigns a fresh id and external model id. The record is
	// persisted fully or not at all.
	Create(rec *models.ModelRecord) error
	// Update applies mutate to the stored record inside a transaction and
	// bumps UpdatedAt.
	Update(id uint64, mutate func(*models.ModelRecord) error) (*models.ModelRecord, error)
	// Delete removes the record and cascades to its stored file.
	Delete(id uint64) error
	IncrementViews(id uint64) error
	IncrementDownloads(id uint64) error
}

// FileStore holds the binary blob attached to a model record.
type FileStore interface {
	Get(modelID uint64) (*models.ModelFile, error)
	Put(file *models.ModelFile) error
	Delete(modelID uint64) error
}

// DocStore owns documentation board records. Docs are append-only.
type DocStore interface {
	List(category string) ([]models.DocRecord, error)
	Get(id uint64) (*models.DocRecord, error)
	Create(doc *models.DocRecord) error
	IncrementViews(id uint64) error
}

// FeedbackStats summarizes the feedback log.
type FeedbackStats struct {
	Count         int64   `json:"count"`
	AverageRating float64 `json:"averageRating"`
}

// FeedbackStore is the append-only feedback log.
type FeedbackStore interface {
	Append(entry *models.FeedbackEntry) error
	// List returns entries newest first.
	List() ([]models.FeedbackEntry, error)
	Stats() (FeedbackStats, error)
}

// Stores bundles every store over one database handle. Built once at
// startup and passed explicitly to handlers and services.
type Stores struct {
	Models   ModelStore
	Files    FileStore
	Docs     DocStore
	Feedback FeedbackStore
}

// NewStores wires the GORM-backed store implementations.
func NewStores(db *gorm.DB) *Stores {
	return &Stores{
		Models:   &gormModelStore{db: db},
		Files:    &gormFileStore{db: db},
		Docs:     &gormDocStore{db: db},
		Feedback: &gormFeedbackStore{db: db},
	}
}
