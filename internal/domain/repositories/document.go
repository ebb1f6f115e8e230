package repositories

import (
	"context"

	"jotion/internal/domain/models"
)

// DocumentRepository defines data access operations for documents.
// Child lookups are index scans on (owner_id, parent_id); a nil parentID
// selects root documents.
type DocumentRepository interface {
	// Create inserts a new document
	Create(ctx context.Context, doc *models.Document) error

	// GetByID retrieves a document by ID with no owner filter; the caller
	// is responsible for the owner/published check
	GetByID(ctx context.Context, id string) (*models.Document, error)

	// Update writes all mutable fields of an existing document
	Update(ctx context.Context, doc *models.Document) error

	// SetArchived flips the archive flag of a single document
	SetArchived(ctx context.Context, id string, archived bool) error

	// Delete permanently removes exactly one document; children keep their
	// parent_id and dangle
	Delete(ctx context.Context, id string) error

	// ListChildren returns all direct children regardless of archive state
	// (traversal primitive)
	ListChildren(ctx context.Context, ownerID string, parentID *string) ([]models.Document, error)

	// ListSidebar returns unarchived direct children under parentID
	ListSidebar(ctx context.Context, ownerID string, parentID *string) ([]models.Document, error)

	// ListTrash returns all archived documents of an owner, newest first
	ListTrash(ctx context.Context, ownerID string) ([]models.Document, error)

	// ListSearchable returns all unarchived documents of an owner, newest
	// first, as the candidate set for client-side fuzzy search
	ListSearchable(ctx context.Context, ownerID string) ([]models.Document, error)
}
