package services

import (
	"context"

	"jotion/internal/domain/models"
)

// CreateDocumentRequest carries the inputs for document creation.
// ParentID, if set, must reference a document owned by the same caller.
type CreateDocumentRequest struct {
	Title    string  `json:"title"`
	ParentID *string `json:"parent_id,omitempty"`
}

// UpdateDocumentRequest carries a partial patch. A nil field means "leave
// as is", never "clear" - clearing icon/cover goes through the dedicated
// remove operations.
type UpdateDocumentRequest struct {
	Title       *string `json:"title,omitempty"`
	Content     *string `json:"content,omitempty"`
	CoverImage  *string `json:"cover_image,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	IsPublished *bool   `json:"is_published,omitempty"`
}

// DocumentService owns all document records and enforces the tree
// invariants. Every operation takes the caller's owner identity explicitly;
// there is no ambient current user.
type DocumentService interface {
	// Create inserts a new unarchived, unpublished document
	Create(ctx context.Context, ownerID string, req *CreateDocumentRequest) (*models.Document, error)

	// Get is the public-read path: a published, unarchived document is
	// returned to any caller; otherwise only to its owner
	Get(ctx context.Context, id, callerID string) (*models.Document, error)

	// Update applies a partial patch to an owned document
	Update(ctx context.Context, id, ownerID string, req *UpdateDocumentRequest) (*models.Document, error)

	// RemoveIcon clears the icon field
	RemoveIcon(ctx context.Context, id, ownerID string) (*models.Document, error)

	// RemoveCoverImage clears the cover image field
	RemoveCoverImage(ctx context.Context, id, ownerID string) (*models.Document, error)

	// Archive marks a document and its entire descendant subtree archived
	Archive(ctx context.Context, id, ownerID string) (*models.Document, error)

	// Restore unarchives a document and its subtree, severing the parent
	// link when the stored parent is itself still archived
	Restore(ctx context.Context, id, ownerID string) (*models.Document, error)

	// Delete permanently removes a single document (not recursive)
	Delete(ctx context.Context, id, ownerID string) (*models.Document, error)

	// ListSidebar returns the sidebar-visible children under parentID
	ListSidebar(ctx context.Context, ownerID string, parentID *string) ([]models.Document, error)

	// ListTrash returns the owner's archived documents, newest first
	ListTrash(ctx context.Context, ownerID string) ([]models.Document, error)

	// ListSearchable returns the owner's unarchived documents, newest first
	ListSearchable(ctx context.Context, ownerID string) ([]models.Document, error)
}
