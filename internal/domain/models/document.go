package models

import (
	"time"
)

// Document is a node in a user's page tree. ParentID is a weak reference:
// it designates tree placement only and carries no cascade semantics, so a
// permanently deleted parent leaves children pointing at a missing row.
type Document struct {
	ID          string    `json:"id" db:"id"`
	OwnerID     string    `json:"owner_id" db:"owner_id"`
	Title       string    `json:"title" db:"title"`
	ParentID    *string   `json:"parent_id" db:"parent_id"` // NULL = root document
	Content     *string   `json:"content,omitempty" db:"content"`
	CoverImage  *string   `json:"cover_image,omitempty" db:"cover_image"`
	Icon        *string   `json:"icon,omitempty" db:"icon"`
	IsArchived  bool      `json:"is_archived" db:"is_archived"`
	IsPublished bool      `json:"is_published" db:"is_published"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// IsRoot reports whether the document has no parent.
func (d *Document) IsRoot() bool {
	return d.ParentID == nil
}

// PubliclyReadable reports whether the document may be returned to callers
// other than its owner.
func (d *Document) PubliclyReadable() bool {
	return d.IsPublished && !d.IsArchived
}

// DocumentListResponse wraps listing query results.
type DocumentListResponse struct {
	Documents []Document `json:"documents"`
	Total     int        `json:"total"`
}
