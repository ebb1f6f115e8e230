package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"jotion/internal/domain"
	"jotion/internal/domain/models"
	"jotion/internal/domain/repositories"
)

const documentColumns = `id, owner_id, title, parent_id, content, cover_image, icon, is_archived, is_published, created_at, updated_at`

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new document
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, r.tables.Documents, documentColumns)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		doc.ID,
		doc.OwnerID,
		doc.Title,
		doc.ParentID,
		doc.Content,
		doc.CoverImage,
		doc.Icon,
		doc.IsArchived,
		doc.IsPublished,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID retrieves a document by ID with no owner filter
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, documentColumns, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	doc, err := scanDocument(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return doc, nil
}

// Update writes all mutable fields of an existing document
func (r *PostgresDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, parent_id = $2, content = $3, cover_image = $4,
		    icon = $5, is_archived = $6, is_published = $7, updated_at = $8
		WHERE id = $9
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		doc.Title,
		doc.ParentID,
		doc.Content,
		doc.CoverImage,
		doc.Icon,
		doc.IsArchived,
		doc.IsPublished,
		doc.UpdatedAt,
		doc.ID,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}

	return nil
}

// SetArchived flips the archive flag of a single document. Re-applying the
// same flag is a no-op at the row level, which is what makes interrupted
// traversals safely retryable.
func (r *PostgresDocumentRepository) SetArchived(ctx context.Context, id string, archived bool) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_archived = $1, updated_at = $2
		WHERE id = $3
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, archived, time.Now(), id)
	if err != nil {
		return fmt.Errorf("set archived: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete permanently removes exactly one document
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListChildren returns all direct children regardless of archive state
func (r *PostgresDocumentRepository) ListChildren(ctx context.Context, ownerID string, parentID *string) ([]models.Document, error) {
	query, args := childScanQuery(r.tables.Documents, ownerID, parentID, "")
	return r.listDocuments(ctx, "list children", query, args...)
}

// ListSidebar returns unarchived direct children under parentID
func (r *PostgresDocumentRepository) ListSidebar(ctx context.Context, ownerID string, parentID *string) ([]models.Document, error) {
	query, args := childScanQuery(r.tables.Documents, ownerID, parentID, "AND is_archived = FALSE")
	return r.listDocuments(ctx, "list sidebar", query, args...)
}

// ListTrash returns all archived documents of an owner, newest first
func (r *PostgresDocumentRepository) ListTrash(ctx context.Context, ownerID string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1 AND is_archived = TRUE
		ORDER BY created_at DESC, id DESC
	`, documentColumns, r.tables.Documents)

	return r.listDocuments(ctx, "list trash", query, ownerID)
}

// ListSearchable returns all unarchived documents of an owner, newest first
func (r *PostgresDocumentRepository) ListSearchable(ctx context.Context, ownerID string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1 AND is_archived = FALSE
		ORDER BY created_at DESC, id DESC
	`, documentColumns, r.tables.Documents)

	return r.listDocuments(ctx, "list searchable", query, ownerID)
}

// childScanQuery builds the (owner_id, parent_id) index lookup; a nil
// parentID selects root documents.
func childScanQuery(table, ownerID string, parentID *string, extra string) (string, []interface{}) {
	if parentID == nil {
		query := fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE owner_id = $1 AND parent_id IS NULL %s
			ORDER BY created_at ASC, id ASC
		`, documentColumns, table, extra)
		return query, []interface{}{ownerID}
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1 AND parent_id = $2 %s
		ORDER BY created_at ASC, id ASC
	`, documentColumns, table, extra)
	return query, []interface{}{ownerID, *parentID}
}

// listDocuments runs a listing query and scans all rows
func (r *PostgresDocumentRepository) listDocuments(ctx context.Context, op, query string, args ...interface{}) ([]models.Document, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var documents []models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan document: %w", op, err)
		}
		documents = append(documents, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate documents: %w", op, err)
	}

	// Return empty slice instead of nil
	if documents == nil {
		documents = []models.Document{}
	}

	return documents, nil
}

// scanDocument reads one full document row
func scanDocument(row pgx.Row) (*models.Document, error) {
	var doc models.Document
	err := row.Scan(
		&doc.ID,
		&doc.OwnerID,
		&doc.Title,
		&doc.ParentID,
		&doc.Content,
		&doc.CoverImage,
		&doc.Icon,
		&doc.IsArchived,
		&doc.IsPublished,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
