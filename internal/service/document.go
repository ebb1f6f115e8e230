package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"jotion/internal/cache"
	"jotion/internal/config"
	"jotion/internal/domain"
	"jotion/internal/domain/models"
	"jotion/internal/domain/repositories"
	"jotion/internal/domain/services"
)

// documentService implements the DocumentService interface
type documentService struct {
	docRepo   repositories.DocumentRepository
	txManager repositories.TransactionManager
	listCache *cache.DocumentCache
	maxDepth  int
	logger    *slog.Logger
}

// NewDocumentService creates a new document service. txManager may be nil,
// in which case recursive archive/restore runs without transaction
// boundaries and mid-traversal failures surface as PartialTraversalError.
// listCache may be nil to disable listing caches.
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	txManager repositories.TransactionManager,
	listCache *cache.DocumentCache,
	maxDepth int,
	logger *slog.Logger,
) services.DocumentService {
	if maxDepth <= 0 {
		maxDepth = config.DefaultMaxTraversalDepth
	}
	return &documentService{
		docRepo:   docRepo,
		txManager: txManager,
		listCache: listCache,
		maxDepth:  maxDepth,
		logger:    logger,
	}
}

// Create inserts a new unarchived, unpublished document
func (s *documentService) Create(ctx context.Context, ownerID string, req *services.CreateDocumentRequest) (*models.Document, error) {
	if ownerID == "" {
		return nil, &domain.UnauthorizedError{Message: "caller identity required"}
	}

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// A new document must never violate the forest property: its parent,
	// if given, has to exist and belong to the same owner.
	if req.ParentID != nil {
		parent, err := s.docRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, &domain.InvalidParentError{ParentID: *req.ParentID}
			}
			return nil, err
		}
		if parent.OwnerID != ownerID {
			return nil, &domain.InvalidParentError{ParentID: *req.ParentID}
		}
	}

	now := time.Now()
	doc := &models.Document{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       req.Title,
		ParentID:    req.ParentID,
		IsArchived:  false,
		IsPublished: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.listCache.Invalidate(ctx, ownerID)

	s.logger.Info("document created",
		"id", doc.ID,
		"owner_id", ownerID,
		"parent_id", req.ParentID,
	)

	return doc, nil
}

// Get is the public-read path. A published, unarchived document is visible
// to anyone; everything else only to its owner, and non-owners get NotFound
// so private documents do not leak their existence.
func (s *documentService) Get(ctx context.Context, id, callerID string) (*models.Document, error) {
	if err := uuid.Validate(id); err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid document id %q", id)}
	}

	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if doc.PubliclyReadable() {
		return doc, nil
	}

	if doc.OwnerID != callerID {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return doc, nil
}

// Update applies a partial patch: nil fields are left untouched
func (s *documentService) Update(ctx context.Context, id, ownerID string, req *services.UpdateDocumentRequest) (*models.Document, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Length(1, config.MaxTitleLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	doc, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		doc.Title = *req.Title
	}
	if req.Content != nil {
		doc.Content = req.Content
	}
	if req.CoverImage != nil {
		doc.CoverImage = req.CoverImage
	}
	if req.Icon != nil {
		doc.Icon = req.Icon
	}
	if req.IsPublished != nil {
		doc.IsPublished = *req.IsPublished
	}

	doc.UpdatedAt = time.Now()

	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	s.listCache.Invalidate(ctx, ownerID)

	s.logger.Info("document updated", "id", doc.ID, "owner_id", ownerID)

	return doc, nil
}

// RemoveIcon clears the icon field. Distinct from Update because a partial
// patch cannot express "change to empty".
func (s *documentService) RemoveIcon(ctx context.Context, id, ownerID string) (*models.Document, error) {
	return s.clearField(ctx, id, ownerID, "icon", func(doc *models.Document) {
		doc.Icon = nil
	})
}

// RemoveCoverImage clears the cover image field
func (s *documentService) RemoveCoverImage(ctx context.Context, id, ownerID string) (*models.Document, error) {
	return s.clearField(ctx, id, ownerID, "cover_image", func(doc *models.Document) {
		doc.CoverImage = nil
	})
}

func (s *documentService) clearField(ctx context.Context, id, ownerID, field string, clear func(*models.Document)) (*models.Document, error) {
	doc, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	clear(doc)
	doc.UpdatedAt = time.Now()

	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	s.listCache.Invalidate(ctx, ownerID)

	s.logger.Info("document field cleared", "id", doc.ID, "owner_id", ownerID, "field", field)

	return doc, nil
}

// Archive marks a document archived, then walks the (owner_id, parent_id)
// index depth-first marking every descendant archived
func (s *documentService) Archive(ctx context.Context, id, ownerID string) (*models.Document, error) {
	doc, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	err = s.runTreeOp(ctx, "archive", doc.ID,
		func(ctx context.Context) error {
			return s.docRepo.SetArchived(ctx, doc.ID, true)
		},
		func(ctx context.Context) error {
			return s.markSubtree(ctx, ownerID, doc.ID, true, 0)
		},
	)
	if err != nil {
		return nil, err
	}

	doc.IsArchived = true
	s.listCache.Invalidate(ctx, ownerID)

	s.logger.Info("document archived", "id", doc.ID, "owner_id", ownerID)

	return doc, nil
}

// Restore unarchives a document and its subtree. If the stored parent is
// itself still archived the parent link is severed first, so the restored
// document surfaces at the root instead of staying invisible under an
// archived parent. Descendant parent links are never touched.
func (s *documentService) Restore(ctx context.Context, id, ownerID string) (*models.Document, error) {
	doc, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	severed := false
	if doc.ParentID != nil {
		parent, err := s.docRepo.GetByID(ctx, *doc.ParentID)
		switch {
		case err == nil && parent.IsArchived:
			doc.ParentID = nil
			severed = true
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
		// A missing parent is a dangling weak reference; the link stays.
	}

	doc.IsArchived = false
	doc.UpdatedAt = time.Now()

	err = s.runTreeOp(ctx, "restore", doc.ID,
		func(ctx context.Context) error {
			return s.docRepo.Update(ctx, doc)
		},
		func(ctx context.Context) error {
			return s.markSubtree(ctx, ownerID, doc.ID, false, 0)
		},
	)
	if err != nil {
		return nil, err
	}

	s.listCache.Invalidate(ctx, ownerID)

	s.logger.Info("document restored",
		"id", doc.ID,
		"owner_id", ownerID,
		"parent_severed", severed,
	)

	return doc, nil
}

// Delete permanently removes a single document. Children are deliberately
// left alone and keep their now-dangling parent link.
func (s *documentService) Delete(ctx context.Context, id, ownerID string) (*models.Document, error) {
	doc, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if err := s.docRepo.Delete(ctx, doc.ID); err != nil {
		return nil, err
	}

	s.listCache.Invalidate(ctx, ownerID)

	s.logger.Info("document deleted", "id", doc.ID, "owner_id", ownerID)

	return doc, nil
}

// ListSidebar returns the sidebar-visible children under parentID
func (s *documentService) ListSidebar(ctx context.Context, ownerID string, parentID *string) ([]models.Document, error) {
	if ownerID == "" {
		return nil, &domain.UnauthorizedError{Message: "caller identity required"}
	}
	if parentID != nil {
		if err := uuid.Validate(*parentID); err != nil {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid parent id %q", *parentID)}
		}
	}

	scope := cache.SidebarScope(parentID)
	if docs, ok := s.listCache.GetList(ctx, ownerID, scope); ok {
		return docs, nil
	}

	docs, err := s.docRepo.ListSidebar(ctx, ownerID, parentID)
	if err != nil {
		return nil, err
	}

	s.listCache.SetList(ctx, ownerID, scope, docs)

	return docs, nil
}

// ListTrash returns the owner's archived documents, newest first. Trash is
// a cold path and reads through to the store.
func (s *documentService) ListTrash(ctx context.Context, ownerID string) ([]models.Document, error) {
	if ownerID == "" {
		return nil, &domain.UnauthorizedError{Message: "caller identity required"}
	}
	return s.docRepo.ListTrash(ctx, ownerID)
}

// ListSearchable returns the owner's unarchived documents, newest first
func (s *documentService) ListSearchable(ctx context.Context, ownerID string) ([]models.Document, error) {
	if ownerID == "" {
		return nil, &domain.UnauthorizedError{Message: "caller identity required"}
	}

	scope := cache.SearchScope()
	if docs, ok := s.listCache.GetList(ctx, ownerID, scope); ok {
		return docs, nil
	}

	docs, err := s.docRepo.ListSearchable(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	s.listCache.SetList(ctx, ownerID, scope, docs)

	return docs, nil
}

// getOwned loads a document and verifies the caller owns it
func (s *documentService) getOwned(ctx context.Context, id, ownerID string) (*models.Document, error) {
	if ownerID == "" {
		return nil, &domain.UnauthorizedError{Message: "caller identity required"}
	}
	if err := uuid.Validate(id); err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid document id %q", id)}
	}

	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if doc.OwnerID != ownerID {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrUnauthorized)
	}

	return doc, nil
}

// runTreeOp executes a recursive tree mutation as root mark + subtree walk.
// With a transaction manager the whole traversal commits or rolls back as
// one unit. Without one, the root mark lands first, and a failure while
// walking descendants surfaces as a PartialTraversalError so callers know
// the subtree is mixed and a retry of the same operation will finish it.
func (s *documentService) runTreeOp(ctx context.Context, op, rootID string, mark, walk repositories.TxFn) error {
	run := func(ctx context.Context) error {
		if err := mark(ctx); err != nil {
			return fmt.Errorf("%s document %s: %w", op, rootID, err)
		}
		if err := walk(ctx); err != nil {
			return &domain.PartialTraversalError{Op: op, RootID: rootID, Err: err}
		}
		return nil
	}

	if s.txManager == nil {
		return run(ctx)
	}

	if err := s.txManager.ExecTx(ctx, run); err != nil {
		// The rollback undid the root mark, so nothing is partial.
		var partial *domain.PartialTraversalError
		if errors.As(err, &partial) {
			return fmt.Errorf("%s document %s: %w", op, rootID, partial.Err)
		}
		return err
	}
	return nil
}

// markSubtree walks direct children via the owner-scoped index and flips
// their archive flag, recursing until no descendants remain. Marking an
// already-marked node again is a no-op, which keeps retries safe.
func (s *documentService) markSubtree(ctx context.Context, ownerID, parentID string, archived bool, depth int) error {
	if depth >= s.maxDepth {
		return fmt.Errorf("traversal depth limit %d reached under document %s", s.maxDepth, parentID)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	children, err := s.docRepo.ListChildren(ctx, ownerID, &parentID)
	if err != nil {
		return err
	}

	for i := range children {
		child := &children[i]
		if err := s.docRepo.SetArchived(ctx, child.ID, archived); err != nil {
			return err
		}
		if err := s.markSubtree(ctx, ownerID, child.ID, archived, depth+1); err != nil {
			return err
		}
	}

	return nil
}

// validateCreateRequest validates a document creation request
func (s *documentService) validateCreateRequest(req *services.CreateDocumentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxTitleLength),
		),
		validation.Field(&req.ParentID, is.UUID),
	)
}
