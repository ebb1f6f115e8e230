package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"jotion/internal/domain/models"
	"jotion/internal/domain/services"
	"jotion/internal/httputil"
)

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	docService services.DocumentService
	logger     *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService services.DocumentService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		logger:     logger,
	}
}

// CreateDocument creates a new document
// POST /api/documents
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	var req services.CreateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.docService.Create(r.Context(), ownerID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// GetDocument retrieves a document by ID. This is the public-read path:
// anonymous callers reach it for published documents.
// GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	// callerID may be empty here; the service only returns published
	// documents in that case
	callerID := httputil.GetUserID(r)

	doc, err := h.docService.Get(r.Context(), id, callerID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// UpdateDocument applies a partial patch to a document
// PATCH /api/documents/{id}
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	var req services.UpdateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.docService.Update(r.Context(), id, ownerID, &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// DeleteDocument permanently removes a document (single node, not recursive)
// DELETE /api/documents/{id}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	h.mutateByID(w, r, h.docService.Delete)
}

// ArchiveDocument archives a document and its entire subtree
// POST /api/documents/{id}/archive
func (h *DocumentHandler) ArchiveDocument(w http.ResponseWriter, r *http.Request) {
	h.mutateByID(w, r, h.docService.Archive)
}

// RestoreDocument unarchives a document and its subtree
// POST /api/documents/{id}/restore
func (h *DocumentHandler) RestoreDocument(w http.ResponseWriter, r *http.Request) {
	h.mutateByID(w, r, h.docService.Restore)
}

// RemoveIcon clears a document's icon
// DELETE /api/documents/{id}/icon
func (h *DocumentHandler) RemoveIcon(w http.ResponseWriter, r *http.Request) {
	h.mutateByID(w, r, h.docService.RemoveIcon)
}

// RemoveCoverImage clears a document's cover image
// DELETE /api/documents/{id}/cover
func (h *DocumentHandler) RemoveCoverImage(w http.ResponseWriter, r *http.Request) {
	h.mutateByID(w, r, h.docService.RemoveCoverImage)
}

// ListSidebar lists sidebar-visible documents under an optional parent
// GET /api/documents/sidebar?parent_id=...
func (h *DocumentHandler) ListSidebar(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	var parentID *string
	if v := r.URL.Query().Get("parent_id"); v != "" {
		parentID = &v
	}

	docs, err := h.docService.ListSidebar(r.Context(), ownerID, parentID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.DocumentListResponse{
		Documents: docs,
		Total:     len(docs),
	})
}

// ListTrash lists the caller's archived documents
// GET /api/documents/trash
func (h *DocumentHandler) ListTrash(w http.ResponseWriter, r *http.Request) {
	h.listForOwner(w, r, h.docService.ListTrash)
}

// ListSearchable lists the caller's unarchived documents as the candidate
// set for client-side fuzzy search
// GET /api/documents/search
func (h *DocumentHandler) ListSearchable(w http.ResponseWriter, r *http.Request) {
	h.listForOwner(w, r, h.docService.ListSearchable)
}

// HealthCheck is a simple health check endpoint
// GET /health
func (h *DocumentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now(),
	})
}

// requireOwner extracts the authenticated owner identity or responds 401
func (h *DocumentHandler) requireOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID := httputil.GetUserID(r)
	if ownerID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return ownerID, true
}

// mutateByID runs a (id, ownerID) service mutation and writes the result
func (h *DocumentHandler) mutateByID(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, id, ownerID string) (*models.Document, error),
) {
	ownerID, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	doc, err := op(r.Context(), id, ownerID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// listForOwner runs an owner-scoped listing query and writes the result
func (h *DocumentHandler) listForOwner(
	w http.ResponseWriter,
	r *http.Request,
	list func(ctx context.Context, ownerID string) ([]models.Document, error),
) {
	ownerID, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	docs, err := list(r.Context(), ownerID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.DocumentListResponse{
		Documents: docs,
		Total:     len(docs),
	})
}
