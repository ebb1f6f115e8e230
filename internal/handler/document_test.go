package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jotion/internal/domain"
	"jotion/internal/domain/models"
	"jotion/internal/domain/services"
	"jotion/internal/httputil"
)

// stubDocumentService lets each test plug in just the methods it exercises.
type stubDocumentService struct {
	create       func(ctx context.Context, ownerID string, req *services.CreateDocumentRequest) (*models.Document, error)
	get          func(ctx context.Context, id, callerID string) (*models.Document, error)
	update       func(ctx context.Context, id, ownerID string, req *services.UpdateDocumentRequest) (*models.Document, error)
	mutate       func(ctx context.Context, id, ownerID string) (*models.Document, error)
	listSidebar  func(ctx context.Context, ownerID string, parentID *string) ([]models.Document, error)
	listForOwner func(ctx context.Context, ownerID string) ([]models.Document, error)
}

func (s *stubDocumentService) Create(ctx context.Context, ownerID string, req *services.CreateDocumentRequest) (*models.Document, error) {
	return s.create(ctx, ownerID, req)
}

func (s *stubDocumentService) Get(ctx context.Context, id, callerID string) (*models.Document, error) {
	return s.get(ctx, id, callerID)
}

func (s *stubDocumentService) Update(ctx context.Context, id, ownerID string, req *services.UpdateDocumentRequest) (*models.Document, error) {
	return s.update(ctx, id, ownerID, req)
}

func (s *stubDocumentService) RemoveIcon(ctx context.Context, id, ownerID string) (*models.Document, error) {
	return s.mutate(ctx, id, ownerID)
}

func (s *stubDocumentService) RemoveCoverImage(ctx context.Context, id, ownerID string) (*models.Document, error) {
	return s.mutate(ctx, id, ownerID)
}

func (s *stubDocumentService) Archive(ctx context.Context, id, ownerID string) (*models.Document, error) {
	return s.mutate(ctx, id, ownerID)
}

func (s *stubDocumentService) Restore(ctx context.Context, id, ownerID string) (*models.Document, error) {
	return s.mutate(ctx, id, ownerID)
}

func (s *stubDocumentService) Delete(ctx context.Context, id, ownerID string) (*models.Document, error) {
	return s.mutate(ctx, id, ownerID)
}

func (s *stubDocumentService) ListSidebar(ctx context.Context, ownerID string, parentID *string) ([]models.Document, error) {
	return s.listSidebar(ctx, ownerID, parentID)
}

func (s *stubDocumentService) ListTrash(ctx context.Context, ownerID string) ([]models.Document, error) {
	return s.listForOwner(ctx, ownerID)
}

func (s *stubDocumentService) ListSearchable(ctx context.Context, ownerID string) ([]models.Document, error) {
	return s.listForOwner(ctx, ownerID)
}

const testOwnerID = "8f1f42d3-6f2a-4e44-9d30-6f9aa6f1a001"
const testDocID = "2da3f8e1-92c5-4fbb-8a43-1f4f9a1c0b7d"

// newTestMux wires the handler into the same route table the server uses.
func newTestMux(svc services.DocumentService) *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewDocumentHandler(svc, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("GET /api/documents/sidebar", h.ListSidebar)
	mux.HandleFunc("GET /api/documents/search", h.ListSearchable)
	mux.HandleFunc("GET /api/documents/trash", h.ListTrash)
	mux.HandleFunc("POST /api/documents", h.CreateDocument)
	mux.HandleFunc("GET /api/documents/{id}", h.GetDocument)
	mux.HandleFunc("PATCH /api/documents/{id}", h.UpdateDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", h.DeleteDocument)
	mux.HandleFunc("POST /api/documents/{id}/archive", h.ArchiveDocument)
	mux.HandleFunc("POST /api/documents/{id}/restore", h.RestoreDocument)
	mux.HandleFunc("DELETE /api/documents/{id}/icon", h.RemoveIcon)
	mux.HandleFunc("DELETE /api/documents/{id}/cover", h.RemoveCoverImage)
	return mux
}

func doRequest(mux *http.ServeMux, method, path, ownerID, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if ownerID != "" {
		req = httputil.WithUserID(req, ownerID)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestCreateDocumentHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &stubDocumentService{
			create: func(ctx context.Context, ownerID string, req *services.CreateDocumentRequest) (*models.Document, error) {
				if ownerID != testOwnerID {
					t.Errorf("owner = %q, want %q", ownerID, testOwnerID)
				}
				if req.Title != "Notes" {
					t.Errorf("title = %q, want Notes", req.Title)
				}
				return &models.Document{ID: testDocID, OwnerID: ownerID, Title: req.Title}, nil
			},
		}
		rec := doRequest(newTestMux(svc), http.MethodPost, "/api/documents", testOwnerID, `{"title":"Notes"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
		var doc models.Document
		if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if doc.ID != testDocID {
			t.Errorf("id = %q, want %q", doc.ID, testDocID)
		}
	})

	t.Run("no identity", func(t *testing.T) {
		rec := doRequest(newTestMux(&stubDocumentService{}), http.MethodPost, "/api/documents", "", `{"title":"Notes"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := doRequest(newTestMux(&stubDocumentService{}), http.MethodPost, "/api/documents", testOwnerID, `{"title":`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("validation error mapped", func(t *testing.T) {
		svc := &stubDocumentService{
			create: func(ctx context.Context, ownerID string, req *services.CreateDocumentRequest) (*models.Document, error) {
				return nil, fmt.Errorf("%w: title required", domain.ErrValidation)
			},
		}
		rec := doRequest(newTestMux(svc), http.MethodPost, "/api/documents", testOwnerID, `{"title":""}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestGetDocumentHandler(t *testing.T) {
	t.Run("anonymous caller forwarded as empty", func(t *testing.T) {
		svc := &stubDocumentService{
			get: func(ctx context.Context, id, callerID string) (*models.Document, error) {
				if callerID != "" {
					t.Errorf("caller = %q, want empty", callerID)
				}
				return &models.Document{ID: id, IsPublished: true}, nil
			},
		}
		rec := doRequest(newTestMux(svc), http.MethodGet, "/api/documents/"+testDocID, "", "")
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("not found mapped", func(t *testing.T) {
		svc := &stubDocumentService{
			get: func(ctx context.Context, id, callerID string) (*models.Document, error) {
				return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
			},
		}
		rec := doRequest(newTestMux(svc), http.MethodGet, "/api/documents/"+testDocID, "", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "application/problem+json") {
			t.Errorf("content type = %q, want problem+json", ct)
		}
	})
}

func TestMutationHandlers(t *testing.T) {
	routes := []struct {
		name   string
		method string
		path   string
	}{
		{"archive", http.MethodPost, "/api/documents/" + testDocID + "/archive"},
		{"restore", http.MethodPost, "/api/documents/" + testDocID + "/restore"},
		{"delete", http.MethodDelete, "/api/documents/" + testDocID},
		{"remove icon", http.MethodDelete, "/api/documents/" + testDocID + "/icon"},
		{"remove cover", http.MethodDelete, "/api/documents/" + testDocID + "/cover"},
	}

	for _, rt := range routes {
		t.Run(rt.name, func(t *testing.T) {
			var gotID, gotOwner string
			svc := &stubDocumentService{
				mutate: func(ctx context.Context, id, ownerID string) (*models.Document, error) {
					gotID, gotOwner = id, ownerID
					return &models.Document{ID: id, OwnerID: ownerID}, nil
				},
			}
			rec := doRequest(newTestMux(svc), rt.method, rt.path, testOwnerID, "")

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if gotID != testDocID || gotOwner != testOwnerID {
				t.Errorf("service called with (%q, %q), want (%q, %q)", gotID, gotOwner, testDocID, testOwnerID)
			}
		})

		t.Run(rt.name+" without identity", func(t *testing.T) {
			rec := doRequest(newTestMux(&stubDocumentService{}), rt.method, rt.path, "", "")
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestUpdateDocumentHandler(t *testing.T) {
	svc := &stubDocumentService{
		update: func(ctx context.Context, id, ownerID string, req *services.UpdateDocumentRequest) (*models.Document, error) {
			if req.Title == nil || *req.Title != "Renamed" {
				t.Errorf("title patch = %v, want Renamed", req.Title)
			}
			if req.Content != nil {
				t.Errorf("content patch = %v, want nil", req.Content)
			}
			return &models.Document{ID: id, OwnerID: ownerID, Title: *req.Title}, nil
		},
	}
	rec := doRequest(newTestMux(svc), http.MethodPatch, "/api/documents/"+testDocID, testOwnerID, `{"title":"Renamed"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestListHandlers(t *testing.T) {
	docs := []models.Document{
		{ID: testDocID, OwnerID: testOwnerID, Title: "Notes"},
	}

	t.Run("sidebar passes parent id", func(t *testing.T) {
		var gotParent *string
		svc := &stubDocumentService{
			listSidebar: func(ctx context.Context, ownerID string, parentID *string) ([]models.Document, error) {
				gotParent = parentID
				return docs, nil
			},
		}
		rec := doRequest(newTestMux(svc), http.MethodGet, "/api/documents/sidebar?parent_id="+testDocID, testOwnerID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if gotParent == nil || *gotParent != testDocID {
			t.Errorf("parent = %v, want %s", gotParent, testDocID)
		}

		var resp models.DocumentListResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Total != 1 || len(resp.Documents) != 1 {
			t.Errorf("response = %+v, want one document", resp)
		}
	})

	t.Run("sidebar without parent id", func(t *testing.T) {
		svc := &stubDocumentService{
			listSidebar: func(ctx context.Context, ownerID string, parentID *string) ([]models.Document, error) {
				if parentID != nil {
					t.Errorf("parent = %v, want nil", *parentID)
				}
				return []models.Document{}, nil
			},
		}
		rec := doRequest(newTestMux(svc), http.MethodGet, "/api/documents/sidebar", testOwnerID, "")
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("trash and search owner scoped", func(t *testing.T) {
		for _, path := range []string{"/api/documents/trash", "/api/documents/search"} {
			var gotOwner string
			svc := &stubDocumentService{
				listForOwner: func(ctx context.Context, ownerID string) ([]models.Document, error) {
					gotOwner = ownerID
					return docs, nil
				},
			}
			rec := doRequest(newTestMux(svc), http.MethodGet, path, testOwnerID, "")

			if rec.Code != http.StatusOK {
				t.Errorf("%s: status = %d, want 200", path, rec.Code)
			}
			if gotOwner != testOwnerID {
				t.Errorf("%s: owner = %q, want %q", path, gotOwner, testOwnerID)
			}
		}
	})
}
