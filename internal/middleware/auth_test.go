package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"jotion/internal/domain/models"
	"jotion/internal/httputil"
)

// stubVerifier accepts a single token and rejects everything else.
type stubVerifier struct {
	validToken string
	userID     string
}

func (v *stubVerifier) VerifyToken(token string) (*models.AuthClaims, error) {
	if token != v.validToken {
		return nil, errors.New("invalid token")
	}
	return &models.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: v.userID},
	}, nil
}

func (v *stubVerifier) Close() error { return nil }

func TestAuthMiddleware(t *testing.T) {
	const userID = "8f1f42d3-6f2a-4e44-9d30-6f9aa6f1a001"
	verifier := &stubVerifier{validToken: "good-token", userID: userID}

	var gotUserID string
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotUserID = httputil.GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})
	handler := AuthMiddleware(verifier)(next)

	tests := []struct {
		name       string
		method     string
		path       string
		authHeader string
		wantStatus int
		wantCalled bool
		wantUserID string
	}{
		{
			name:       "valid token reaches handler with identity",
			method:     http.MethodGet,
			path:       "/api/documents/sidebar",
			authHeader: "Bearer good-token",
			wantStatus: http.StatusOK,
			wantCalled: true,
			wantUserID: userID,
		},
		{
			name:       "invalid token rejected",
			method:     http.MethodGet,
			path:       "/api/documents/sidebar",
			authHeader: "Bearer bad-token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing token on owner-scoped route rejected",
			method:     http.MethodGet,
			path:       "/api/documents/sidebar",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed authorization header rejected",
			method:     http.MethodGet,
			path:       "/api/documents/sidebar",
			authHeader: "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "health check passes without token",
			method:     http.MethodGet,
			path:       "/health",
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name:       "single document GET passes anonymously",
			method:     http.MethodGet,
			path:       "/api/documents/2da3f8e1-92c5-4fbb-8a43-1f4f9a1c0b7d",
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name:       "anonymous write rejected",
			method:     http.MethodPost,
			path:       "/api/documents",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "anonymous archive rejected",
			method:     http.MethodPost,
			path:       "/api/documents/2da3f8e1-92c5-4fbb-8a43-1f4f9a1c0b7d/archive",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "preflight passes through",
			method:     http.MethodOptions,
			path:       "/api/documents",
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = false
			gotUserID = ""

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if called != tt.wantCalled {
				t.Errorf("next called = %v, want %v", called, tt.wantCalled)
			}
			if gotUserID != tt.wantUserID {
				t.Errorf("user id = %q, want %q", gotUserID, tt.wantUserID)
			}
		})
	}
}

func TestAllowsAnonymous(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   bool
	}{
		{http.MethodGet, "/health", true},
		{http.MethodGet, "/api/documents/2da3f8e1-92c5-4fbb-8a43-1f4f9a1c0b7d", true},
		{http.MethodGet, "/api/documents/sidebar", false},
		{http.MethodGet, "/api/documents/search", false},
		{http.MethodGet, "/api/documents/trash", false},
		{http.MethodGet, "/api/documents/", false},
		{http.MethodGet, "/api/documents", false},
		{http.MethodGet, "/api/documents/x/archive", false},
		{http.MethodPatch, "/api/documents/2da3f8e1-92c5-4fbb-8a43-1f4f9a1c0b7d", false},
		{http.MethodDelete, "/api/documents/2da3f8e1-92c5-4fbb-8a43-1f4f9a1c0b7d", false},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(tt.method, tt.path, nil)
		if got := allowsAnonymous(r); got != tt.want {
			t.Errorf("allowsAnonymous(%s %s) = %v, want %v", tt.method, tt.path, got, tt.want)
		}
	}
}
