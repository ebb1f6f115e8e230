package middleware

import (
	"net/http"
	"strings"

	"jotion/internal/auth"
	"jotion/internal/httputil"
)

// AuthMiddleware verifies the Bearer token on every request and stores the
// caller's owner identity in the request context. Routes that serve the
// public-read path (health check, single-document GET) pass through without
// a token; the service layer then restricts them to published documents.
func AuthMiddleware(verifier auth.JWTVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// CORS pre-flight never carries credentials
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				if allowsAnonymous(r) {
					next.ServeHTTP(w, r)
					return
				}
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, claims.GetUserID()))
		})
	}
}

// bearerToken extracts the token from the Authorization header
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// allowsAnonymous reports whether a request may proceed without an
// identity. Only the health check and the single-document GET qualify; the
// listing endpoints under /api/documents/ are always owner-scoped.
func allowsAnonymous(r *http.Request) bool {
	if r.URL.Path == "/health" {
		return true
	}
	if r.Method != http.MethodGet {
		return false
	}

	rest, ok := strings.CutPrefix(r.URL.Path, "/api/documents/")
	if !ok || rest == "" {
		return false
	}
	switch rest {
	case "sidebar", "search", "trash":
		return false
	}
	return !strings.Contains(rest, "/")
}
