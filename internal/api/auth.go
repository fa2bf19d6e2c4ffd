package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"log"
	"net/http"
	"strings"
)

// AdminAuth guards admin routes with a static bearer token.
type AdminAuth struct {
	digest [sha256.Size]byte
}

// NewAdminAuth returns nil for an empty token, which leaves admin routes
// unmounted.
func NewAdminAuth(token string) *AdminAuth {
	if token == "" {
		return nil
	}
	return &AdminAuth{digest: sha256.Sum256([]byte(token))}
}

// Valid reports whether token matches. Digests are compared so the check
// takes the same time whatever the token length.
func (a *AdminAuth) Valid(token string) bool {
	got := sha256.Sum256([]byte(token))
	return hmac.Equal(got[:], a.digest[:])
}

// Middleware requires "Authorization: Bearer <token>".
func (a *AdminAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || !a.Valid(token) {
			log.Printf("🔐 Admin request rejected from %s", GetClientIP(r))
			RecordConnectionRejected("auth")
			w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
			writeError(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
