package chi

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/kailas-cloud/jobmatch/internal/auth"
)

// Authenticate returns a middleware that requires a valid Bearer token and stores
// the caller's principal in the request context. WebSocket handshakes may pass the
// token as the access_token query parameter instead.
func Authenticate(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			// Browsers cannot set headers on a WebSocket handshake.
			if header == "" && websocket.IsWebSocketUpgrade(r) && r.URL.Query().Get("access_token") != "" {
				header = "Bearer " + r.URL.Query().Get("access_token")
			}
			if header == "" {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(header, bearerPrefix) {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			p, err := tokens.Parse(header[len(bearerPrefix):])
			if err != nil {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireRole rejects callers whose role is not listed. No roles means any authenticated caller.
func RequireRole(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := auth.FromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "unauthenticated")
				return
			}
			if len(roles) > 0 && !slices.Contains(roles, p.Role) {
				writeError(w, http.StatusForbidden, CodeForbidden, "role "+string(p.Role)+" may not call this endpoint")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// principal returns the authenticated caller. Handlers only run behind Authenticate.
func principal(r *http.Request) auth.Principal {
	p, _ := auth.FromContext(r.Context())
	return p
}
