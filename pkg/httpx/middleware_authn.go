package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/veilhq/veil/pkg/jwtx"
	"github.com/veilhq/veil/pkg/slogx"
)

// SessionChecker reports whether a session is still live. Tokens carry a
// session ID precisely so that account deletion can cut them off before
// their expiry.
type SessionChecker interface {
	SessionActive(ctx context.Context, sessionID string) (bool, error)
}

// AuthnMiddleware verifies the bearer token and rejects tokens whose backing
// session has been revoked. On success it injects the user and session IDs
// into the request context.
func AuthnMiddleware(v *jwtx.Verifier, sessions SessionChecker) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("token verification failed", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			active, err := sessions.SessionActive(ctx, claims.SessionID)
			if err != nil {
				log.Error("session lookup failed", "err", err)
				WriteError(w, http.StatusInternalServerError, "server_error", "session lookup failed")
				return
			}
			if !active {
				writeBearerError(w, "session terminated")
				return
			}

			ctx = context.WithValue(ctx, CtxKeyUserID, claims.Subject)
			ctx = context.WithValue(ctx, CtxKeySessionID, claims.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
