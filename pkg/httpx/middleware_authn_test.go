package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/veilhq/veil/pkg/httpx"
	"github.com/veilhq/veil/pkg/jwtx"
)

type staticSessions struct {
	active bool
}

func (s staticSessions) SessionActive(_ context.Context, _ string) (bool, error) {
	return s.active, nil
}

func newAuthnFixture(t *testing.T, sessions httpx.SessionChecker) (http.Handler, *jwtx.Signer) {
	t.Helper()

	keys, err := jwtx.NewKeypair()
	require.NoError(t, err)

	signer := &jwtx.Signer{Keys: keys, Issuer: "test-broker", TTL: time.Minute}
	verifier := &jwtx.Verifier{Public: keys.Public, Issuer: "test-broker"}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := httpx.UserIDFromContext(r.Context())
		require.True(t, ok, "handler should see the authenticated user")
		w.Write([]byte(userID))
	})

	return httpx.AuthnMiddleware(verifier, sessions)(inner), signer
}

func TestAuthnMiddleware_ValidToken(t *testing.T) {
	handler, signer := newAuthnFixture(t, staticSessions{active: true})

	token, err := signer.Mint("user-42", "sess-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "user-42", rec.Body.String())
}

func TestAuthnMiddleware_MissingToken(t *testing.T) {
	handler, _ := newAuthnFixture(t, staticSessions{active: true})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
}

func TestAuthnMiddleware_MalformedToken(t *testing.T) {
	handler, _ := newAuthnFixture(t, staticSessions{active: true})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthnMiddleware_RevokedSession(t *testing.T) {
	// Deleting an account kills its sessions; a structurally valid token
	// whose session is gone must be refused.
	handler, signer := newAuthnFixture(t, staticSessions{active: false})

	token, err := signer.Mint("user-42", "sess-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), "session terminated")
}
