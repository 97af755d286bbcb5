package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/plantnet-backend/pkg/auth"
	"github.com/angelmondragon/plantnet-backend/pkg/config"
	"github.com/angelmondragon/plantnet-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/plantnet-backend/pkg/errors"
)

var (
	testJWT    = config.JWTConfig{Secret: "secret", Issuer: "plantnet", Expiration: time.Hour}
	testCookie = config.CookieConfig{Name: "token", Path: "/"}
)

type stubResolver struct {
	roles map[string]enums.UserRole
	err   error
}

func (s stubResolver) ResolveIdentity(_ context.Context, email string) (auth.Identity, error) {
	if s.err != nil {
		return auth.Identity{}, s.err
	}
	return auth.Identity{Email: email, Role: s.roles[email]}, nil
}

func mintToken(t *testing.T, email string) string {
	t.Helper()
	token, err := auth.MintIdentityToken(testJWT, time.Now(), email)
	require.NoError(t, err)
	return token
}

func captureIdentity(dst *auth.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())
		*dst = identity
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRejectsMissingToken(t *testing.T) {
	var got auth.Identity
	handler := Auth(testJWT, testCookie, stubResolver{}, nil)(captureIdentity(&got))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "unauthorized access")
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	var got auth.Identity
	handler := Auth(testJWT, testCookie, stubResolver{}, nil)(captureIdentity(&got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "garbage"})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	expired, err := auth.MintIdentityToken(testJWT, time.Now().Add(-2*time.Hour), "ada@example.com")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: expired})
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAuthReadsCookieAndResolvesRole(t *testing.T) {
	var got auth.Identity
	resolver := stubResolver{roles: map[string]enums.UserRole{"boss@example.com": enums.UserRoleAdmin}}
	handler := Auth(testJWT, testCookie, resolver, nil)(captureIdentity(&got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: mintToken(t, "boss@example.com")})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "boss@example.com", got.Email)
	assert.True(t, got.IsAdmin())
}

func TestAuthFallsBackToBearerHeader(t *testing.T) {
	var got auth.Identity
	handler := Auth(testJWT, testCookie, stubResolver{}, nil)(captureIdentity(&got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "ada@example.com"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Empty(t, got.Role)
}

func TestAuthResolverFailure(t *testing.T) {
	var got auth.Identity
	resolver := stubResolver{err: pkgerrors.Wrap(pkgerrors.CodeInternal, errors.New("db down"), "resolve user role")}
	handler := Auth(testJWT, testCookie, resolver, nil)(captureIdentity(&got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: mintToken(t, "ada@example.com")})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	handler := RequireRole(enums.UserRoleAdmin, nil)(ok)

	cases := []struct {
		name   string
		ctx    context.Context
		status int
	}{
		{"no identity", context.Background(), http.StatusUnauthorized},
		{"customer", WithIdentity(context.Background(), auth.Identity{Email: "a@b.c", Role: enums.UserRoleCustomer}), http.StatusForbidden},
		{"unknown user", WithIdentity(context.Background(), auth.Identity{Email: "a@b.c"}), http.StatusForbidden},
		{"admin", WithIdentity(context.Background(), auth.Identity{Email: "a@b.c", Role: enums.UserRoleAdmin}), http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(tc.ctx))
			assert.Equal(t, tc.status, resp.Code)
		})
	}
}
