package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protected(t *testing.T, svc jwt.Service, extra ...func(http.Handler) http.Handler) (http.Handler, *user.Principal) {
	t.Helper()
	var seen user.Principal
	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := user.PrincipalFromContext(r.Context())
		require.NoError(t, err)
		seen = p
		w.WriteHeader(http.StatusNoContent)
	})
	for i := len(extra) - 1; i >= 0; i-- {
		h = extra[i](h)
	}
	h = AuthRequired(svc.JWTAuth())(h)
	h = jwtauth.Verifier(svc.JWTAuth())(h)
	return h, &seen
}

func request(t *testing.T, h http.Handler, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequired(t *testing.T) {
	svc := jwt.NewJWTService("test-secret", "1h")

	t.Run("missing token", func(t *testing.T) {
		h, _ := protected(t, svc)
		assert.Equal(t, http.StatusUnauthorized, request(t, h, "").Code)
	})

	t.Run("token signed with another key", func(t *testing.T) {
		other := jwt.NewJWTService("other-secret", "1h")
		token, _, err := other.GenerateAccessToken("user-1", []user.Role{user.RoleEmployee})
		require.NoError(t, err)

		h, _ := protected(t, svc)
		assert.Equal(t, http.StatusUnauthorized, request(t, h, token).Code)
	})

	t.Run("valid token stores principal", func(t *testing.T) {
		token, _, err := svc.GenerateAccessToken("user-1", []user.Role{user.RoleEmployee, user.RoleAdmin})
		require.NoError(t, err)

		h, seen := protected(t, svc)
		rec := request(t, h, token)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "user-1", seen.UserID)
		assert.True(t, seen.IsAdmin())
	})

	t.Run("wrong token type", func(t *testing.T) {
		_, token, err := svc.JWTAuth().Encode(map[string]interface{}{
			"user_id": "user-1",
			"type":    "refresh",
		})
		require.NoError(t, err)

		h, _ := protected(t, svc)
		assert.Equal(t, http.StatusUnauthorized, request(t, h, token).Code)
	})
}

func TestAdminOnly(t *testing.T) {
	svc := jwt.NewJWTService("test-secret", "1h")
	h, _ := protected(t, svc, AdminOnly)

	employee, _, err := svc.GenerateAccessToken("user-1", []user.Role{user.RoleEmployee})
	require.NoError(t, err)
	admin, _, err := svc.GenerateAccessToken("user-2", []user.Role{user.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, request(t, h, employee).Code)
	assert.Equal(t, http.StatusNoContent, request(t, h, admin).Code)
}

func TestRequireRole(t *testing.T) {
	svc := jwt.NewJWTService("test-secret", "1h")
	h, _ := protected(t, svc, RequireRole(user.RoleEmployee))

	employee, _, err := svc.GenerateAccessToken("user-1", []user.Role{user.RoleEmployee})
	require.NoError(t, err)
	noRoles, _, err := svc.GenerateAccessToken("user-2", nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, request(t, h, employee).Code)
	assert.Equal(t, http.StatusForbidden, request(t, h, noRoles).Code)
}
