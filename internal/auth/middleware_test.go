package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func protectedRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gate := NewGate(secret)
	r := gin.New()
	r.GET("/admin", gate.RequireAuth(), gate.RequireAdmin(), func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"email": claims.Email})
	})
	return r
}

func get(t *testing.T, h http.Handler, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGate_MissingToken(t *testing.T) {
	rec := get(t, protectedRouter(t), "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGate_InvalidToken(t *testing.T) {
	rec := get(t, protectedRouter(t), "not-a-token")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGate_WrongSecret(t *testing.T) {
	tok, err := GenerateToken([]byte("other-secret"), "u1", "a@x.com", RoleAdmin, time.Hour)
	require.NoError(t, err)
	rec := get(t, protectedRouter(t), tok)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGate_ExpiredToken(t *testing.T) {
	tok, err := GenerateToken([]byte(secret), "u1", "a@x.com", RoleAdmin, -time.Minute)
	require.NoError(t, err)
	rec := get(t, protectedRouter(t), tok)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGate_NonAdminForbidden(t *testing.T) {
	tok, err := GenerateToken([]byte(secret), "u1", "user@x.com", "user", time.Hour)
	require.NoError(t, err)
	rec := get(t, protectedRouter(t), tok)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGate_AdminAllowed(t *testing.T) {
	tok, err := GenerateToken([]byte(secret), "u1", "admin@x.com", RoleAdmin, time.Hour)
	require.NoError(t, err)
	rec := get(t, protectedRouter(t), tok)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "admin@x.com")
}
