package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	sessions := NewSessionManager("test-secret")

	token, err := sessions.Issue("4Nd1mYdcfV7V5NWPzmnWL3c2N4Sc1nWPa11111111111")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	wallet, err := sessions.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "4Nd1mYdcfV7V5NWPzmnWL3c2N4Sc1nWPa11111111111", wallet)
}

func TestSessionWrongSecret(t *testing.T) {
	token, err := NewSessionManager("secret-a").Issue("wallet")
	require.NoError(t, err)

	_, err = NewSessionManager("secret-b").Verify(token)
	assert.Error(t, err)
}

func TestSessionGarbageToken(t *testing.T) {
	_, err := NewSessionManager("test-secret").Verify("not.a.jwt")
	assert.Error(t, err)
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sessions := NewSessionManager("test-secret")

	r := gin.New()
	r.GET("/protected", sessions.RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, WalletFromContext(c))
	})

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := sessions.Issue("creatorWallet")
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "creatorWallet", w.Body.String())
	})
}
