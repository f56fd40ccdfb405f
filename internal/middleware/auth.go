package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"launchpad/internal/apierr"
)

// ContextWalletKey is where RequireAuth stores the verified wallet address.
const ContextWalletKey = "wallet"

// SessionTTL is how long a wallet session token stays valid.
const SessionTTL = 24 * time.Hour

// SessionManager issues and verifies wallet session tokens. A session binds
// one wallet address; there are no roles or scopes.
type SessionManager struct {
	secret []byte
}

func NewSessionManager(secret string) *SessionManager {
	return &SessionManager{secret: []byte(secret)}
}

// Issue creates a signed session token for the wallet.
func (s *SessionManager) Issue(wallet string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": wallet,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(SessionTTL).Unix(),
	})
	return token.SignedString(s.secret)
}

// Verify parses a session token and returns the wallet it binds.
func (s *SessionManager) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid session token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid session claims")
	}
	wallet, _ := claims["sub"].(string)
	if wallet == "" {
		return "", fmt.Errorf("session has no wallet")
	}
	return wallet, nil
}

// RequireAuth rejects requests without a valid bearer session and stores
// the wallet address in the gin context.
func (s *SessionManager) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			unauthenticated(c, "missing bearer token")
			return
		}
		wallet, err := s.Verify(tokenString)
		if err != nil {
			unauthenticated(c, "invalid or expired session")
			return
		}
		c.Set(ContextWalletKey, wallet)
		c.Next()
	}
}

func unauthenticated(c *gin.Context, msg string) {
	apiErr := apierr.Unauthenticated(msg)
	c.AbortWithStatusJSON(http.StatusUnauthorized, apiErr)
}

// WalletFromContext returns the authenticated wallet set by RequireAuth.
func WalletFromContext(c *gin.Context) string {
	return c.GetString(ContextWalletKey)
}
