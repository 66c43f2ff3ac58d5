package delivery

import (
	"net/http"
	"strings"

	"disposal-backend/internal/auth/domain"
	"disposal-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware
const (
	PrincipalKey = "principal"
	UserIDKey    = "userID"
)

// AuthMiddleware admits requests carrying a valid "Bearer <jwt>" header.
// On success the *domain.Principal is stored under PrincipalKey and its user id
// under UserIDKey. Anything else is rejected with 401 before the handler runs.
func AuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		if scheme == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		principal, err := authUsecase.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(PrincipalKey, principal)
		c.Set(UserIDKey, principal.UserID)
		c.Next()
	}
}

// PrincipalFrom returns the caller admitted by AuthMiddleware
func PrincipalFrom(c *gin.Context) (*domain.Principal, bool) {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*domain.Principal)
	return p, ok
}
