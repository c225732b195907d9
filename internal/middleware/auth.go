package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ticketdesk-io/ticketdesk/internal/auth"
	"github.com/ticketdesk-io/ticketdesk/internal/service"
)

type AuthMiddleware struct {
	jwtManager   *auth.JWTManager
	capabilities *auth.Capabilities
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, capabilities *auth.Capabilities) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:   jwtManager,
		capabilities: capabilities,
	}
}

// RequireAuth validates the bearer token and places the identity claims
// in the request context. All authorization state lives in the token;
// there is no server-side session store.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			c.Abort()
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Set("username", claims.Username)
		c.Set("user_role", claims.Role)
		c.Set("claims", claims)

		c.Next()
	}
}

// RequireAction gates a route on the capability table. It runs after
// RequireAuth and short-circuits before any handler logic.
func (m *AuthMiddleware) RequireAction(action auth.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("user_role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			c.Abort()
			return
		}

		if !m.capabilities.Can(role.(string), action) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// Identity rebuilds the caller identity from context values set by
// RequireAuth.
func Identity(c *gin.Context) service.Identity {
	claims, exists := c.Get("claims")
	if !exists {
		return service.Identity{}
	}
	tokenClaims := claims.(*auth.Claims)
	return service.Identity{
		UserID:   tokenClaims.UserID,
		Email:    tokenClaims.Email,
		Username: tokenClaims.Username,
		Role:     tokenClaims.Role,
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
		return parts[1]
	}
	return ""
}
