package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lumora/memoria-backend/internal/common"
	"github.com/lumora/memoria-backend/internal/domain"
	"github.com/lumora/memoria-backend/pkg/jwt"
)

// JWTAuth JWT authentication middleware; rejects requests without a valid token
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromHeader(c, jwtManager)
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.ErrorResponse(c, http.StatusUnauthorized, "Token expired", err)
			} else {
				common.ErrorResponse(c, http.StatusUnauthorized, "Invalid or missing token", err)
			}
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("userName", claims.Name)
		c.Set("isAdmin", claims.IsAdmin)

		c.Next()
	}
}

// OptionalAuth populates viewer identity when a valid token is present but
// lets anonymous requests through. Public memorial pages use this: the
// access rules themselves decide what an anonymous viewer may see.
func OptionalAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := claimsFromHeader(c, jwtManager); err == nil {
			c.Set("userID", claims.UserID)
			c.Set("userName", claims.Name)
			c.Set("isAdmin", claims.IsAdmin)
		}
		c.Next()
	}
}

func claimsFromHeader(c *gin.Context, jwtManager *jwt.Manager) (*jwt.Claims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, common.ErrUnauthorized
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, common.ErrInvalidToken
	}

	return jwtManager.VerifyToken(parts[1])
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get("userID")
	if !exists {
		return ""
	}
	if str, ok := userID.(string); ok {
		return str
	}
	return ""
}

// IsAdmin extracts the admin flag from context
func IsAdmin(c *gin.Context) bool {
	isAdmin, exists := c.Get("isAdmin")
	if !exists {
		return false
	}
	if b, ok := isAdmin.(bool); ok {
		return b
	}
	return false
}

// GetViewer builds the viewer identity for access decisions
func GetViewer(c *gin.Context) domain.Viewer {
	return domain.Viewer{
		ID:      GetUserID(c),
		IsAdmin: IsAdmin(c),
	}
}
