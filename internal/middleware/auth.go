package middleware

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gamedex/gamedex-backend/internal/common"
	"github.com/gamedex/gamedex-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// JWTAuth JWT authentication middleware
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.ErrorResponse(c, 401, "Missing authorization header", nil)
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			common.ErrorResponse(c, 401, "Invalid authorization header format", nil)
			c.Abort()
			return
		}

		claims, err := jwtManager.VerifyToken(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.ErrorResponse(c, 401, "Token expired", err)
			} else {
				common.ErrorResponse(c, 401, "Invalid token", err)
			}
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("userRole", claims.Role)

		c.Next()
	}
}

// OptionalJWTAuth verifies a token when present but never rejects.
// Public read endpoints use it to personalize responses for signed-in
// callers.
func OptionalJWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}
		if claims, err := jwtManager.VerifyToken(parts[1]); err == nil {
			c.Set("userID", claims.UserID)
			c.Set("userRole", claims.Role)
		}
		c.Next()
	}
}

// GetUserID extracts the numeric user ID from context (0 when anonymous)
func GetUserID(c *gin.Context) uint64 {
	raw, exists := c.Get("userID")
	if !exists {
		return 0
	}
	str, ok := raw.(string)
	if !ok {
		return 0
	}
	id, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// GetUserRole extracts the token role from context. Read gating only;
// state-changing services re-check the stored row.
func GetUserRole(c *gin.Context) string {
	role, exists := c.Get("userRole")
	if !exists {
		return ""
	}
	if str, ok := role.(string); ok {
		return str
	}
	return ""
}
