package middleware

import (
	"net/http"

	"github.com/gamedex/gamedex-backend/internal/common"
	"github.com/gamedex/gamedex-backend/internal/domain"
	"github.com/gin-gonic/gin"
)

// RequireRole allows only the listed roles past. Runs after JWTAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		if !allowed[GetUserRole(c)] {
			common.ErrorResponse(c, http.StatusForbidden, "Insufficient role", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin allows only admins
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}

// RequireReviewer allows reviewers and admins
func RequireReviewer() gin.HandlerFunc {
	return RequireRole(domain.RoleReviewer, domain.RoleAdmin)
}
