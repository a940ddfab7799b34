package middleware

import (
	"net/http"
	"strings"

	"dentalclinic/internal/pkg/jwt"
	"dentalclinic/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// JWTAuth validates "Authorization: Bearer <token>" and stores the claims
// under user_id and role.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Missing Authorization header")
			return
		}

		tokenStr, ok := strings.CutPrefix(h, "Bearer ")
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be a Bearer token")
			return
		}

		tokenStr = strings.TrimSpace(tokenStr)
		if tokenStr == "" {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Empty token")
			return
		}

		claims, err := jwtService.ValidateToken(tokenStr)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}
