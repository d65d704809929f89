package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ghozali/disaster-incident-api/pkg/helpers"
	"github.com/ghozali/disaster-incident-api/pkg/response"
)

const CtxUserIDKey = "userID"

// Auth validates the Authorization bearer token and injects the account id
// into the Gin context. Missing, malformed, expired and badly signed tokens
// all abort with 401.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.AbortError(c, http.StatusUnauthorized, "No token, authorization denied", nil)
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.AbortError(c, http.StatusUnauthorized, "No token, authorization denied", nil)
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "Token is not valid", nil)
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}

// UserID returns the account id set by Auth, or 0 when unauthenticated.
func UserID(c *gin.Context) int64 {
	v, ok := c.Get(CtxUserIDKey)
	if !ok {
		return 0
	}
	id, _ := v.(int64)
	return id
}
