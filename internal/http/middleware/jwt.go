package middleware

import (
	"net/http"
	"strings"

	"task_tracker/internal/http/envelope"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key holding the authenticated user id
const UserIDKey = "user_id"

// JWT authenticates "Authorization: Bearer <token>" and stores the user id
// under UserIDKey.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			envelope.Abort(c, http.StatusUnauthorized, "unauthorized")
			return
		}

		userID, err := service.ParseJWT(strings.TrimSpace(token))
		if err != nil {
			envelope.Abort(c, http.StatusUnauthorized, "invalid token")
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}
