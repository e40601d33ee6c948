package router

import (
	"crypto/subtle"
	"net/http"

	"mimbar/controllers"

	"github.com/gin-gonic/gin"
)

// AdminRequired gates the admin surface on a static token. Interactive
// login/session auth belongs to the dashboard service, not this backend.
func AdminRequired(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			controllers.RespondError(c, "admin access not configured", http.StatusForbidden)
			c.Abort()
			return
		}

		provided := c.GetHeader("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			controllers.RespondError(c, "unauthorized", http.StatusUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}
