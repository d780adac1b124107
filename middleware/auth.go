package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// AdminCookieName is the cookie that marks an authenticated admin browser
	AdminCookieName = "admin_auth"
	// AdminCookieValue is the sentinel value the cookie must carry
	AdminCookieValue = "1"
)

// SetAdminSession marks the client as the logged-in operator. The cookie is HTTP-only,
// SameSite=Lax and lives for the browser session.
func SetAdminSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AdminCookieName, AdminCookieValue, 0, "/", "", false, true)
}

// ClearAdminSession expires the admin cookie
func ClearAdminSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AdminCookieName, "", -1, "/", "", false, true)
}

// IsAdmin reports whether the request carries the admin cookie with the sentinel value
func IsAdmin(c *gin.Context) bool {
	value, err := c.Cookie(AdminCookieName)
	return err == nil && value == AdminCookieValue
}

// RequireAdmin is a middleware that rejects requests without the admin cookie
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Not authenticated",
			})
			return
		}
		c.Next()
	}
}
