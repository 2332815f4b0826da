package httpserver

import (
	"net/http"
	"strings"

	"storefront/internal/domain"
	"github.com/gin-gonic/gin"
)

const userCtxKey = "currentUser"

// authMiddleware resolves the Bearer token to a user and stores it on the
// request context. Requests without a valid token get a 401.
func authMiddleware(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			fail(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		u, err := users.LookupByToken(c.Request.Context(), token)
		if err != nil {
			fail(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(userCtxKey, u)
		c.Next()
	}
}

// adminMiddleware must run after authMiddleware.
func adminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if u == nil || !u.IsAdmin {
			fail(c, http.StatusForbidden, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(userCtxKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}
