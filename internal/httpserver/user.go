package httpserver

import (
	"net/http"

	usersvc "storefront/internal/service/user"
	"github.com/gin-gonic/gin"
)

func registerHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req usersvc.SignupInput
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		u, err := users.Signup(c.Request.Context(), req)
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusCreated, gin.H{"user": u})
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func loginHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		u, access, refresh, err := users.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{
			"user":         u,
			"token":        access,
			"refreshToken": refresh,
			"expiresIn":    users.AccessTTLSeconds(),
		})
	}
}

func profileHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		out, err := users.Profile(c.Request.Context(), u.ID)
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"user": out})
	}
}

func updateProfileHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		var req usersvc.UpdateProfileInput
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid request body")
			return
		}
		out, err := users.UpdateProfile(c.Request.Context(), u.ID, req)
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"user": out})
	}
}

func listUsersHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := users.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"users": out})
	}
}

func userCountHandler(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := users.Count(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"count": count})
	}
}
