package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ebatarlar/personal-finance/internal/http/middleware"
	"github.com/ebatarlar/personal-finance/internal/service"
)

// UserHandler serves the authenticated user's profile.
type UserHandler struct {
	Users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

// Me returns the profile behind the bearer token.
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := middleware.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Missing subject."})
		return
	}

	user, err := h.Users.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
