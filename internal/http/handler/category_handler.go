package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ebatarlar/personal-finance/internal/domain"
	"github.com/ebatarlar/personal-finance/internal/http/middleware"
	"github.com/ebatarlar/personal-finance/internal/service"
)

// CategoryHandler serves default and per-user custom categories.
type CategoryHandler struct {
	Categories *service.CategoryService
}

func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{Categories: categories}
}

// Defaults lists the shared default categories.
func (h *CategoryHandler) Defaults(c *gin.Context) {
	categories, err := h.Categories.Defaults(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// All lists defaults plus the bearer's custom categories.
func (h *CategoryHandler) All(c *gin.Context) {
	userID, ok := middleware.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Missing subject."})
		return
	}

	categories, err := h.Categories.All(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

type customCategoryRequest struct {
	Type domain.CategoryType `json:"type" binding:"required"`
	Name string              `json:"name" binding:"required"`
}

// AddCustom stores a custom category on the bearer's account.
func (h *CategoryHandler) AddCustom(c *gin.Context) {
	userID, ok := middleware.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Missing subject."})
		return
	}

	var req customCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid category payload."})
		return
	}

	created, err := h.Categories.AddCustom(c.Request.Context(), userID, domain.Category{Type: req.Type, Name: req.Name})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// RemoveCustom deletes a custom category by name.
func (h *CategoryHandler) RemoveCustom(c *gin.Context) {
	userID, ok := middleware.Subject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Missing subject."})
		return
	}

	if err := h.Categories.RemoveCustom(c.Request.Context(), userID, c.Param("name")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category removed"})
}
