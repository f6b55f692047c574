package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ebatarlar/personal-finance/internal/domain"
	"github.com/ebatarlar/personal-finance/internal/token"
)

// respondError maps domain error kinds to HTTP statuses. Anything without a
// kind is treated as an internal failure and the detail stays server-side.
func respondError(c *gin.Context, err error) {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": err.Error()})
	case domain.KindAuthentication:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials", "error_description": err.Error()})
	case domain.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "error_description": err.Error()})
	default:
		zap.L().Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": "Internal server error."})
	}
}

func respondTokenPair(c *gin.Context, pair token.Pair) {
	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"token_type":    "bearer",
	})
}
