package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ebatarlar/personal-finance/internal/service"
)

const subjectKey = "authSubject"

// Auth validates the Authorization header and attaches the token subject.
type Auth struct {
	AuthService *service.AuthService
}

// NewAuth wires the middleware.
func NewAuth(authService *service.AuthService) *Auth {
	return &Auth{AuthService: authService}
}

// RequireBearer ensures the request carries a valid access token.
func (m *Auth) RequireBearer(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Authorization header required."})
		return
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Bearer token required."})
		return
	}
	claims, err := m.AuthService.ValidateAccess(c.Request.Context(), strings.TrimSpace(parts[1]))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Invalid access token."})
		return
	}
	c.Set(subjectKey, claims.Subject)
	c.Next()
}

// Subject returns the authenticated user id set by RequireBearer.
func Subject(c *gin.Context) (string, bool) {
	value, ok := c.Get(subjectKey)
	if !ok {
		return "", false
	}
	subject, ok := value.(string)
	return subject, ok && subject != ""
}
