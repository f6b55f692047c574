package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ebatarlar/personal-finance/internal/domain"
	"github.com/ebatarlar/personal-finance/internal/service"
)

// AuthHandler exposes registration, login, OAuth, and token lifecycle routes.
type AuthHandler struct {
	Auth *service.AuthService
}

// NewAuthHandler creates the handler set.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

type registerRequest struct {
	Email     string            `json:"email" binding:"required,email"`
	Name      string            `json:"name" binding:"required"`
	Surname   string            `json:"surname" binding:"required"`
	Password  string            `json:"password"`
	OAuthInfo *domain.OAuthInfo `json:"oauth_info"`
}

// Register creates a user. An email that is already registered is reported
// with 200 rather than an error so clients can offer a login path.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid registration payload."})
		return
	}

	outcome, err := h.Auth.Register(c.Request.Context(), domain.NewUser{
		Email:     req.Email,
		Name:      req.Name,
		Surname:   req.Surname,
		Password:  req.Password,
		OAuthInfo: req.OAuthInfo,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if outcome.AlreadyExists {
		c.JSON(http.StatusOK, gin.H{"message": "User with this email already exists"})
		return
	}

	c.JSON(http.StatusCreated, outcome.User)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges credentials for a token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid login payload."})
		return
	}

	pair, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respondTokenPair(c, pair)
}

type oauthLoginRequest struct {
	Provider       domain.OAuthProvider `json:"provider" binding:"required,oauth_provider"`
	ProviderUserID string               `json:"provider_user_id" binding:"required"`
	Email          string               `json:"email" binding:"required,email"`
	Name           string               `json:"name" binding:"required"`
	Surname        string               `json:"surname" binding:"required"`
}

// OAuthLogin signs a user in after a provider redirect, linking or creating
// the account as needed.
func (h *AuthHandler) OAuthLogin(c *gin.Context) {
	var req oauthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Invalid oauth payload."})
		return
	}

	info := domain.OAuthInfo{Provider: req.Provider, ProviderUserID: req.ProviderUserID}
	pair, err := h.Auth.OAuthLogin(c.Request.Context(), info, domain.NewUser{
		Email:   req.Email,
		Name:    req.Name,
		Surname: req.Surname,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondTokenPair(c, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Logout revokes the presented refresh token. Always 200.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.Auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// Refresh mints a new token pair from a refresh token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "refresh_token is required."})
		return
	}

	pair, err := h.Auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	respondTokenPair(c, pair)
}

type sendVerificationRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// SendVerificationEmail issues a verification link for the user.
func (h *AuthHandler) SendVerificationEmail(c *gin.Context) {
	var req sendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "user_id is required."})
		return
	}

	if err := h.Auth.SendVerificationEmail(c.Request.Context(), req.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification email sent"})
}

type tokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// VerifyEmail marks the token's subject as verified.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "token is required."})
		return
	}

	if err := h.Auth.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified"})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword requests a reset link. The response never reveals whether
// the email is registered.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "email is required."})
		return
	}

	if err := h.Auth.SendPasswordResetEmail(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the email is registered, a reset link has been sent"})
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ResetPassword sets a new password for the token's subject.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "token and new_password are required."})
		return
	}

	if err := h.Auth.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
