package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/vetcare/backend/internal/application/identity"
	"github.com/vetcare/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication API endpoints
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents a login request
type LoginRequest struct {
	HospitalID string `json:"hospital_id" binding:"required,uuid"`
	Username   string `json:"username" binding:"required,min=1,max=50"`
	Password   string `json:"password" binding:"required,min=1"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest represents a logout request
type LogoutRequest struct {
	AllSessions bool `json:"all_sessions"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=100"`
}

// Login authenticates a staff account and issues a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	hospitalID, err := uuid.Parse(req.HospitalID)
	if err != nil {
		h.BadRequest(c, "Invalid hospital ID format")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identityapp.LoginInput{
		HospitalID: hospitalID,
		Username:   req.Username,
		Password:   req.Password,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Refresh exchanges a refresh token for a new token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), identityapp.RefreshTokenInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Logout revokes the current session, or all of the user's sessions
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	// Body is optional for logout
	_ = c.ShouldBindJSON(&req)

	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		h.Unauthorized(c, "Invalid token claims")
		return
	}

	err = h.authService.Logout(c.Request.Context(), identityapp.LogoutInput{
		UserID:      userID,
		TokenID:     claims.ID,
		TokenTTL:    claims.GetRemainingTTL(),
		AllSessions: req.AllSessions,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "로그아웃되었습니다"})
}

// ChangePassword updates the authenticated user's password and revokes
// existing sessions
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	err = h.authService.ChangePassword(c.Request.Context(), identityapp.ChangePasswordInput{
		UserID:      userID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "비밀번호가 변경되었습니다"})
}
