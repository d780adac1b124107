package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/clinic-landing-api/middleware"
	"github.com/kendall-kelly/clinic-landing-api/services"
)

// User-facing messages for the password form, shown verbatim by the Korean admin panel
const (
	msgMissingFields     = "필수 항목이 누락되었습니다."
	msgCurrentPwMismatch = "현재 비밀번호가 일치하지 않습니다."
)

// LoginRequest represents the admin login form
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ChangePasswordRequest represents the admin password change form
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AdminController handles the operator session
type AdminController struct {
	credentials services.CredentialProvider
}

func NewAdminController(credentials services.CredentialProvider) *AdminController {
	return &AdminController{credentials: credentials}
}

// Login handles POST /api/admin/login - sets the admin cookie on a credential match
func (ac *AdminController) Login(c *gin.Context) {
	var req LoginRequest
	// A missing or malformed body is treated as empty credentials
	_ = c.ShouldBindJSON(&req)

	err := ac.credentials.Authenticate(c.Request.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
		return
	case err != nil:
		errorMessage(c, http.StatusInternalServerError, err)
		return
	}

	middleware.SetAdminSession(c)
	success(c)
}

// Me handles GET /api/admin/me
func (ac *AdminController) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"authenticated": middleware.IsAdmin(c)})
}

// Logout handles POST /api/admin/logout
func (ac *AdminController) Logout(c *gin.Context) {
	middleware.ClearAdminSession(c)
	success(c)
}

// ChangePassword handles POST /api/admin/change-password. The current password must
// match before the new one replaces it.
func (ac *AdminController) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	// A malformed body is treated like missing fields
	_ = c.ShouldBindJSON(&req)

	err := ac.credentials.ChangePassword(c.Request.Context(), req.CurrentPassword, req.NewPassword)
	switch {
	case errors.Is(err, services.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": msgMissingFields})
		return
	case errors.Is(err, services.ErrCurrentPasswordMismatch):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": msgCurrentPwMismatch})
		return
	case err != nil:
		errorMessage(c, http.StatusInternalServerError, err)
		return
	}

	success(c)
}
