package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Gelou69/Food-OrderomgHub/models"
	"github.com/Gelou69/Food-OrderomgHub/services"
)

// AuthController relays sign-in/sign-up/sign-out to the hosted auth provider
// and maintains the local profile rows
type AuthController struct {
	db   *gorm.DB
	auth *services.AuthService
}

// NewAuthController creates an auth controller
func NewAuthController(db *gorm.DB, auth *services.AuthService) *AuthController {
	return &AuthController{db: db, auth: auth}
}

// SignUpRequest represents the request body for creating an account
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// LoginRequest represents the request body for signing in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignUp handles POST /api/v1/auth/signup - creates a provider account and
// the local profile row. The returned session is null while the provider is
// waiting on email confirmation.
func (ac *AuthController) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleCustomer
	}
	if role != models.RoleCustomer && role != models.RoleOwner {
		errorResponse(c, http.StatusBadRequest, "INVALID_ROLE", "Role must be customer or owner")
		return
	}

	result, err := ac.auth.SignUp(req.Email, req.Password, map[string]string{
		"name": req.Name,
		"role": role,
	})
	if err != nil {
		log.Printf("Sign-up failed for %s: %v", req.Email, err)
		errorResponse(c, http.StatusBadGateway, "AUTH_PROVIDER_ERROR", "Failed to create account with the auth provider")
		return
	}

	user := models.User{
		AuthID: result.User.Sub,
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Role:   role,
	}
	if err := ac.db.Create(&user).Error; err != nil {
		// The provider account exists; surface the partial failure instead
		// of pretending nothing happened.
		log.Printf("Failed to create profile for %s: %v", req.Email, err)
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Account created but profile could not be saved")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"user":    user,
			"session": result.Session,
		},
	})
}

// Login handles POST /api/v1/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	session, err := ac.auth.SignIn(req.Email, req.Password)
	if err != nil {
		var provErr *services.AuthProviderError
		if errors.As(err, &provErr) && provErr.InvalidCredentials() {
			errorResponse(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Wrong email or password")
			return
		}
		log.Printf("Sign-in failed for %s: %v", req.Email, err)
		errorResponse(c, http.StatusBadGateway, "AUTH_PROVIDER_ERROR", "Failed to sign in with the auth provider")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"session": session},
	})
}

// Logout handles POST /api/v1/auth/logout. Sign-out is best-effort: provider
// failures are logged, the response is success either way.
func (ac *AuthController) Logout(c *gin.Context) {
	token := bearerToken(c)
	if token != "" {
		if err := ac.auth.SignOut(token); err != nil {
			log.Printf("Sign-out failed: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Signed out",
	})
}

// GetSession handles GET /api/v1/auth/session - returns the current session
// derived from the bearer token, or null when there is none or it expired
func (ac *AuthController) GetSession(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"session": nil}})
		return
	}

	session, err := services.SessionFromToken(token)
	if err != nil || session.Expired(timeNow()) {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"session": nil}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"session": session}})
}

// bearerToken pulls the raw token off the Authorization header, or ""
func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}
