package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Gelou69/Food-OrderomgHub/middleware"
	"github.com/Gelou69/Food-OrderomgHub/models"
)

// timeNow is swapped out in tests
var timeNow = time.Now

// errorResponse writes the standard failure envelope
func errorResponse(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// currentUser resolves the authenticated caller's profile row. On failure it
// writes the error response and returns false.
func currentUser(c *gin.Context, db *gorm.DB) (models.User, bool) {
	authID, err := middleware.GetUserID(c)
	if err != nil {
		errorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return models.User{}, false
	}

	var user models.User
	if err := db.Where("auth_id = ?", authID).First(&user).Error; err != nil {
		errorResponse(c, http.StatusNotFound, "USER_NOT_FOUND", "User profile not found. Please create a profile first.")
		return models.User{}, false
	}

	return user, true
}

// ownerRestaurant resolves the caller's restaurant row directly (no retry:
// this is for endpoints reached after the dashboard has already confirmed
// provisioning). On failure it writes the error response and returns false.
func ownerRestaurant(c *gin.Context, db *gorm.DB) (models.User, models.Restaurant, bool) {
	user, ok := currentUser(c, db)
	if !ok {
		return models.User{}, models.Restaurant{}, false
	}

	if user.Role != models.RoleOwner {
		errorResponse(c, http.StatusForbidden, "FORBIDDEN", "Only restaurant owners can access this resource")
		return models.User{}, models.Restaurant{}, false
	}

	var restaurant models.Restaurant
	if err := db.Where("owner_id = ?", user.ID).First(&restaurant).Error; err != nil {
		errorResponse(c, http.StatusNotFound, "RESTAURANT_NOT_LINKED", "No restaurant is linked to this account")
		return models.User{}, models.Restaurant{}, false
	}

	return user, restaurant, true
}

// authSubject extracts the auth provider subject of the caller, writing the
// error response on failure. Unlike currentUser it does not require a local
// profile row yet (registration runs before the profile exists).
func authSubject(c *gin.Context) (string, bool) {
	authID, err := middleware.GetUserID(c)
	if err != nil {
		errorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return "", false
	}
	return authID, true
}
