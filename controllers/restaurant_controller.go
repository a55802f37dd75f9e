package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Gelou69/Food-OrderomgHub/models"
	"github.com/Gelou69/Food-OrderomgHub/services"
)

// RestaurantController serves owner provisioning, the dashboard restaurant
// lookup and restaurant reads/edits
type RestaurantController struct {
	db           *gorm.DB
	registration *services.RegistrationService
	watcher      *services.RestaurantWatcher
}

// NewRestaurantController creates a restaurant controller
func NewRestaurantController(db *gorm.DB, registration *services.RegistrationService, watcher *services.RestaurantWatcher) *RestaurantController {
	return &RestaurantController{db: db, registration: registration, watcher: watcher}
}

// RegisterOwnerRequest represents the request body for owner registration
type RegisterOwnerRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone"`
	RestaurantName string `json:"restaurant_name" binding:"required"`
	Street         string `json:"street" binding:"required"`
	Barangay       string `json:"barangay" binding:"required"`
	CategoryID     uint   `json:"category_id" binding:"required"`
	ImageRef       string `json:"image_ref"`
}

// UpdateRestaurantRequest represents the request body for profile edits
type UpdateRestaurantRequest struct {
	Name       string `json:"name"`
	Street     string `json:"street"`
	Barangay   string `json:"barangay"`
	CategoryID uint   `json:"category_id"`
	ImageRef   string `json:"image_ref"`
	IsOpen     *bool  `json:"is_open"`
}

// RegisterOwner handles POST /api/v1/owner/register - provisions the owner
// profile and its restaurant for the authenticated account
func (rc *RestaurantController) RegisterOwner(c *gin.Context) {
	authID, ok := authSubject(c)
	if !ok {
		return
	}

	var req RegisterOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	restaurant, err := rc.registration.RegisterOwner(c.Request.Context(), services.RegisterOwnerInput{
		AuthID:         authID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		RestaurantName: req.RestaurantName,
		Street:         req.Street,
		Barangay:       req.Barangay,
		CategoryID:     req.CategoryID,
		ImageRef:       req.ImageRef,
	})
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", vErr.Error())
			return
		}
		log.Printf("Owner registration failed: %v", err)
		errorResponse(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Registration could not be completed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    restaurant,
	})
}

// GetOwnRestaurant handles GET /api/v1/owner/restaurant - the dashboard
// bootstrap. The lookup rides out read-after-write lag via the watcher; only
// after the retry budget is spent does it report the restaurant as missing.
func (rc *RestaurantController) GetOwnRestaurant(c *gin.Context) {
	user, ok := currentUser(c, rc.db)
	if !ok {
		return
	}
	if user.Role != models.RoleOwner {
		errorResponse(c, http.StatusForbidden, "FORBIDDEN", "Only restaurant owners can access this resource")
		return
	}

	result, err := rc.watcher.WaitForRestaurant(c.Request.Context(), user.ID)
	if err != nil {
		// Context cancelled: the client went away, nothing to render.
		log.Printf("Restaurant watch aborted for owner %d: %v", user.ID, err)
		c.Abort()
		return
	}

	if result.State != services.StateFound {
		errorResponse(c, http.StatusNotFound, "RESTAURANT_NOT_LINKED", "No restaurant is linked to this account")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Restaurant,
	})
}

// UpdateOwnRestaurant handles PUT /api/v1/owner/restaurant
func (rc *RestaurantController) UpdateOwnRestaurant(c *gin.Context) {
	_, restaurant, ok := ownerRestaurant(c, rc.db)
	if !ok {
		return
	}

	var req UpdateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	if req.Name != "" {
		restaurant.Name = req.Name
	}
	if req.Street != "" {
		restaurant.Street = req.Street
	}
	if req.Barangay != "" {
		restaurant.Barangay = req.Barangay
	}
	if req.CategoryID != 0 {
		restaurant.CategoryID = req.CategoryID
	}
	if req.ImageRef != "" {
		restaurant.ImageRef = req.ImageRef
	}
	if req.IsOpen != nil {
		restaurant.IsOpen = *req.IsOpen
	}

	if err := rc.db.Save(&restaurant).Error; err != nil {
		log.Printf("Failed to update restaurant %d: %v", restaurant.ID, err)
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update restaurant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    restaurant,
	})
}

// GetRestaurant handles GET /api/v1/restaurants/:id - public restaurant read
// with its menu
func (rc *RestaurantController) GetRestaurant(c *gin.Context) {
	var restaurant models.Restaurant
	if err := rc.db.Preload("Category").First(&restaurant, c.Param("id")).Error; err != nil {
		errorResponse(c, http.StatusNotFound, "RESTAURANT_NOT_FOUND", "Restaurant not found")
		return
	}

	var items []models.FoodItem
	if err := rc.db.Where("restaurant_id = ?", restaurant.ID).Find(&items).Error; err != nil {
		log.Printf("Failed to load menu for restaurant %d: %v", restaurant.ID, err)
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load menu")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"restaurant": restaurant,
			"menu":       items,
		},
	})
}
