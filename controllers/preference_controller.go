package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Gelou69/Food-OrderomgHub/models"
)

// PreferenceController serves the persisted per-user status filter. The
// preference is advisory: views read it at mount and write it on change,
// it never short-circuits a fresh fetch.
type PreferenceController struct {
	db *gorm.DB
}

// NewPreferenceController creates a preference controller
func NewPreferenceController(db *gorm.DB) *PreferenceController {
	return &PreferenceController{db: db}
}

// SetStatusFilterRequest represents the request body for saving the filter
type SetStatusFilterRequest struct {
	Value string `json:"value" binding:"required"`
}

// GetStatusFilter handles GET /api/v1/preferences/status-filter. A user who
// never saved a filter gets the "all" sentinel.
func (pc *PreferenceController) GetStatusFilter(c *gin.Context) {
	user, ok := currentUser(c, pc.db)
	if !ok {
		return
	}

	value := models.StatusFilterAll
	var pref models.Preference
	err := pc.db.Where("user_id = ? AND key = ?", user.ID, models.StatusFilterKey).First(&pref).Error
	if err == nil {
		value = pref.Value
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to load status filter for user %d: %v", user.ID, err)
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load preference")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"key": models.StatusFilterKey, "value": value},
	})
}

// SetStatusFilter handles PUT /api/v1/preferences/status-filter
func (pc *PreferenceController) SetStatusFilter(c *gin.Context) {
	user, ok := currentUser(c, pc.db)
	if !ok {
		return
	}

	var req SetStatusFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	if !models.KnownStatusFilter(req.Value) {
		errorResponse(c, http.StatusBadRequest, "INVALID_STATUS", "Value must be a known order status or \"all\"")
		return
	}

	pref := models.Preference{
		UserID: user.ID,
		Key:    models.StatusFilterKey,
		Value:  req.Value,
	}
	err := pc.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&pref).Error
	if err != nil {
		log.Printf("Failed to save status filter for user %d: %v", user.ID, err)
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save preference")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"key": models.StatusFilterKey, "value": req.Value},
	})
}
