package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Gelou69/Food-OrderomgHub/services"
)

// HistoryController serves the customer order history
type HistoryController struct {
	db      *gorm.DB
	history *services.HistoryService
}

// NewHistoryController creates a history controller
func NewHistoryController(db *gorm.DB, history *services.HistoryService) *HistoryController {
	return &HistoryController{db: db, history: history}
}

// GetOrderHistory handles GET /api/v1/orders/history - the caller's orders
// reshaped into per-restaurant segments with resolved images
func (hc *HistoryController) GetOrderHistory(c *gin.Context) {
	user, ok := currentUser(c, hc.db)
	if !ok {
		return
	}

	history, err := hc.history.BuildHistory(c.Request.Context(), user.ID)
	if err != nil {
		log.Printf("Order history failed for user %d: %v", user.ID, err)
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load order history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    history,
	})
}
