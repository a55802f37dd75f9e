package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Gelou69/Food-OrderomgHub/models"
	"github.com/Gelou69/Food-OrderomgHub/services"
)

// OrderController serves the owner's order queue and status transitions
type OrderController struct {
	db    *gorm.DB
	queue *services.OrderQueueService
}

// NewOrderController creates an order controller
func NewOrderController(db *gorm.DB, queue *services.OrderQueueService) *OrderController {
	return &OrderController{db: db, queue: queue}
}

// UpdateStatusRequest represents the request body for a status transition
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GetOwnerOrders handles GET /api/v1/owner/orders - the order queue for the
// caller's restaurant, optionally narrowed by ?status=
func (oc *OrderController) GetOwnerOrders(c *gin.Context) {
	_, restaurant, ok := ownerRestaurant(c, oc.db)
	if !ok {
		return
	}

	filter := c.Query("status")
	if filter != "" && !models.KnownStatusFilter(filter) {
		errorResponse(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown status filter value")
		return
	}

	queue, err := oc.queue.AssembleQueue(c.Request.Context(), restaurant.ID)
	if err != nil {
		// The whole assembly aborts on any fetch failure; the client keeps
		// its previous list rather than rendering partial data.
		log.Printf("Order queue assembly failed for restaurant %d: %v", restaurant.ID, err)
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load orders")
		return
	}

	if filter != "" && filter != models.StatusFilterAll {
		filtered := make([]services.QueueOrder, 0, len(queue))
		for _, entry := range queue {
			if entry.Status == filter {
				filtered = append(filtered, entry)
			}
		}
		queue = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    queue,
	})
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status.
//
// The write is pessimistic: the updated order is returned only after the
// store acknowledges, and callers patch their list from the response. An
// invalid transition never reaches the store.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	_, restaurant, ok := ownerRestaurant(c, oc.db)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	var order models.Order
	if err := oc.db.First(&order, c.Param("id")).Error; err != nil {
		errorResponse(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
		return
	}

	// The order must contain at least one line sold by this restaurant.
	var count int64
	err := oc.db.Model(&models.OrderItem{}).
		Joins("JOIN food_items ON food_items.id = order_items.food_item_id").
		Where("order_items.order_id = ? AND food_items.restaurant_id = ?", order.ID, restaurant.ID).
		Count(&count).Error
	if err != nil {
		log.Printf("Ownership check failed for order %d: %v", order.ID, err)
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to verify order")
		return
	}
	if count == 0 {
		errorResponse(c, http.StatusForbidden, "FORBIDDEN", "Order does not belong to this restaurant")
		return
	}

	if !models.CanTransition(order.Status, req.Status) {
		errorResponse(c, http.StatusBadRequest, "INVALID_TRANSITION", "Cannot move order from "+order.Status+" to "+req.Status)
		return
	}

	if err := oc.db.Model(&order).Update("status", req.Status).Error; err != nil {
		log.Printf("Status update failed for order %d: %v", order.ID, err)
		errorResponse(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update order status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
