package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Gelou69/Food-OrderomgHub/models"
)

// QueueOrder is one entry of an owner's order queue: the order header plus
// the subset of its lines sold by the requesting restaurant
type QueueOrder struct {
	models.Order
	RestaurantItems    []models.OrderItem `json:"restaurant_items"`
	RestaurantSubtotal float64            `json:"restaurant_subtotal"`
}

// OrderQueueService assembles the order queue for a restaurant owner
type OrderQueueService struct {
	db *gorm.DB
}

// NewOrderQueueService creates an order queue service over the given store
func NewOrderQueueService(db *gorm.DB) *OrderQueueService {
	return &OrderQueueService{db: db}
}

// AssembleQueue returns every order that contains at least one item sold by
// the restaurant, newest first, each carrying only that restaurant's lines
// and their subtotal.
//
// Any fetch failure aborts the whole assembly; the caller keeps whatever it
// had (stale-but-consistent over partial-and-broken).
func (s *OrderQueueService) AssembleQueue(ctx context.Context, restaurantID uint) ([]QueueOrder, error) {
	// 1. All order lines whose food item belongs to the restaurant.
	var lines []models.OrderItem
	err := s.db.WithContext(ctx).
		Joins("JOIN food_items ON food_items.id = order_items.food_item_id").
		Where("food_items.restaurant_id = ?", restaurantID).
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order lines: %w", err)
	}

	// 2. Distinct order identifiers. No lines means no further queries.
	linesByOrder := make(map[uint][]models.OrderItem)
	orderIDs := make([]uint, 0, len(lines))
	for _, line := range lines {
		if _, seen := linesByOrder[line.OrderID]; !seen {
			orderIDs = append(orderIDs, line.OrderID)
		}
		linesByOrder[line.OrderID] = append(linesByOrder[line.OrderID], line)
	}
	if len(orderIDs) == 0 {
		return []QueueOrder{}, nil
	}

	// 3. Headers for exactly those orders, newest first.
	var orders []models.Order
	err = s.db.WithContext(ctx).
		Where("id IN ?", orderIDs).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order headers: %w", err)
	}

	// 4. Attach each header's line subset and subtotal.
	queue := make([]QueueOrder, 0, len(orders))
	for _, order := range orders {
		items := linesByOrder[order.ID]
		subtotal := 0.0
		for _, item := range items {
			subtotal += item.Price * float64(item.Quantity)
		}
		queue = append(queue, QueueOrder{
			Order:              order,
			RestaurantItems:    items,
			RestaurantSubtotal: round2(subtotal),
		})
	}

	return queue, nil
}
