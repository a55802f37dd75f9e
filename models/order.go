package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderStatus values, in delivery order. Status only ever advances forward
// through this sequence; Delivered is terminal.
const (
	StatusPending        = "Pending"
	StatusPreparing      = "Preparing"
	StatusOutForDelivery = "Out for Delivery"
	StatusDelivered      = "Delivered"

	// StatusFilterAll is the sentinel value for the persisted status filter,
	// never a stored order status.
	StatusFilterAll = "all"
)

// statusSequence is the authoritative progression of an order
var statusSequence = []string{
	StatusPending,
	StatusPreparing,
	StatusOutForDelivery,
	StatusDelivered,
}

// KnownStatus reports whether s is a valid stored order status
func KnownStatus(s string) bool {
	return statusIndex(s) >= 0
}

// KnownStatusFilter reports whether s is a valid status-filter value
// (any known status, or the "all" sentinel)
func KnownStatusFilter(s string) bool {
	return s == StatusFilterAll || KnownStatus(s)
}

// CanTransition reports whether an order may move from one status to the
// next. Only the immediate next status in the sequence is allowed, so the
// progression stays monotonic and can never skip or regress.
func CanTransition(from, to string) bool {
	i := statusIndex(from)
	j := statusIndex(to)
	if i < 0 || j < 0 {
		return false
	}
	return j == i+1
}

// NextStatuses returns the valid next statuses from a given status
// (empty for the terminal status)
func NextStatuses(from string) []string {
	i := statusIndex(from)
	if i < 0 || i+1 >= len(statusSequence) {
		return nil
	}
	return []string{statusSequence[i+1]}
}

// AllStatuses returns the full status sequence
func AllStatuses() []string {
	out := make([]string, len(statusSequence))
	copy(out, statusSequence)
	return out
}

func statusIndex(s string) int {
	for i, v := range statusSequence {
		if v == s {
			return i
		}
	}
	return -1
}

// Order represents a customer order. Orders are created by the checkout
// flow and are read-only here except for status transitions.
type Order struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CustomerID   uint           `gorm:"not null;index" json:"customer_id"`
	Customer     User           `gorm:"foreignKey:CustomerID" json:"-"`
	ContactName  string         `gorm:"not null" json:"contact_name"`
	ContactPhone string         `json:"contact_phone"`
	Street       string         `json:"street"`
	Barangay     string         `gorm:"not null" json:"barangay"`
	Status       string         `gorm:"not null;default:'Pending'" json:"status"`
	Items        []OrderItem    `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one line of an order. Name and price are snapshots taken at
// order time; the food item link is kept for provenance (which restaurant
// sold the line).
type OrderItem struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	OrderID    uint     `gorm:"not null;index" json:"order_id"`
	FoodItemID string   `gorm:"not null;index" json:"food_item_id"`
	FoodItem   FoodItem `gorm:"foreignKey:FoodItemID" json:"-"`
	Name       string   `gorm:"not null" json:"name"`
	Price      float64  `gorm:"not null" json:"price"`
	Quantity   int      `gorm:"not null;check:quantity > 0" json:"quantity"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
