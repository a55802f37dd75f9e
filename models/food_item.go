package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// FoodItem represents a menu item sold by a restaurant.
//
// The primary key is a string: items created through this API carry a
// client-generated "{restaurantID}_{unixMillis}" identifier, items imported
// from elsewhere keep whatever identifier they arrived with.
type FoodItem struct {
	ID           string         `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Price        float64        `gorm:"not null" json:"price"`
	Stock        int            `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	Description  string         `json:"description"`
	ImageRef     string         `json:"image_ref"` // storage key, absolute URL or inline data URI
	RestaurantID uint           `gorm:"not null;index" json:"restaurant_id"`
	Restaurant   Restaurant     `gorm:"foreignKey:RestaurantID" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the FoodItem model
func (FoodItem) TableName() string {
	return "food_items"
}

// NewFoodItemID builds the client-generated identifier for a food item
// created at the given time.
func NewFoodItemID(restaurantID uint, at time.Time) string {
	return fmt.Sprintf("%d_%d", restaurantID, at.UnixMilli())
}
