package models

import (
	"time"

	"gorm.io/gorm"
)

// Restaurant represents a restaurant registered by an owner. One owner owns
// at most one restaurant; the row is created right after the owner account
// and may lag behind a read for a short while.
type Restaurant struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	OwnerID    uint           `gorm:"uniqueIndex;not null" json:"owner_id"` // foreign key to users table
	Owner      User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Name       string         `gorm:"not null" json:"name"`
	Street     string         `json:"street"`
	Barangay   string         `gorm:"not null" json:"barangay"` // delivery-address locality
	CategoryID uint           `gorm:"index" json:"category_id"`
	Category   *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	ImageRef   string         `json:"image_ref"` // storage key or absolute URL
	IsOpen     bool           `gorm:"default:true" json:"is_open"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Restaurant model
func (Restaurant) TableName() string {
	return "restaurants"
}

// Category is a restaurant category (cuisine type)
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// TableName specifies the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
