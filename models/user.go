package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleOwner    = "owner"
	RoleCustomer = "customer"
)

// User represents a user in the system (restaurant owner or customer).
// The account itself lives in the hosted auth provider; this row is the
// local profile keyed by the provider's subject claim.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	AuthID    string         `gorm:"uniqueIndex;not null" json:"auth_id"` // auth provider user ID (from 'sub' claim)
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone     string         `json:"phone"`
	Role      string         `gorm:"not null;default:'customer'" json:"role"` // "owner" or "customer"
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
