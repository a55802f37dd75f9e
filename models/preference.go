package models

import "time"

// Preference keys
const (
	// StatusFilterKey is the fixed key under which the order-status filter
	// is persisted, one row per user.
	StatusFilterKey = "status-filter"
)

// Preference is a persisted per-user UI preference. It is advisory only:
// views read it at mount and write it on change, but never use it to skip
// a fresh fetch.
type Preference struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_pref_user_key" json:"user_id"`
	Key       string    `gorm:"not null;uniqueIndex:idx_pref_user_key" json:"key"`
	Value     string    `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Preference model
func (Preference) TableName() string {
	return "preferences"
}
