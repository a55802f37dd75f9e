package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Gelou69/Food-OrderomgHub/models"
)

const (
	insertRetryAttempts = 3
	insertRetryDelay    = 1 * time.Second
	readBackDelay       = 1500 * time.Millisecond
)

// RegisterOwnerInput carries everything needed to provision an owner
// account with its restaurant
type RegisterOwnerInput struct {
	AuthID         string
	Name           string
	Email          string
	Phone          string
	RestaurantName string
	Street         string
	Barangay       string
	CategoryID     uint
	ImageRef       string
}

// RegistrationService provisions owner+restaurant pairs.
//
// The two inserts are dependent but not transactional: a restaurant insert
// that ultimately fails leaves the owner row in place (partial success is
// surfaced, not compensated). The restaurant insert is retried a bounded
// number of times to ride out transient store failures, and registration is
// only declared complete after a delayed read-back confirms the row is
// visible.
type RegistrationService struct {
	db    *gorm.DB
	sleep sleepFunc
}

// NewRegistrationService creates a registration service over the given store
func NewRegistrationService(db *gorm.DB) *RegistrationService {
	return &RegistrationService{db: db, sleep: sleepCtx}
}

// Validate checks required fields before any store call is made
func (in *RegisterOwnerInput) Validate() error {
	required := []struct{ field, value string }{
		{"auth_id", in.AuthID},
		{"name", in.Name},
		{"email", in.Email},
		{"restaurant_name", in.RestaurantName},
		{"street", in.Street},
		{"barangay", in.Barangay},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Message: "is required"}
		}
	}
	if in.CategoryID == 0 {
		return &ValidationError{Field: "category_id", Message: "is required"}
	}
	return nil
}

// RegisterOwner creates the owner profile and its restaurant, returning the
// read-back-verified restaurant row
func (s *RegistrationService) RegisterOwner(ctx context.Context, in RegisterOwnerInput) (*models.Restaurant, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	owner := models.User{
		AuthID: in.AuthID,
		Name:   in.Name,
		Email:  in.Email,
		Phone:  in.Phone,
		Role:   models.RoleOwner,
	}
	if err := s.db.WithContext(ctx).Create(&owner).Error; err != nil {
		return nil, fmt.Errorf("failed to create owner profile: %w", err)
	}

	restaurant := models.Restaurant{
		OwnerID:    owner.ID,
		Name:       in.RestaurantName,
		Street:     in.Street,
		Barangay:   in.Barangay,
		CategoryID: in.CategoryID,
		ImageRef:   in.ImageRef,
		IsOpen:     true,
	}
	if err := s.insertRestaurant(ctx, &restaurant); err != nil {
		// The owner row stays; the caller surfaces the partial failure.
		return nil, fmt.Errorf("failed to create restaurant: %w", err)
	}

	// The insert succeeded but a read may not see the row yet. Wait out the
	// replication window, then confirm visibility before declaring success.
	if err := s.sleep(ctx, readBackDelay); err != nil {
		return nil, err
	}

	var verified models.Restaurant
	if err := s.db.WithContext(ctx).Where("owner_id = ?", owner.ID).First(&verified).Error; err != nil {
		return nil, fmt.Errorf("restaurant created but not yet visible: %w", err)
	}

	return &verified, nil
}

// insertRestaurant retries the restaurant insert on transient failures
func (s *RegistrationService) insertRestaurant(ctx context.Context, restaurant *models.Restaurant) error {
	var lastErr error
	for attempt := 1; attempt <= insertRetryAttempts; attempt++ {
		if err := s.db.WithContext(ctx).Create(restaurant).Error; err == nil {
			return nil
		} else {
			lastErr = err
			log.Printf("restaurant insert attempt %d/%d failed: %v", attempt, insertRetryAttempts, err)
		}

		if attempt < insertRetryAttempts {
			if err := s.sleep(ctx, insertRetryDelay); err != nil {
				return err
			}
		}
	}
	return lastErr
}
