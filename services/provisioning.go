package services

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/Gelou69/Food-OrderomgHub/models"
)

// ProvisionState is the state of a restaurant-visibility check
type ProvisionState string

const (
	StateChecking      ProvisionState = "checking"
	StateFound         ProvisionState = "found"
	StateNotFoundRetry ProvisionState = "not-found-retry"
	StateNotFoundFinal ProvisionState = "not-found-final"
)

const (
	defaultWatchRetries = 3
	defaultWatchDelay   = 2 * time.Second
)

// WatchResult is the terminal outcome of a visibility check
type WatchResult struct {
	State      ProvisionState
	Restaurant *models.Restaurant
	Attempts   int // number of retries performed after the initial lookup
}

// RestaurantWatcher resolves the eventual-consistency window between owner
// signup and the paired restaurant row becoming visible to reads.
//
// A freshly registered owner may hit the dashboard before the restaurant
// insert is readable. The watcher distinguishes "not yet visible" from
// "truly absent" by retrying a bounded number of times on the store's
// NotFound signal; any other error fails open to the final not-found state
// so the caller can render a recovery path instead of crashing.
type RestaurantWatcher struct {
	db         *gorm.DB
	maxRetries int
	retryDelay time.Duration
	sleep      sleepFunc
}

// NewRestaurantWatcher creates a watcher with the default retry policy
// (3 retries, 2 seconds apart)
func NewRestaurantWatcher(db *gorm.DB) *RestaurantWatcher {
	return &RestaurantWatcher{
		db:         db,
		maxRetries: defaultWatchRetries,
		retryDelay: defaultWatchDelay,
		sleep:      sleepCtx,
	}
}

// NewRestaurantWatcherWithPolicy creates a watcher with a custom retry
// budget and delay
func NewRestaurantWatcherWithPolicy(db *gorm.DB, maxRetries int, retryDelay time.Duration) *RestaurantWatcher {
	return &RestaurantWatcher{
		db:         db,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		sleep:      sleepCtx,
	}
}

// WaitForRestaurant looks up the restaurant owned by ownerID, retrying on
// NotFound until the retry budget is spent. Cancelling the context (view
// teardown, identity change) aborts between attempts; no work continues
// past cancellation.
func (w *RestaurantWatcher) WaitForRestaurant(ctx context.Context, ownerID uint) (*WatchResult, error) {
	attempts := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var restaurant models.Restaurant
		err := w.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&restaurant).Error
		if err == nil {
			return &WatchResult{State: StateFound, Restaurant: &restaurant, Attempts: attempts}, nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			// Hard errors are treated like exhausted retries: fail open to
			// the recovery screen, never crash the dashboard.
			log.Printf("restaurant lookup for owner %d failed: %v", ownerID, err)
			return &WatchResult{State: StateNotFoundFinal, Attempts: attempts}, nil
		}

		if attempts >= w.maxRetries {
			return &WatchResult{State: StateNotFoundFinal, Attempts: attempts}, nil
		}

		attempts++
		if err := w.sleep(ctx, w.retryDelay); err != nil {
			return nil, err
		}
	}
}
