package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Gelou69/Food-OrderomgHub/models"
)

func TestWaitForRestaurantImmediatelyVisible(t *testing.T) {
	db := setupTestDB(t)
	owner := models.User{AuthID: "auth|owner1", Name: "Maria", Email: "maria@example.com", Role: models.RoleOwner}
	db.Create(&owner)
	db.Create(&models.Restaurant{OwnerID: owner.ID, Name: "Lechon House", Barangay: "Tibanga", CategoryID: 1})

	rec := &sleepRecorder{}
	watcher := NewRestaurantWatcher(db)
	watcher.sleep = rec.sleep

	result, err := watcher.WaitForRestaurant(context.Background(), owner.ID)
	assert.NoError(t, err)
	assert.Equal(t, StateFound, result.State)
	assert.Equal(t, "Lechon House", result.Restaurant.Name)
	assert.Equal(t, 0, result.Attempts)
	assert.Empty(t, rec.recorded(), "no retries when the row is visible at once")
}

func TestWaitForRestaurantVisibleAfterRetries(t *testing.T) {
	db := setupTestDB(t)
	owner := models.User{AuthID: "auth|owner2", Name: "Jun", Email: "jun@example.com", Role: models.RoleOwner}
	db.Create(&owner)

	// The row appears while the watcher is waiting out the 3rd delay,
	// simulating read-after-write lag.
	rec := &sleepRecorder{}
	rec.onWait = func(n int) {
		if n == 3 {
			db.Create(&models.Restaurant{OwnerID: owner.ID, Name: "Grill Spot", Barangay: "Tibanga", CategoryID: 2})
		}
	}
	watcher := NewRestaurantWatcher(db)
	watcher.sleep = rec.sleep

	result, err := watcher.WaitForRestaurant(context.Background(), owner.ID)
	assert.NoError(t, err)
	assert.Equal(t, StateFound, result.State)
	assert.Equal(t, 3, result.Attempts, "exactly 3 retries before the row became visible")
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second, 2 * time.Second}, rec.recorded())
}

func TestWaitForRestaurantExhaustsRetries(t *testing.T) {
	db := setupTestDB(t)
	owner := models.User{AuthID: "auth|owner3", Name: "Liza", Email: "liza@example.com", Role: models.RoleOwner}
	db.Create(&owner)

	rec := &sleepRecorder{}
	watcher := NewRestaurantWatcher(db)
	watcher.sleep = rec.sleep

	result, err := watcher.WaitForRestaurant(context.Background(), owner.ID)
	assert.NoError(t, err)
	assert.Equal(t, StateNotFoundFinal, result.State)
	assert.Nil(t, result.Restaurant)
	assert.Equal(t, 3, result.Attempts, "exactly 3 retries, not 4")
	assert.Len(t, rec.recorded(), 3)
}

func TestWaitForRestaurantHardErrorFailsOpen(t *testing.T) {
	db := setupTestDB(t)

	// A broken store must behave like exhausted retries, not crash.
	if err := db.Migrator().DropTable(&models.Restaurant{}); err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}

	rec := &sleepRecorder{}
	watcher := NewRestaurantWatcher(db)
	watcher.sleep = rec.sleep

	result, err := watcher.WaitForRestaurant(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, StateNotFoundFinal, result.State)
	assert.Empty(t, rec.recorded(), "hard errors are not retried")
}

func TestWaitForRestaurantCancelledContext(t *testing.T) {
	db := setupTestDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	watcher := NewRestaurantWatcher(db)
	result, err := watcher.WaitForRestaurant(ctx, 1)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWaitForRestaurantCancelledDuringWait(t *testing.T) {
	db := setupTestDB(t)
	owner := models.User{AuthID: "auth|owner4", Name: "Ben", Email: "ben@example.com", Role: models.RoleOwner}
	db.Create(&owner)

	// Identity change mid-flight: the context is cancelled while the
	// watcher sits in its first retry delay.
	ctx, cancel := context.WithCancel(context.Background())
	rec := &sleepRecorder{onWait: func(n int) { cancel() }}
	watcher := NewRestaurantWatcher(db)
	watcher.sleep = func(c context.Context, d time.Duration) error {
		if err := rec.sleep(c, d); err != nil {
			return err
		}
		return c.Err()
	}

	result, err := watcher.WaitForRestaurant(ctx, owner.ID)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, rec.recorded(), 1)
}
