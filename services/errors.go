package services

import (
	"context"
	"fmt"
	"math"
	"time"
)

// ValidationError is a client-side required-field failure raised before any
// store call is made
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// sleepFunc waits for a duration unless the context is cancelled first.
// Services keep it as a field so tests can record and skip the waits.
type sleepFunc func(ctx context.Context, d time.Duration) error

// sleepCtx is the production sleepFunc
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// round2 rounds a money amount to 2 decimal places
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
