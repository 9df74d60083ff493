package domain

import (
	"context"
	"time"
)

type GoalFilter struct {
	ExcludeDeleted bool
}

type GoalRepository interface {
	// Create persists a new goal. A duplicate id yields ErrGoalAlreadyExists.
	Create(ctx context.Context, goal *Goal) error

	// GetByID retrieves a goal by id, soft-deleted ones included.
	GetByID(ctx context.Context, id string) (*Goal, error)

	// List retrieves all goals matching the filter, in no particular order.
	List(ctx context.Context, filter GoalFilter) ([]*Goal, error)

	// Update overwrites every mutable column of an existing goal and refreshes
	// its updated_at. created_at is never written.
	Update(ctx context.Context, goal *Goal) error

	// SetDeleted stores the soft-delete timestamp (nil restores the goal).
	SetDeleted(ctx context.Context, id string, at *time.Time) (*Goal, error)

	// SetCompleted stores the completion timestamp (nil marks it incomplete).
	SetCompleted(ctx context.Context, id string, at *time.Time) (*Goal, error)
}

// PreferenceStore is a small string key-value port for client preferences.
type PreferenceStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}
