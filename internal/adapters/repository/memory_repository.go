package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-goals/internal/core/domain"
)

var _ domain.GoalRepository = (*InMemoryGoalRepository)(nil)

// InMemoryGoalRepository keeps goals in a map. Every read and write copies,
// so callers never share memory with the store.
type InMemoryGoalRepository struct {
	store map[string]*domain.Goal

	mu sync.RWMutex
}

func NewInMemoryGoalRepository() *InMemoryGoalRepository {
	return &InMemoryGoalRepository{
		store: make(map[string]*domain.Goal),
	}
}

func (r *InMemoryGoalRepository) Create(ctx context.Context, goal *domain.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[goal.ID]; exists {
		return domain.ErrGoalAlreadyExists
	}

	r.store[goal.ID] = goal.Clone()
	return nil
}

func (r *InMemoryGoalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	goal, ok := r.store[id]
	if !ok {
		return nil, domain.ErrGoalNotFound
	}
	return goal.Clone(), nil
}

func (r *InMemoryGoalRepository) List(ctx context.Context, filter domain.GoalFilter) ([]*domain.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	goals := make([]*domain.Goal, 0, len(r.store))
	for _, g := range r.store {
		if filter.ExcludeDeleted && g.IsDeleted() {
			continue
		}
		goals = append(goals, g.Clone())
	}

	// Same order as the SQL store: newest first, ties broken by id.
	slices.SortFunc(goals, func(a, b *domain.Goal) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})

	return goals, nil
}

func (r *InMemoryGoalRepository) Update(ctx context.Context, goal *domain.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.store[goal.ID]
	if !ok {
		return domain.ErrGoalNotFound
	}

	goal.UpdatedAt = time.Now().UTC()
	stored := goal.Clone()
	stored.CreatedAt = existing.CreatedAt
	r.store[goal.ID] = stored
	return nil
}

func (r *InMemoryGoalRepository) SetDeleted(ctx context.Context, id string, at *time.Time) (*domain.Goal, error) {
	return r.set(id, func(g *domain.Goal, t *time.Time) { g.DeletedAt = t }, at)
}

func (r *InMemoryGoalRepository) SetCompleted(ctx context.Context, id string, at *time.Time) (*domain.Goal, error) {
	return r.set(id, func(g *domain.Goal, t *time.Time) { g.CompletedAt = t }, at)
}

func (r *InMemoryGoalRepository) set(id string, assign func(*domain.Goal, *time.Time), at *time.Time) (*domain.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	goal, ok := r.store[id]
	if !ok {
		return nil, domain.ErrGoalNotFound
	}

	var t *time.Time
	if at != nil {
		u := at.UTC()
		t = &u
	}
	assign(goal, t)
	goal.UpdatedAt = time.Now().UTC()

	return goal.Clone(), nil
}
