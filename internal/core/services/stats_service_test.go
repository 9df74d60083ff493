package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-goals/internal/core/domain"
	"github.com/comitanigiacomo/kanso-goals/internal/core/services"
)

type MockGoalRepo struct {
	mock.Mock
}

func (m *MockGoalRepo) Create(ctx context.Context, goal *domain.Goal) error {
	return m.Called(ctx, goal).Error(0)
}

func (m *MockGoalRepo) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}

func (m *MockGoalRepo) List(ctx context.Context, filter domain.GoalFilter) ([]*domain.Goal, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Goal), args.Error(1)
}

func (m *MockGoalRepo) Update(ctx context.Context, goal *domain.Goal) error {
	return m.Called(ctx, goal).Error(0)
}

func (m *MockGoalRepo) SetDeleted(ctx context.Context, id string, at *time.Time) (*domain.Goal, error) {
	args := m.Called(ctx, id, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}

func (m *MockGoalRepo) SetCompleted(ctx context.Context, id string, at *time.Time) (*domain.Goal, error) {
	args := m.Called(ctx, id, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}

func TestStatsService_Summary(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	t.Run("Success: Counts every bucket", func(t *testing.T) {
		repo := new(MockGoalRepo)
		svc := services.NewStatsService(repo)

		goals := []*domain.Goal{
			{ID: "active-overdue", Deadline: &past, Difficulty: ptr(domain.DifficultyHard)},
			{ID: "active-future", Deadline: &future, Difficulty: ptr(domain.DifficultyEasy)},
			{ID: "done", CompletedAt: &past, Deadline: &past, Difficulty: ptr(domain.DifficultyEasy)},
			{ID: "deleted", DeletedAt: &past, Deadline: &past, Difficulty: ptr(domain.DifficultyModerate)},
			{ID: "done-and-deleted", DeletedAt: &past, CompletedAt: &past},
		}
		repo.On("List", ctx, domain.GoalFilter{}).Return(goals, nil)

		stats, err := svc.Summary(ctx, now)

		require.NoError(t, err)
		assert.Equal(t, 5, stats.Total)
		assert.Equal(t, 2, stats.Active)
		assert.Equal(t, 1, stats.Completed)
		assert.Equal(t, 2, stats.Deleted)
		assert.Equal(t, 1, stats.Overdue)
		assert.Equal(t, 2, stats.ByDifficulty[domain.DifficultyEasy])
		assert.Equal(t, 0, stats.ByDifficulty[domain.DifficultyModerate], "deleted goals are not ranked")
		assert.Equal(t, 1, stats.ByDifficulty[domain.DifficultyHard])
		assert.Equal(t, now, stats.ComputedAt)
		repo.AssertExpectations(t)
	})

	t.Run("Edge Case: No goals returns zero stats", func(t *testing.T) {
		repo := new(MockGoalRepo)
		svc := services.NewStatsService(repo)
		repo.On("List", ctx, mock.Anything).Return([]*domain.Goal{}, nil)

		stats, err := svc.Summary(ctx, now)

		require.NoError(t, err)
		assert.Equal(t, 0, stats.Total)
		assert.Len(t, stats.ByDifficulty, 3)
	})

	t.Run("Fail: Repo Error propagates", func(t *testing.T) {
		repo := new(MockGoalRepo)
		svc := services.NewStatsService(repo)

		dbErr := errors.New("db connection lost")
		repo.On("List", ctx, mock.Anything).Return(nil, dbErr)

		stats, err := svc.Summary(ctx, now)

		assert.ErrorIs(t, err, dbErr)
		assert.Nil(t, stats)
	})
}
