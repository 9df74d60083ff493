package services

import (
	"context"
	"time"

	"github.com/comitanigiacomo/kanso-goals/internal/core/domain"
)

type StatsService struct {
	repo domain.GoalRepository
}

func NewStatsService(repo domain.GoalRepository) *StatsService {
	return &StatsService{repo: repo}
}

func (s *StatsService) Summary(ctx context.Context, now time.Time) (*domain.GoalStats, error) {
	goals, err := s.repo.List(ctx, domain.GoalFilter{})
	if err != nil {
		return nil, err
	}

	stats := &domain.GoalStats{
		Total: len(goals),
		ByDifficulty: map[domain.Difficulty]int{
			domain.DifficultyEasy:     0,
			domain.DifficultyModerate: 0,
			domain.DifficultyHard:     0,
		},
		ComputedAt: now.UTC(),
	}

	for _, g := range goals {
		if g.IsDeleted() {
			stats.Deleted++
			continue
		}

		if g.IsCompleted() {
			stats.Completed++
		} else {
			stats.Active++
		}

		if g.IsOverdue(now) {
			stats.Overdue++
		}

		if g.Difficulty != nil {
			stats.ByDifficulty[*g.Difficulty]++
		}
	}

	return stats, nil
}
