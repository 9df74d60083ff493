package domain

import "time"

type GoalStats struct {
	Total        int                `json:"total"`
	Active       int                `json:"active"`
	Completed    int                `json:"completed"`
	Deleted      int                `json:"deleted"`
	Overdue      int                `json:"overdue"`
	ByDifficulty map[Difficulty]int `json:"by_difficulty"`
	ComputedAt   time.Time          `json:"computed_at"`
}

// IsOverdue reports whether a live, unfinished goal has passed its deadline.
func (g *Goal) IsOverdue(now time.Time) bool {
	return g.Deadline != nil && !g.IsCompleted() && !g.IsDeleted() && g.Deadline.Before(now)
}
