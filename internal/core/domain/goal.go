package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrValidationFailed = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
)

var (
	ErrGoalTitleEmpty    = fmt.Errorf("%w: goal title cannot be empty", ErrValidationFailed)
	ErrGoalContentEmpty  = fmt.Errorf("%w: goal content cannot be empty", ErrValidationFailed)
	ErrInvalidDifficulty = fmt.Errorf("%w: invalid difficulty (must be EASY, MODERATE or HARD)", ErrValidationFailed)
	ErrInvalidDeadline   = fmt.Errorf("%w: invalid deadline", ErrValidationFailed)
	ErrGoalNotFound      = fmt.Errorf("%w: goal not found", ErrNotFound)
	ErrUndoNotFound      = fmt.Errorf("%w: no pending undo for goal", ErrNotFound)
	ErrGoalAlreadyExists = errors.New("goal id already exists")
)

type Difficulty string

const (
	DifficultyEasy     Difficulty = "EASY"
	DifficultyModerate Difficulty = "MODERATE"
	DifficultyHard     Difficulty = "HARD"
)

func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToUpper(strings.TrimSpace(s))); d {
	case DifficultyEasy, DifficultyModerate, DifficultyHard:
		return d, nil
	}
	return "", ErrInvalidDifficulty
}

// Goal serialises unset optional fields as null, so a goal document posted
// to an update clears what the goal did not have.
type Goal struct {
	ID          string      `json:"id" db:"id"`
	Title       string      `json:"title" db:"title"`
	Content     string      `json:"content" db:"content"`
	Difficulty  *Difficulty `json:"difficulty" db:"difficulty"`
	Deadline    *time.Time  `json:"deadline" db:"deadline"`
	CompletedAt *time.Time  `json:"completed_at" db:"completed_at"`
	DeletedAt   *time.Time  `json:"deleted_at" db:"deleted_at"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

func NewGoal(title, content string, deadline *time.Time, difficulty *Difficulty) (*Goal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrGoalTitleEmpty
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrGoalContentEmpty
	}

	now := time.Now().UTC()

	return &Goal{
		ID:         uuid.New().String(),
		Title:      title,
		Content:    content,
		Difficulty: difficulty,
		Deadline:   utcPtr(deadline),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (g *Goal) IsCompleted() bool { return g.CompletedAt != nil }

func (g *Goal) IsDeleted() bool { return g.DeletedAt != nil }

// Clone returns a deep copy so snapshots survive later mutation of g.
func (g *Goal) Clone() *Goal {
	if g == nil {
		return nil
	}
	c := *g
	c.Deadline = copyTime(g.Deadline)
	c.CompletedAt = copyTime(g.CompletedAt)
	c.DeletedAt = copyTime(g.DeletedAt)
	if g.Difficulty != nil {
		d := *g.Difficulty
		c.Difficulty = &d
	}
	return &c
}

// Edit applies the editable-field patches. Flags and created_at are never touched.
func (g *Goal) Edit(title, content Patch[string], deadline Patch[time.Time], difficulty Patch[Difficulty]) error {
	newTitle := title.Apply(g.Title)
	newTitle = strings.TrimSpace(newTitle)
	if newTitle == "" {
		return ErrGoalTitleEmpty
	}

	if difficulty.IsSet() {
		if _, err := ParseDifficulty(string(difficulty.Value())); err != nil {
			return err
		}
	}

	g.Title = newTitle
	g.Content = content.Apply(g.Content)
	g.Deadline = utcPtr(deadline.ApplyPtr(g.Deadline))
	g.Difficulty = difficulty.ApplyPtr(g.Difficulty)
	g.UpdatedAt = time.Now().UTC()

	return nil
}

// ToggleCompleted flips the completion flag: a fresh timestamp when it was
// clear, nil otherwise.
func ToggleCompleted(currentlyCompleted bool, now time.Time) *time.Time {
	return toggle(currentlyCompleted, now)
}

func ToggleDeleted(currentlyDeleted bool, now time.Time) *time.Time {
	return toggle(currentlyDeleted, now)
}

func toggle(current bool, now time.Time) *time.Time {
	if current {
		return nil
	}
	t := now.UTC()
	return &t
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
