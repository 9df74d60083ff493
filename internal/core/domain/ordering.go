package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

var (
	ErrInvalidSortKey   = fmt.Errorf("%w: invalid sort type", ErrValidationFailed)
	ErrInvalidSortOrder = fmt.Errorf("%w: invalid sort order (must be asc or desc)", ErrValidationFailed)
)

type SortKey string

const (
	SortByCreatedAt   SortKey = "created-at"
	SortByCompletedAt SortKey = "completed-at"
	SortByDeadline    SortKey = "deadline"
	SortByDifficulty  SortKey = "difficulty"
	SortByTitle       SortKey = "title"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortSpec is also the persisted preference document, hence the wire names.
type SortSpec struct {
	Key   SortKey   `json:"type"`
	Order SortOrder `json:"order"`
}

var DefaultSortSpec = SortSpec{Key: SortByCreatedAt, Order: SortDesc}

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortByCreatedAt, SortByCompletedAt, SortByDeadline, SortByDifficulty, SortByTitle:
		return k, nil
	}
	return "", ErrInvalidSortKey
}

func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortAsc, SortDesc:
		return o, nil
	}
	return "", ErrInvalidSortOrder
}

func (s SortSpec) Validate() error {
	if _, err := ParseSortKey(string(s.Key)); err != nil {
		return err
	}
	if _, err := ParseSortOrder(string(s.Order)); err != nil {
		return err
	}
	return nil
}

// sign is +1 for ascending and -1 for anything else.
func (o SortOrder) sign() int {
	if o == SortAsc {
		return 1
	}
	return -1
}

// Sort returns a stably ordered copy of goals. Neither the input slice nor
// its elements are modified.
func Sort(goals []*Goal, spec SortSpec) []*Goal {
	out := slices.Clone(goals)
	slices.SortStableFunc(out, func(a, b *Goal) int {
		return Compare(a, b, spec)
	})
	return out
}

// Compare reports how a orders against b under spec. The completed-at,
// deadline and difficulty rules are intentionally not antisymmetric: for some
// pairs Compare(a, b) and Compare(b, a) carry the same sign, so the output of
// Sort depends on input order for those pairs. Unknown keys order by creation.
func Compare(a, b *Goal, spec SortSpec) int {
	switch spec.Key {
	case SortByCompletedAt:
		return compareCompletedAt(a, b, spec.Order)
	case SortByDeadline:
		return compareDeadline(a, b, spec.Order)
	case SortByDifficulty:
		return compareDifficulty(a, b, spec.Order)
	case SortByTitle:
		return strings.Compare(a.Title, b.Title) * spec.Order.sign()
	default:
		return compareTime(a.CreatedAt, b.CreatedAt) * spec.Order.sign()
	}
}

// Incomplete goals go last.
func compareCompletedAt(a, b *Goal, order SortOrder) int {
	if a.CompletedAt == nil {
		return 1
	}
	if b.CompletedAt == nil {
		if order == SortAsc {
			return -1
		}
		return 1
	}
	return compareTime(*a.CompletedAt, *b.CompletedAt) * order.sign()
}

// Undated goals go first ascending and last descending; completed goals are
// pushed to the end.
func compareDeadline(a, b *Goal, order SortOrder) int {
	if a.Deadline == nil {
		return -order.sign()
	}
	if b.Deadline == nil {
		return order.sign()
	}
	if a.CompletedAt != nil {
		return 1
	}
	if b.CompletedAt != nil {
		return -1
	}
	return compareTime(*a.Deadline, *b.Deadline) * order.sign()
}

// EASY < MODERATE < HARD. A goal without difficulty compares equal to
// everything except an EASY left operand.
func compareDifficulty(a, b *Goal, order SortOrder) int {
	da, db := difficultyOf(a), difficultyOf(b)

	result := 0
	switch {
	case da == DifficultyEasy && db != DifficultyEasy:
		result = -1
	case da == DifficultyModerate && db == DifficultyEasy:
		result = 1
	case da == DifficultyModerate && db == DifficultyHard:
		result = -1
	case da == DifficultyHard && (db == DifficultyEasy || db == DifficultyModerate):
		result = 1
	}

	return result * order.sign()
}

func difficultyOf(g *Goal) Difficulty {
	if g.Difficulty == nil {
		return ""
	}
	return *g.Difficulty
}

func compareTime(a, b time.Time) int {
	switch {
	case a.After(b):
		return 1
	case a.Before(b):
		return -1
	default:
		return 0
	}
}
