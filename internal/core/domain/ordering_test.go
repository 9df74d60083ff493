package domain_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/comitanigiacomo/kanso-goals/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func at(h int) *time.Time {
	t := base.Add(time.Duration(h) * time.Hour)
	return &t
}

func diff(d domain.Difficulty) *domain.Difficulty { return &d }

func goal(id string, opts ...func(*domain.Goal)) *domain.Goal {
	g := &domain.Goal{ID: id, Title: id, Content: "c", CreatedAt: base}
	for _, o := range opts {
		o(g)
	}
	return g
}

func created(h int) func(*domain.Goal)   { return func(g *domain.Goal) { g.CreatedAt = *at(h) } }
func completed(h int) func(*domain.Goal) { return func(g *domain.Goal) { g.CompletedAt = at(h) } }
func deadline(h int) func(*domain.Goal)  { return func(g *domain.Goal) { g.Deadline = at(h) } }
func titled(s string) func(*domain.Goal) { return func(g *domain.Goal) { g.Title = s } }
func rated(d domain.Difficulty) func(*domain.Goal) {
	return func(g *domain.Goal) { g.Difficulty = diff(d) }
}

func ids(goals []*domain.Goal) []string {
	out := make([]string, len(goals))
	for i, g := range goals {
		out[i] = g.ID
	}
	return out
}

func spec(k domain.SortKey, o domain.SortOrder) domain.SortSpec {
	return domain.SortSpec{Key: k, Order: o}
}

func TestSort_CreatedAt(t *testing.T) {
	goals := []*domain.Goal{goal("b", created(2)), goal("a", created(1)), goal("c", created(3))}

	assert.Equal(t, []string{"a", "b", "c"}, ids(domain.Sort(goals, spec(domain.SortByCreatedAt, domain.SortAsc))))
	assert.Equal(t, []string{"c", "b", "a"}, ids(domain.Sort(goals, spec(domain.SortByCreatedAt, domain.SortDesc))))

	t.Run("Ties keep input order", func(t *testing.T) {
		tied := []*domain.Goal{goal("x", created(1)), goal("y", created(1)), goal("z", created(1))}
		assert.Equal(t, []string{"x", "y", "z"}, ids(domain.Sort(tied, spec(domain.SortByCreatedAt, domain.SortDesc))))
	})
}

func TestSort_CompletedAt(t *testing.T) {
	t.Run("Incomplete goes last ascending", func(t *testing.T) {
		a := goal("A")
		b := goal("B", completed(1))
		assert.Equal(t, []string{"B", "A"}, ids(domain.Sort([]*domain.Goal{a, b}, spec(domain.SortByCompletedAt, domain.SortAsc))))
		assert.Equal(t, []string{"B", "A"}, ids(domain.Sort([]*domain.Goal{b, a}, spec(domain.SortByCompletedAt, domain.SortAsc))))
	})

	t.Run("Both completed compare by time", func(t *testing.T) {
		goals := []*domain.Goal{goal("late", completed(5)), goal("early", completed(1))}
		assert.Equal(t, []string{"early", "late"}, ids(domain.Sort(goals, spec(domain.SortByCompletedAt, domain.SortAsc))))
		assert.Equal(t, []string{"late", "early"}, ids(domain.Sort(goals, spec(domain.SortByCompletedAt, domain.SortDesc))))
	})

	t.Run("Comparator rules", func(t *testing.T) {
		done := goal("done", completed(1))
		open := goal("open")
		asc := spec(domain.SortByCompletedAt, domain.SortAsc)
		desc := spec(domain.SortByCompletedAt, domain.SortDesc)

		assert.Equal(t, 1, domain.Compare(open, done, asc))
		assert.Equal(t, 1, domain.Compare(open, done, desc))
		assert.Equal(t, 1, domain.Compare(open, goal("open2"), asc))
		assert.Equal(t, -1, domain.Compare(done, open, asc))
		assert.Equal(t, 1, domain.Compare(done, open, desc))
	})
}

func TestSort_Deadline(t *testing.T) {
	t.Run("Completed goal with earlier deadline sorts after incomplete one", func(t *testing.T) {
		finished := goal("finished", deadline(1), completed(0))
		pending := goal("pending", deadline(10))

		for _, o := range []domain.SortOrder{domain.SortAsc, domain.SortDesc} {
			assert.Equal(t, []string{"pending", "finished"}, ids(domain.Sort([]*domain.Goal{finished, pending}, spec(domain.SortByDeadline, o))), o)
			assert.Equal(t, []string{"pending", "finished"}, ids(domain.Sort([]*domain.Goal{pending, finished}, spec(domain.SortByDeadline, o))), o)
		}
	})

	t.Run("Open goal against completed one sorts first in either input order", func(t *testing.T) {
		open := goal("open", deadline(10))
		done := goal("done", deadline(1), completed(0))

		for _, o := range []domain.SortOrder{domain.SortAsc, domain.SortDesc} {
			assert.Equal(t, -1, domain.Compare(open, done, spec(domain.SortByDeadline, o)), o)
			assert.Equal(t, 1, domain.Compare(done, open, spec(domain.SortByDeadline, o)), o)
			assert.Equal(t, []string{"open", "done"}, ids(domain.Sort([]*domain.Goal{open, done}, spec(domain.SortByDeadline, o))), o)
		}
	})

	t.Run("Undated goals first ascending, last descending", func(t *testing.T) {
		goals := []*domain.Goal{goal("dated", deadline(3)), goal("undated")}
		assert.Equal(t, []string{"undated", "dated"}, ids(domain.Sort(goals, spec(domain.SortByDeadline, domain.SortAsc))))
		assert.Equal(t, []string{"dated", "undated"}, ids(domain.Sort(goals, spec(domain.SortByDeadline, domain.SortDesc))))
	})

	t.Run("Chronological between open goals", func(t *testing.T) {
		goals := []*domain.Goal{goal("late", deadline(9)), goal("soon", deadline(2)), goal("mid", deadline(5))}
		assert.Equal(t, []string{"soon", "mid", "late"}, ids(domain.Sort(goals, spec(domain.SortByDeadline, domain.SortAsc))))
		assert.Equal(t, []string{"late", "mid", "soon"}, ids(domain.Sort(goals, spec(domain.SortByDeadline, domain.SortDesc))))
	})
}

func TestSort_Title(t *testing.T) {
	goals := []*domain.Goal{goal("1", titled("banana")), goal("2", titled("Apple")), goal("3", titled("apple"))}

	assert.Equal(t, []string{"2", "3", "1"}, ids(domain.Sort(goals, spec(domain.SortByTitle, domain.SortAsc))), "case-sensitive: uppercase first")
	assert.Equal(t, []string{"1", "3", "2"}, ids(domain.Sort(goals, spec(domain.SortByTitle, domain.SortDesc))))

	same := []*domain.Goal{goal("x", titled("same")), goal("y", titled("same"))}
	assert.Equal(t, []string{"x", "y"}, ids(domain.Sort(same, spec(domain.SortByTitle, domain.SortAsc))))
}

func TestSort_Difficulty(t *testing.T) {
	t.Run("Hard vs easy", func(t *testing.T) {
		goals := []*domain.Goal{goal("hard", rated(domain.DifficultyHard)), goal("easy", rated(domain.DifficultyEasy))}
		assert.Equal(t, []string{"easy", "hard"}, ids(domain.Sort(goals, spec(domain.SortByDifficulty, domain.SortAsc))))
		assert.Equal(t, []string{"hard", "easy"}, ids(domain.Sort(goals, spec(domain.SortByDifficulty, domain.SortDesc))))
	})

	t.Run("Equal rank keeps order", func(t *testing.T) {
		goals := []*domain.Goal{goal("m1", rated(domain.DifficultyModerate)), goal("m2", rated(domain.DifficultyModerate))}
		for _, o := range []domain.SortOrder{domain.SortAsc, domain.SortDesc} {
			assert.Equal(t, []string{"m1", "m2"}, ids(domain.Sort(goals, spec(domain.SortByDifficulty, o))))
		}
	})

	t.Run("Literal pairwise rule", func(t *testing.T) {
		asc := spec(domain.SortByDifficulty, domain.SortAsc)
		easy := goal("e", rated(domain.DifficultyEasy))
		moderate := goal("m", rated(domain.DifficultyModerate))
		hard := goal("h", rated(domain.DifficultyHard))
		none := goal("n")

		tests := []struct {
			a, b *domain.Goal
			want int
		}{
			{easy, moderate, -1},
			{easy, hard, -1},
			{easy, none, -1},
			{easy, easy, 0},
			{moderate, easy, 1},
			{moderate, hard, -1},
			{moderate, none, 0},
			{hard, easy, 1},
			{hard, moderate, 1},
			{hard, none, 0},
			{none, easy, 0},
			{none, hard, 0},
			{none, none, 0},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.want, domain.Compare(tt.a, tt.b, asc), "%s vs %s", tt.a.ID, tt.b.ID)
		}
	})
}

func TestSort_UnknownKeyFallsBackToCreatedAt(t *testing.T) {
	goals := []*domain.Goal{goal("old", created(1)), goal("new", created(2))}
	assert.Equal(t, []string{"new", "old"}, ids(domain.Sort(goals, spec("bogus", domain.SortDesc))))
}

func mixedGoals(n int) []*domain.Goal {
	levels := []domain.Difficulty{domain.DifficultyEasy, domain.DifficultyModerate, domain.DifficultyHard}
	goals := make([]*domain.Goal, 0, n)
	for i := 0; i < n; i++ {
		g := goal(fmt.Sprintf("g%02d", i), created((i*7)%13), titled(fmt.Sprintf("t%d", (i*5)%11)))
		if i%3 == 0 {
			g.CompletedAt = at(i % 4)
		}
		if i%2 == 0 {
			g.Deadline = at((i * 3) % 17)
		}
		if i%4 != 0 {
			g.Difficulty = diff(levels[i%3])
		}
		goals = append(goals, g)
	}
	return goals
}

func TestSort_Properties(t *testing.T) {
	keys := []domain.SortKey{domain.SortByCreatedAt, domain.SortByCompletedAt, domain.SortByDeadline, domain.SortByDifficulty, domain.SortByTitle}
	orders := []domain.SortOrder{domain.SortAsc, domain.SortDesc}

	for _, k := range keys {
		for _, o := range orders {
			t.Run(fmt.Sprintf("%s/%s", k, o), func(t *testing.T) {
				input := mixedGoals(30)
				snapshot := make([]domain.Goal, len(input))
				for i, g := range input {
					snapshot[i] = *g
				}
				inputIDs := ids(input)

				sorted := domain.Sort(input, spec(k, o))

				require.Len(t, sorted, len(input))
				assert.ElementsMatch(t, inputIDs, ids(sorted), "result must be a permutation")
				assert.Equal(t, inputIDs, ids(input), "input slice must not be reordered")
				for i, g := range input {
					assert.Equal(t, snapshot[i], *g, "input elements must not be mutated")
				}
			})
		}
	}

	t.Run("Idempotent on total keys", func(t *testing.T) {
		for _, k := range []domain.SortKey{domain.SortByCreatedAt, domain.SortByTitle} {
			for _, o := range orders {
				once := domain.Sort(mixedGoals(30), spec(k, o))
				twice := domain.Sort(once, spec(k, o))
				assert.Equal(t, ids(once), ids(twice))
			}
		}
	})
}

func TestParseSort(t *testing.T) {
	k, err := domain.ParseSortKey(" Deadline ")
	require.NoError(t, err)
	assert.Equal(t, domain.SortByDeadline, k)

	_, err = domain.ParseSortKey("priority")
	assert.ErrorIs(t, err, domain.ErrInvalidSortKey)
	assert.ErrorIs(t, err, domain.ErrValidationFailed)

	o, err := domain.ParseSortOrder("ASC")
	require.NoError(t, err)
	assert.Equal(t, domain.SortAsc, o)

	_, err = domain.ParseSortOrder("up")
	assert.ErrorIs(t, err, domain.ErrInvalidSortOrder)

	assert.NoError(t, domain.DefaultSortSpec.Validate())
	assert.Error(t, domain.SortSpec{Key: domain.SortByTitle}.Validate())
}
