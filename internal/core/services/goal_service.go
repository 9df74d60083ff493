package services

import (
	"context"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-goals/internal/core/domain"
	"github.com/comitanigiacomo/kanso-goals/internal/core/undo"
)

// UndoTTL is how long a mutation stays undoable.
type UndoTTL struct {
	Edit   time.Duration
	Delete time.Duration
}

var DefaultUndoTTL = UndoTTL{
	Edit:   5 * time.Second,
	Delete: 4 * time.Second,
}

type GoalService struct {
	repo  domain.GoalRepository
	prefs *PreferenceService
	undo  *undo.Registry
	ttl   UndoTTL
	now   func() time.Time
}

func NewGoalService(repo domain.GoalRepository, prefs *PreferenceService, registry *undo.Registry, ttl UndoTTL) *GoalService {
	if registry == nil {
		registry = undo.NewRegistry(nil)
	}
	if ttl.Edit <= 0 {
		ttl.Edit = DefaultUndoTTL.Edit
	}
	if ttl.Delete <= 0 {
		ttl.Delete = DefaultUndoTTL.Delete
	}
	return &GoalService{
		repo:  repo,
		prefs: prefs,
		undo:  registry,
		ttl:   ttl,
		now:   time.Now,
	}
}

type CreateGoalInput struct {
	Title      string
	Content    string
	Deadline   *time.Time
	Difficulty *domain.Difficulty
}

type UpdateGoalInput struct {
	ID         string
	Title      domain.Patch[string]
	Content    domain.Patch[string]
	Deadline   domain.Patch[time.Time]
	Difficulty domain.Patch[domain.Difficulty]
}

type ListGoalsInput struct {
	IncludeDeleted bool
	// Sort overrides the stored sort preference when set.
	Sort *domain.SortSpec
}

// MutationResult carries the goal state before and after an undoable change.
type MutationResult struct {
	Goal     *domain.Goal
	Previous *domain.Goal
	Message  string
}

func (s *GoalService) Create(ctx context.Context, input CreateGoalInput) (*domain.Goal, error) {
	if input.Difficulty != nil {
		d, err := domain.ParseDifficulty(string(*input.Difficulty))
		if err != nil {
			return nil, err
		}
		input.Difficulty = &d
	}

	goal, err := domain.NewGoal(input.Title, input.Content, input.Deadline, input.Difficulty)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, goal); err != nil {
		return nil, err
	}

	return goal, nil
}

func (s *GoalService) Get(ctx context.Context, id string) (*domain.Goal, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *GoalService) List(ctx context.Context, input ListGoalsInput) ([]*domain.Goal, error) {
	spec := domain.DefaultSortSpec
	if input.Sort != nil {
		spec = *input.Sort
	} else if s.prefs != nil {
		stored, err := s.prefs.SortSpec(ctx)
		if err != nil {
			return nil, err
		}
		spec = stored
	}

	goals, err := s.repo.List(ctx, domain.GoalFilter{ExcludeDeleted: !input.IncludeDeleted})
	if err != nil {
		return nil, err
	}

	return domain.Sort(goals, spec), nil
}

func (s *GoalService) Update(ctx context.Context, input UpdateGoalInput) (*MutationResult, error) {
	goal, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Difficulty.IsSet() {
		d, err := domain.ParseDifficulty(string(input.Difficulty.Value()))
		if err != nil {
			return nil, err
		}
		input.Difficulty = domain.Set(d)
	}

	previous := goal.Clone()

	if err := goal.Edit(input.Title, input.Content, input.Deadline, input.Difficulty); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, goal); err != nil {
		return nil, err
	}

	result := &MutationResult{
		Goal:     goal,
		Previous: previous,
		Message:  fmt.Sprintf("Goal %q was updated.", previous.Title),
	}
	s.remember(undo.KindEdit, result, s.ttl.Edit)

	return result, nil
}

func (s *GoalService) ToggleComplete(ctx context.Context, id string, currentlyCompleted bool) (*domain.Goal, error) {
	return s.repo.SetCompleted(ctx, id, domain.ToggleCompleted(currentlyCompleted, s.now()))
}

func (s *GoalService) ToggleDelete(ctx context.Context, id string, currentlyDeleted bool) (*MutationResult, error) {
	previous, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	goal, err := s.repo.SetDeleted(ctx, id, domain.ToggleDeleted(currentlyDeleted, s.now()))
	if err != nil {
		return nil, err
	}

	kind, verb := undo.KindDelete, "deleted"
	if !goal.IsDeleted() {
		kind, verb = undo.KindRestore, "restored"
	}

	result := &MutationResult{
		Goal:     goal,
		Previous: previous,
		Message:  fmt.Sprintf("Goal %q was %s.", previous.Title, verb),
	}
	s.remember(kind, result, s.ttl.Delete)

	return result, nil
}

// Undo writes back the snapshot recorded by the last undoable mutation of id.
// Whatever happened to the goal in between is overwritten.
func (s *GoalService) Undo(ctx context.Context, id string) (*domain.Goal, error) {
	entry, ok := s.undo.Take(id)
	if !ok {
		return nil, domain.ErrUndoNotFound
	}

	restored := entry.Snapshot.Clone()
	if err := s.repo.Update(ctx, restored); err != nil {
		return nil, err
	}

	return restored, nil
}

func (s *GoalService) PendingUndo() (undo.Entry, bool) {
	return s.undo.Latest()
}

func (s *GoalService) remember(kind undo.Kind, result *MutationResult, ttl time.Duration) {
	s.undo.Push(undo.Entry{
		GoalID:   result.Previous.ID,
		Kind:     kind,
		Message:  result.Message,
		Snapshot: result.Previous.Clone(),
	}, ttl)
}
