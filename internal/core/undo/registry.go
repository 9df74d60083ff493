// Package undo keeps the short-lived "undo" snapshots produced by goal
// mutations. At most one entry is pending per goal id; each entry expires on
// its own timer unless it is taken or replaced first.
package undo

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-goals/internal/core/domain"
)

type Kind string

const (
	KindEdit    Kind = "edit"
	KindDelete  Kind = "delete"
	KindRestore Kind = "restore"
)

type Entry struct {
	GoalID    string       `json:"goal_id"`
	Kind      Kind         `json:"kind"`
	Message   string       `json:"message"`
	Snapshot  *domain.Goal `json:"goal"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type pending struct {
	entry Entry
	timer *time.Timer
	gen   uint64
}

type Registry struct {
	mu      sync.Mutex
	pending map[string]*pending
	seq     uint64
	now     func() time.Time
	logger  *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		pending: make(map[string]*pending),
		now:     time.Now,
		logger:  logger,
	}
}

// Push schedules entry to expire after ttl, replacing and descheduling any
// entry already pending for the same goal.
func (r *Registry) Push(entry Entry, ttl time.Duration) Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.pending[entry.GoalID]; ok {
		old.timer.Stop()
	}

	r.seq++
	gen := r.seq
	now := r.now().UTC()

	entry.CreatedAt = now
	entry.ExpiresAt = now.Add(ttl)

	id := entry.GoalID
	r.pending[id] = &pending{
		entry: entry,
		gen:   gen,
		timer: time.AfterFunc(ttl, func() { r.expire(id, gen) }),
	}

	return entry
}

// Take removes and returns the pending entry for goalID. An entry past its
// deadline is never returned, even if its timer has not fired yet.
func (r *Registry) Take(goalID string) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pending[goalID]
	if !ok {
		return Entry{}, false
	}

	p.timer.Stop()
	delete(r.pending, goalID)

	if !r.now().Before(p.entry.ExpiresAt) {
		return Entry{}, false
	}
	return p.entry, true
}

// Latest returns the most recently pushed entry that is still pending.
func (r *Registry) Latest() (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var latest *pending
	for _, p := range r.pending {
		if !now.Before(p.entry.ExpiresAt) {
			continue
		}
		if latest == nil || p.gen > latest.gen {
			latest = p
		}
	}

	if latest == nil {
		return Entry{}, false
	}
	return latest.entry, true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Close deschedules every pending entry.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, p := range r.pending {
		p.timer.Stop()
		delete(r.pending, id)
	}
}

func (r *Registry) expire(goalID string, gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pending[goalID]
	if !ok || p.gen != gen {
		return
	}
	delete(r.pending, goalID)

	r.logger.Debug("undo entry expired",
		zap.String("goal_id", goalID),
		zap.String("kind", string(p.entry.Kind)),
	)
}
