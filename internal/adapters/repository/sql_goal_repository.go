package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/comitanigiacomo/kanso-goals/internal/core/domain"
)

var _ domain.GoalRepository = (*SQLGoalRepository)(nil)

const goalColumns = `id, title, content, difficulty, deadline, completed_at, deleted_at, created_at, updated_at`

// SQLGoalRepository stores goals through sqlx. The queries only use syntax
// shared by PostgreSQL and SQLite, so the same code serves every driver
// OpenDB accepts.
type SQLGoalRepository struct {
	db *sqlx.DB
}

func NewSQLGoalRepository(db *sqlx.DB) *SQLGoalRepository {
	return &SQLGoalRepository{db: db}
}

func (r *SQLGoalRepository) Create(ctx context.Context, g *domain.Goal) error {
	query := `
        INSERT INTO goals (` + goalColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		g.ID, g.Title, g.Content, difficultyArg(g.Difficulty),
		timeArg(g.Deadline), timeArg(g.CompletedAt), timeArg(g.DeletedAt),
		g.CreatedAt.UTC(), g.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrGoalAlreadyExists
		}
		return fmt.Errorf("repository: create goal failed: %w", err)
	}

	return nil
}

func (r *SQLGoalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`

	var g domain.Goal
	if err := r.db.GetContext(ctx, &g, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, fmt.Errorf("repository: get goal failed: %w", err)
	}

	return normalize(&g), nil
}

func (r *SQLGoalRepository) List(ctx context.Context, filter domain.GoalFilter) ([]*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals`
	if filter.ExcludeDeleted {
		query += ` WHERE deleted_at IS NULL`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	var goals []*domain.Goal
	if err := r.db.SelectContext(ctx, &goals, query); err != nil {
		return nil, fmt.Errorf("repository: list goals failed: %w", err)
	}

	for _, g := range goals {
		normalize(g)
	}
	return goals, nil
}

func (r *SQLGoalRepository) Update(ctx context.Context, g *domain.Goal) error {
	now := time.Now().UTC()

	query := `
        UPDATE goals SET
            title = $1, content = $2, difficulty = $3, deadline = $4,
            completed_at = $5, deleted_at = $6, updated_at = $7
        WHERE id = $8`

	res, err := r.db.ExecContext(ctx, query,
		g.Title, g.Content, difficultyArg(g.Difficulty), timeArg(g.Deadline),
		timeArg(g.CompletedAt), timeArg(g.DeletedAt), now,
		g.ID,
	)
	if err != nil {
		return fmt.Errorf("repository: update goal failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrGoalNotFound
	}

	g.UpdatedAt = now
	return nil
}

func (r *SQLGoalRepository) SetDeleted(ctx context.Context, id string, at *time.Time) (*domain.Goal, error) {
	return r.setTimestamp(ctx, "deleted_at", id, at)
}

func (r *SQLGoalRepository) SetCompleted(ctx context.Context, id string, at *time.Time) (*domain.Goal, error) {
	return r.setTimestamp(ctx, "completed_at", id, at)
}

// column is always one of the two literals above, never caller input.
func (r *SQLGoalRepository) setTimestamp(ctx context.Context, column, id string, at *time.Time) (*domain.Goal, error) {
	query := `
        UPDATE goals SET ` + column + ` = $1, updated_at = $2
        WHERE id = $3
        RETURNING ` + goalColumns

	var g domain.Goal
	if err := r.db.GetContext(ctx, &g, query, timeArg(at), time.Now().UTC(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, fmt.Errorf("repository: set %s failed: %w", column, err)
	}

	return normalize(&g), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(liteErr.Error(), "UNIQUE")
		}
	}

	return false
}

func difficultyArg(d *domain.Difficulty) any {
	if d == nil {
		return nil
	}
	return string(*d)
}

func timeArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// normalize puts every timestamp in UTC; drivers differ in the location
// they attach to TIMESTAMP values.
func normalize(g *domain.Goal) *domain.Goal {
	g.CreatedAt = g.CreatedAt.UTC()
	g.UpdatedAt = g.UpdatedAt.UTC()
	for _, t := range []**time.Time{&g.Deadline, &g.CompletedAt, &g.DeletedAt} {
		if *t != nil {
			u := (*t).UTC()
			*t = &u
		}
	}
	return g
}
