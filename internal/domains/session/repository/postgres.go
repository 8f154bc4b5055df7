package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"creator-dashboard/internal/domains/session/model"
)

// Repository stores Instagram session tokens.
type Repository interface {
	Create(ctx context.Context, session *model.SessionConfig) error
	GetByID(ctx context.Context, id int64) (*model.SessionConfig, error)
	List(ctx context.Context) ([]model.SessionConfig, error)
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error

	// PickActive returns the least-recently-used active session.
	PickActive(ctx context.Context) (*model.SessionConfig, error)

	CountActive(ctx context.Context) (int64, error)

	// RecordUse bumps usage counters and folds the call outcome into
	// the running success rate.
	RecordUse(ctx context.Context, id int64, success bool) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const sessionColumns = `id, session_id, is_active, last_used, success_rate, total_requests, created_at`

func scanSession(row pgx.Row) (*model.SessionConfig, error) {
	var s model.SessionConfig
	err := row.Scan(&s.ID, &s.SessionID, &s.IsActive, &s.LastUsed, &s.SuccessRate, &s.TotalRequests, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepository) Create(ctx context.Context, session *model.SessionConfig) error {
	query := `
		INSERT INTO sessions (session_id, is_active, last_used, success_rate, total_requests, created_at)
		VALUES ($1, $2, NOW(), 100, 0, NOW())
		RETURNING id, last_used, success_rate, total_requests, created_at
	`

	err := r.pool.QueryRow(ctx, query, session.SessionID, session.IsActive).Scan(
		&session.ID, &session.LastUsed, &session.SuccessRate, &session.TotalRequests, &session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.SessionConfig, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE id = $1`, sessionColumns)

	session, err := scanSession(r.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, model.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]model.SessionConfig, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions ORDER BY created_at DESC`, sessionColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.SessionConfig
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

func (r *postgresRepository) SetActive(ctx context.Context, id int64, active bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE sessions SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrSessionNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrSessionNotFound
	}
	return nil
}

func (r *postgresRepository) PickActive(ctx context.Context) (*model.SessionConfig, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM sessions
		WHERE is_active = true
		ORDER BY last_used ASC
		LIMIT 1
	`, sessionColumns)

	session, err := scanSession(r.pool.QueryRow(ctx, query))
	if err == pgx.ErrNoRows {
		return nil, model.ErrNoActiveSessions
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pick session: %w", err)
	}
	return session, nil
}

func (r *postgresRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sessions WHERE is_active = true`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active sessions: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) RecordUse(ctx context.Context, id int64, success bool) error {
	// success_rate is a running percentage over total_requests.
	query := `
		UPDATE sessions SET
			last_used = NOW(),
			success_rate = (success_rate * total_requests + CASE WHEN $2 THEN 100 ELSE 0 END)
				/ (total_requests + 1),
			total_requests = total_requests + 1
		WHERE id = $1
	`

	cmd, err := r.pool.Exec(ctx, query, id, success)
	if err != nil {
		return fmt.Errorf("failed to record session use: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrSessionNotFound
	}
	return nil
}
