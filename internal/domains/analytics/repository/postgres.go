package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"creator-dashboard/internal/domains/analytics/model"
)

// Repository stores analytics events and computes trend aggregates.
type Repository interface {
	InsertEvent(ctx context.Context, event *model.Event) error
	ListEvents(ctx context.Context, eventType string, limit int) ([]model.Event, error)

	// EngagementTrends buckets creators by scrape date over the last
	// `days` days.
	EngagementTrends(ctx context.Context, days int) ([]model.EngagementTrend, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) InsertEvent(ctx context.Context, event *model.Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	query := `
		INSERT INTO analytics_events (event_type, payload, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`

	err = r.pool.QueryRow(ctx, query, event.EventType, payload).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListEvents(ctx context.Context, eventType string, limit int) ([]model.Event, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, event_type, payload, created_at
		FROM analytics_events
		WHERE ($1 = '' OR event_type = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, eventType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		var payload []byte
		if err := rows.Scan(&e.ID, &e.EventType, &payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &e.Payload); err != nil {
				return nil, fmt.Errorf("failed to unmarshal event payload: %w", err)
			}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *postgresRepository) EngagementTrends(ctx context.Context, days int) ([]model.EngagementTrend, error) {
	if days <= 0 {
		days = 30
	}

	query := `
		SELECT
			TO_CHAR(scraped_at::date, 'YYYY-MM-DD') AS day,
			COUNT(*),
			COALESCE(AVG(engagement_rate), 0),
			COALESCE(AVG(follower_count), 0)
		FROM creators
		WHERE scraped_at >= NOW() - ($1 || ' days')::interval
		GROUP BY day
		ORDER BY day
	`

	rows, err := r.pool.Query(ctx, query, days)
	if err != nil {
		return nil, fmt.Errorf("failed to load engagement trends: %w", err)
	}
	defer rows.Close()

	var trends []model.EngagementTrend
	for rows.Next() {
		var t model.EngagementTrend
		if err := rows.Scan(&t.Date, &t.Creators, &t.AvgEngagement, &t.AvgFollowers); err != nil {
			return nil, fmt.Errorf("failed to scan trend: %w", err)
		}
		trends = append(trends, t)
	}
	return trends, rows.Err()
}
