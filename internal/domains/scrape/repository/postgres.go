package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"creator-dashboard/internal/domains/scrape/model"
)

// Repository persists scraping jobs.
type Repository interface {
	Create(ctx context.Context, job *model.ScrapingJob) error
	GetByID(ctx context.Context, id int64) (*model.ScrapingJob, error)
	List(ctx context.Context, limit int) ([]model.ScrapingJob, error)
	MarkRunning(ctx context.Context, id int64) error
	Complete(ctx context.Context, id int64, totalFound, totalSaved int) error
	Fail(ctx context.Context, id int64, errorMessage string) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const jobColumns = `id, search_query, status, total_found, total_saved,
	COALESCE(error_message, ''), created_at, completed_at`

func scanJob(row pgx.Row) (*model.ScrapingJob, error) {
	var j model.ScrapingJob
	err := row.Scan(&j.ID, &j.SearchQuery, &j.Status, &j.TotalFound, &j.TotalSaved,
		&j.ErrorMessage, &j.CreatedAt, &j.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *postgresRepository) Create(ctx context.Context, job *model.ScrapingJob) error {
	query := `
		INSERT INTO scraping_jobs (search_query, status, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`

	if job.Status == "" {
		job.Status = model.StatusPending
	}

	err := r.pool.QueryRow(ctx, query, job.SearchQuery, job.Status).Scan(&job.ID, &job.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create scraping job: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.ScrapingJob, error) {
	query := fmt.Sprintf(`SELECT %s FROM scraping_jobs WHERE id = $1`, jobColumns)

	job, err := scanJob(r.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, model.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scraping job: %w", err)
	}
	return job, nil
}

func (r *postgresRepository) List(ctx context.Context, limit int) ([]model.ScrapingJob, error) {
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(`SELECT %s FROM scraping_jobs ORDER BY created_at DESC LIMIT $1`, jobColumns)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scraping jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.ScrapingJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scraping job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

func (r *postgresRepository) MarkRunning(ctx context.Context, id int64) error {
	return r.setStatus(ctx, id, `UPDATE scraping_jobs SET status = 'running' WHERE id = $1`)
}

func (r *postgresRepository) Complete(ctx context.Context, id int64, totalFound, totalSaved int) error {
	cmd, err := r.pool.Exec(ctx, `
		UPDATE scraping_jobs
		SET status = 'completed', total_found = $2, total_saved = $3, completed_at = NOW()
		WHERE id = $1
	`, id, totalFound, totalSaved)
	if err != nil {
		return fmt.Errorf("failed to complete scraping job: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrJobNotFound
	}
	return nil
}

func (r *postgresRepository) Fail(ctx context.Context, id int64, errorMessage string) error {
	cmd, err := r.pool.Exec(ctx, `
		UPDATE scraping_jobs
		SET status = 'failed', error_message = $2, completed_at = NOW()
		WHERE id = $1
	`, id, errorMessage)
	if err != nil {
		return fmt.Errorf("failed to mark scraping job failed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrJobNotFound
	}
	return nil
}

func (r *postgresRepository) setStatus(ctx context.Context, id int64, query string) error {
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to update scraping job: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrJobNotFound
	}
	return nil
}
