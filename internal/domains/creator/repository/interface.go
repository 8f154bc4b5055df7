package repository

import (
	"context"

	"creator-dashboard/internal/domains/creator/model"
)

// Repository is the canonical store for creator records. Components
// take the interface so tests can substitute an in-memory fake.
type Repository interface {
	Create(ctx context.Context, creator *model.Creator) error
	GetByID(ctx context.Context, id int64) (*model.Creator, error)
	GetByUsername(ctx context.Context, username string) (*model.Creator, error)
	Update(ctx context.Context, creator *model.Creator) error
	Delete(ctx context.Context, id int64) error

	// Search filters and paginates; returns the page and total count.
	Search(ctx context.Context, filters model.SearchFilters) ([]model.Creator, int, error)

	// GetAll returns every record ordered by username. Used by the
	// duplicate scan and exports.
	GetAll(ctx context.Context) ([]model.Creator, error)

	// UpsertBatch writes records keyed on username: an existing row is
	// fully overwritten, a new username inserts. Returns affected rows.
	UpsertBatch(ctx context.Context, creators []model.Creator) (int64, error)

	// DeleteByIDs bulk-deletes a selection of creators.
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)

	// MergeGroup deletes a duplicate group's losers and bumps the
	// survivor's last_updated, atomically. Returns deleted rows.
	MergeGroup(ctx context.Context, survivorID int64, loserIDs []int64) (int64, error)

	// SetProfilePicLocal records the mirrored picture URL.
	SetProfilePicLocal(ctx context.Context, id int64, localURL string) error

	Stats(ctx context.Context) (*model.CreatorStats, error)
}
