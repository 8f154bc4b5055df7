package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-dashboard/internal/domains/creator/model"
)

func newTestService(repo *fakeRepo) ServiceInterface {
	return NewService(repo, NewImporter(repo, NewNormalizer(), 50), NewDeduper(repo), NewExporter())
}

func TestServiceCreateDefaultsSource(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	creator, err := svc.Create(context.Background(), model.CreateCreatorRequest{Username: "alice"})

	require.NoError(t, err)
	assert.Equal(t, "manual", creator.SourceKeyword)

	creator, err = svc.Create(context.Background(), model.CreateCreatorRequest{
		Username:      "bob",
		SourceKeyword: "travel",
	})
	require.NoError(t, err)
	assert.Equal(t, "travel", creator.SourceKeyword)
}

func TestServiceCreateRequiresUsername(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), model.CreateCreatorRequest{Username: "   "})
	assert.ErrorIs(t, err, model.ErrUsernameRequired)

	_, err = svc.Update(context.Background(), 1, model.CreateCreatorRequest{})
	assert.ErrorIs(t, err, model.ErrUsernameRequired)
}

func TestServiceUpdatePreservesScrapedFields(t *testing.T) {
	repo := newFakeRepo()
	scraped := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	repo.seed(model.Creator{
		ID:              7,
		Username:        "alice",
		FollowerCount:   100,
		ProfilePicLocal: "http://minio/creators/profiles/alice/avatar.jpg",
		SearchScore:     0.9,
		ScrapedAt:       scraped,
		SourceKeyword:   "travel",
	})

	svc := newTestService(repo)
	updated, err := svc.Update(context.Background(), 7, model.CreateCreatorRequest{
		Username:      "alice",
		FollowerCount: 500,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(500), updated.FollowerCount)
	assert.Equal(t, "http://minio/creators/profiles/alice/avatar.jpg", updated.ProfilePicLocal)
	assert.Equal(t, 0.9, updated.SearchScore)
	assert.Equal(t, scraped, updated.ScrapedAt)
	// Source keyword falls back to the stored value when omitted.
	assert.Equal(t, "travel", updated.SourceKeyword)
}

func TestServiceUpdateMissingCreator(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.Update(context.Background(), 42, model.CreateCreatorRequest{Username: "ghost"})
	assert.ErrorIs(t, err, model.ErrCreatorNotFound)
}

func TestServiceExportUsesGetAllWithoutFilters(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(
		model.Creator{Username: "alice", FollowerCount: 100},
		model.Creator{Username: "bob", FollowerCount: 200},
	)

	svc := newTestService(repo)
	file, err := svc.Export(context.Background(), model.ExportRequest{Format: "json"})

	require.NoError(t, err)
	assert.Contains(t, string(file.Content), "alice")
	assert.Contains(t, string(file.Content), "bob")
}

func TestServiceExportSentinelMaxIsEmptyFilter(t *testing.T) {
	// A max_followers at or above the UI slider ceiling means
	// "unbounded", same as no filter at all.
	assert.True(t, isEmptyFilter(model.SearchFilters{MaxFollowers: model.MaxFollowerSentinel}))
	assert.False(t, isEmptyFilter(model.SearchFilters{MaxFollowers: 5000}))
	assert.False(t, isEmptyFilter(model.SearchFilters{MinFollowers: 10}))
	assert.True(t, isEmptyFilter(model.SearchFilters{}))
}

func TestServiceStats(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(
		model.Creator{Username: "a", FollowerCount: 100, IsVerified: true},
		model.Creator{Username: "b", FollowerCount: 300, IsBusiness: true},
	)

	svc := newTestService(repo)
	stats, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalCreators)
	assert.Equal(t, int64(1), stats.VerifiedCount)
	assert.Equal(t, int64(1), stats.BusinessCount)
	assert.Equal(t, int64(300), stats.MaxFollowers)
	assert.Equal(t, float64(200), stats.AvgFollowers)
}
