package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRecords(n int) []RawRecord {
	records := make([]RawRecord, n)
	for i := range records {
		records[i] = RawRecord{
			"username":       fmt.Sprintf("creator%03d", i),
			"follower_count": float64((i + 1) * 100),
		}
	}
	return records
}

func TestImportRecordsHappyPath(t *testing.T) {
	repo := newFakeRepo()
	im := NewImporter(repo, NewNormalizer(), 50)

	result, err := im.ImportRecords(context.Background(), makeRecords(120), nil)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 120, result.Imported)
	assert.Equal(t, 0, result.Errors)
	assert.Empty(t, result.Messages)
	assert.Equal(t, 3, repo.upsertCalls) // 50 + 50 + 20
}

func TestImportRecordsBatchFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.failBatches = map[int]bool{2: true}
	im := NewImporter(repo, NewNormalizer(), 50)

	result, err := im.ImportRecords(context.Background(), makeRecords(120), nil)

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 70, result.Imported)
	assert.Equal(t, 50, result.Errors)
	require.Len(t, result.Messages, 1)
	assert.Contains(t, result.Messages[0], "Batch 2:")

	// Every record is accounted for exactly once at batch granularity.
	assert.Equal(t, 120, result.Imported+result.Errors)
}

func TestImportRecordsFailedBatchChargedFullSize(t *testing.T) {
	// A failing final partial batch charges its own size, not the
	// configured batch size.
	repo := newFakeRepo()
	repo.failBatches = map[int]bool{3: true}
	im := NewImporter(repo, NewNormalizer(), 50)

	result, err := im.ImportRecords(context.Background(), makeRecords(120), nil)

	require.NoError(t, err)
	assert.Equal(t, 100, result.Imported)
	assert.Equal(t, 20, result.Errors)
	assert.Contains(t, result.Messages[0], "Batch 3:")
}

func TestImportRecordsAllBatchesFail(t *testing.T) {
	repo := newFakeRepo()
	repo.upsertErr = errors.New("connection refused")
	im := NewImporter(repo, NewNormalizer(), 10)

	result, err := im.ImportRecords(context.Background(), makeRecords(25), nil)

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 25, result.Errors)
	assert.Len(t, result.Messages, 3)
}

func TestImportRecordsSkipsEmptyUsernames(t *testing.T) {
	repo := newFakeRepo()
	im := NewImporter(repo, NewNormalizer(), 50)

	records := []RawRecord{
		{"username": "alice", "follower_count": float64(100)},
		{"full_name": "No Handle", "follower_count": float64(200)},
		{"username": "", "follower_count": float64(300)},
		{"username": "bob"},
	}

	result, err := im.ImportRecords(context.Background(), records, nil)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Imported)
	require.Len(t, repo.upsertedRows, 1)
	assert.Len(t, repo.upsertedRows[0], 2)
}

func TestImportRecordsProgress(t *testing.T) {
	repo := newFakeRepo()
	im := NewImporter(repo, NewNormalizer(), 50)

	var percents []int
	_, err := im.ImportRecords(context.Background(), makeRecords(120), func(p int) {
		percents = append(percents, p)
	})

	require.NoError(t, err)
	assert.Equal(t, []int{42, 83, 100}, percents)
}

func TestImportRecordsUpsertOverwrites(t *testing.T) {
	repo := newFakeRepo()
	im := NewImporter(repo, NewNormalizer(), 50)

	_, err := im.ImportRecords(context.Background(), []RawRecord{
		{"username": "alice", "follower_count": float64(100), "bio": "old"},
	}, nil)
	require.NoError(t, err)

	result, err := im.ImportRecords(context.Background(), []RawRecord{
		{"username": "alice", "follower_count": float64(500), "bio": "new"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	stored, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(500), stored.FollowerCount)
	assert.Equal(t, "new", stored.Bio)
}

func TestImportParsesThenImports(t *testing.T) {
	repo := newFakeRepo()
	im := NewImporter(repo, NewNormalizer(), 50)

	result, err := im.Import(context.Background(), "csv",
		"username,followers\nalice,100\nbob,200", nil)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)

	alice, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(100), alice.FollowerCount)
	assert.Equal(t, "import", alice.SourceKeyword)
}

func TestImportBadDataReturnsError(t *testing.T) {
	repo := newFakeRepo()
	im := NewImporter(repo, NewNormalizer(), 50)

	_, err := im.Import(context.Background(), "json", "[]", nil)
	assert.Error(t, err)
	assert.Zero(t, repo.upsertCalls)
}

func TestNewImporterDefaultBatchSize(t *testing.T) {
	repo := newFakeRepo()
	im := NewImporter(repo, NewNormalizer(), 0)

	_, err := im.ImportRecords(context.Background(), makeRecords(60), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.upsertCalls) // default 50 per batch
}
