package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"creator-dashboard/internal/domains/creator/model"
)

// fakeRepo is an in-memory store keyed by normalized username. Only
// the methods the core pipeline touches are fully implemented.
type fakeRepo struct {
	mu      sync.Mutex
	nextID  int64
	records map[string]model.Creator

	upsertErr    error
	failBatches  map[int]bool // fail the Nth UpsertBatch call (1-based)
	upsertCalls  int
	deleteErr    error
	deletedIDs   []int64
	upsertedRows [][]model.Creator
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[string]model.Creator), nextID: 1}
}

func (f *fakeRepo) seed(creators ...model.Creator) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range creators {
		if c.ID == 0 {
			c.ID = f.nextID
			f.nextID++
		} else if c.ID >= f.nextID {
			f.nextID = c.ID + 1
		}
		f.records[model.NormalizeUsername(c.Username)] = c
	}
}

func (f *fakeRepo) UpsertBatch(_ context.Context, creators []model.Creator) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.upsertCalls++
	if f.upsertErr != nil {
		return 0, f.upsertErr
	}
	if f.failBatches[f.upsertCalls] {
		return 0, errors.New("store unavailable")
	}

	f.upsertedRows = append(f.upsertedRows, creators)
	for _, c := range creators {
		key := model.NormalizeUsername(c.Username)
		if existing, ok := f.records[key]; ok {
			c.ID = existing.ID
			c.ScrapedAt = existing.ScrapedAt
		} else {
			c.ID = f.nextID
			f.nextID++
		}
		f.records[key] = c
	}
	return int64(len(creators)), nil
}

func (f *fakeRepo) GetAll(_ context.Context) ([]model.Creator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]model.Creator, 0, len(f.records))
	for _, c := range f.records {
		out = append(out, c)
	}
	// The real store returns rows ordered by username.
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (f *fakeRepo) DeleteByIDs(_ context.Context, ids []int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return 0, f.deleteErr
	}

	var deleted int64
	for _, id := range ids {
		for key, c := range f.records {
			if c.ID == id {
				delete(f.records, key)
				deleted++
				break
			}
		}
	}
	f.deletedIDs = append(f.deletedIDs, ids...)
	return deleted, nil
}

func (f *fakeRepo) MergeGroup(ctx context.Context, survivorID int64, loserIDs []int64) (int64, error) {
	deleted, err := f.DeleteByIDs(ctx, loserIDs)
	if err != nil {
		return 0, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for key, c := range f.records {
		if c.ID == survivorID {
			c.LastUpdated = time.Now()
			f.records[key] = c
			break
		}
	}
	return deleted, nil
}

func (f *fakeRepo) Create(_ context.Context, c *model.Creator) error {
	_, err := f.UpsertBatch(context.Background(), []model.Creator{*c})
	return err
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*model.Creator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.records {
		if c.ID == id {
			out := c
			return &out, nil
		}
	}
	return nil, model.ErrCreatorNotFound
}

func (f *fakeRepo) GetByUsername(_ context.Context, username string) (*model.Creator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.records[model.NormalizeUsername(username)]; ok {
		out := c
		return &out, nil
	}
	return nil, model.ErrCreatorNotFound
}

func (f *fakeRepo) Update(_ context.Context, c *model.Creator) error {
	_, err := f.UpsertBatch(context.Background(), []model.Creator{*c})
	return err
}

func (f *fakeRepo) Delete(ctx context.Context, id int64) error {
	n, err := f.DeleteByIDs(ctx, []int64{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrCreatorNotFound
	}
	return nil
}

func (f *fakeRepo) Search(ctx context.Context, _ model.SearchFilters) ([]model.Creator, int, error) {
	all, err := f.GetAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	return all, len(all), nil
}

func (f *fakeRepo) SetProfilePicLocal(_ context.Context, id int64, localURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, c := range f.records {
		if c.ID == id {
			c.ProfilePicLocal = localURL
			f.records[key] = c
			return nil
		}
	}
	return model.ErrCreatorNotFound
}

func (f *fakeRepo) Stats(ctx context.Context) (*model.CreatorStats, error) {
	all, err := f.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.CreatorStats{TotalCreators: int64(len(all))}
	var sum int64
	for i, c := range all {
		if stats.LastSync == nil || c.LastUpdated.After(*stats.LastSync) {
			last := all[i].LastUpdated
			stats.LastSync = &last
		}
		if c.IsVerified {
			stats.VerifiedCount++
		}
		if c.IsBusiness {
			stats.BusinessCount++
		}
		if c.IsPrivate {
			stats.PrivateCount++
		}
		sum += c.FollowerCount
		if c.FollowerCount > stats.MaxFollowers {
			stats.MaxFollowers = c.FollowerCount
		}
	}
	if len(all) > 0 {
		stats.AvgFollowers = float64(sum) / float64(len(all))
	}
	return stats, nil
}
