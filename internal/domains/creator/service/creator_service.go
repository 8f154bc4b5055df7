package service

import (
	"context"
	"strings"

	"creator-dashboard/internal/domains/creator/model"
	"creator-dashboard/internal/domains/creator/repository"
)

// ServiceInterface is the creator domain facade used by handlers.
type ServiceInterface interface {
	Create(ctx context.Context, req model.CreateCreatorRequest) (*model.Creator, error)
	GetByID(ctx context.Context, id int64) (*model.Creator, error)
	GetByUsername(ctx context.Context, username string) (*model.Creator, error)
	Update(ctx context.Context, id int64, req model.CreateCreatorRequest) (*model.Creator, error)
	Delete(ctx context.Context, id int64) error
	BulkDelete(ctx context.Context, ids []int64) (int64, error)

	Search(ctx context.Context, filters model.SearchFilters) ([]model.Creator, int, error)
	Stats(ctx context.Context) (*model.CreatorStats, error)

	Import(ctx context.Context, req model.ImportRequest) (*model.ImportResult, error)
	ScanDuplicates(ctx context.Context) ([]model.DuplicateGroup, error)
	MergeDuplicates(ctx context.Context, req model.MergeRequest) (*model.MergeResult, error)
	Export(ctx context.Context, req model.ExportRequest) (*ExportFile, error)
}

type creatorService struct {
	repo     repository.Repository
	importer *Importer
	deduper  *Deduper
	exporter *Exporter
}

func NewService(repo repository.Repository, importer *Importer, deduper *Deduper, exporter *Exporter) ServiceInterface {
	return &creatorService{
		repo:     repo,
		importer: importer,
		deduper:  deduper,
		exporter: exporter,
	}
}

func (s *creatorService) Create(ctx context.Context, req model.CreateCreatorRequest) (*model.Creator, error) {
	if strings.TrimSpace(req.Username) == "" {
		return nil, model.ErrUsernameRequired
	}

	creator := creatorFromRequest(req)
	if creator.SourceKeyword == "" {
		creator.SourceKeyword = "manual"
	}

	if err := s.repo.Create(ctx, &creator); err != nil {
		return nil, err
	}
	return &creator, nil
}

func (s *creatorService) GetByID(ctx context.Context, id int64) (*model.Creator, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *creatorService) GetByUsername(ctx context.Context, username string) (*model.Creator, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *creatorService) Update(ctx context.Context, id int64, req model.CreateCreatorRequest) (*model.Creator, error) {
	if strings.TrimSpace(req.Username) == "" {
		return nil, model.ErrUsernameRequired
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := creatorFromRequest(req)
	updated.ID = existing.ID
	updated.ProfilePicLocal = existing.ProfilePicLocal
	updated.SearchScore = existing.SearchScore
	updated.ScrapedAt = existing.ScrapedAt
	if updated.SourceKeyword == "" {
		updated.SourceKeyword = existing.SourceKeyword
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *creatorService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *creatorService) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	return s.repo.DeleteByIDs(ctx, ids)
}

func (s *creatorService) Search(ctx context.Context, filters model.SearchFilters) ([]model.Creator, int, error) {
	return s.repo.Search(ctx, filters)
}

func (s *creatorService) Stats(ctx context.Context) (*model.CreatorStats, error) {
	return s.repo.Stats(ctx)
}

func (s *creatorService) Import(ctx context.Context, req model.ImportRequest) (*model.ImportResult, error) {
	return s.importer.Import(ctx, req.Format, req.Data, nil)
}

func (s *creatorService) ScanDuplicates(ctx context.Context) ([]model.DuplicateGroup, error) {
	return s.deduper.Scan(ctx)
}

func (s *creatorService) MergeDuplicates(ctx context.Context, req model.MergeRequest) (*model.MergeResult, error) {
	return s.deduper.MergeSelected(ctx, req.GroupKeys)
}

// Export applies the request's filters, then renders every matching
// row (no pagination on exports).
func (s *creatorService) Export(ctx context.Context, req model.ExportRequest) (*ExportFile, error) {
	filters := req.Filters
	filters.Limit = 0
	filters.Offset = 0

	var creators []model.Creator
	var err error
	if isEmptyFilter(filters) {
		creators, err = s.repo.GetAll(ctx)
	} else {
		filters.Limit = 1000
		creators, _, err = s.repo.Search(ctx, filters)
	}
	if err != nil {
		return nil, err
	}

	return s.exporter.Export(req.Format, creators)
}

func isEmptyFilter(f model.SearchFilters) bool {
	return len(f.Hashtags) == 0 && len(f.Mentions) == 0 && len(f.Keywords) == 0 &&
		f.MinFollowers == 0 && (f.MaxFollowers == 0 || f.MaxFollowers >= model.MaxFollowerSentinel) &&
		f.IsVerified == nil && f.IsBusiness == nil && f.IsPrivate == nil &&
		f.ProfileType == "" && f.Category == ""
}

func creatorFromRequest(req model.CreateCreatorRequest) model.Creator {
	return model.Creator{
		Username:       req.Username,
		FullName:       req.FullName,
		ProfileURL:     req.ProfileURL,
		PK:             req.PK,
		FollowerCount:  req.FollowerCount,
		FollowingCount: req.FollowingCount,
		MediaCount:     req.MediaCount,
		IsVerified:     req.IsVerified,
		IsBusiness:     req.IsBusiness,
		IsPrivate:      req.IsPrivate,
		Category:       req.Category,
		Bio:            req.Bio,
		ExternalURL:    req.ExternalURL,
		ProfilePicURL:  req.ProfilePicURL,
		EngagementRate: req.EngagementRate,
		SourceKeyword:  req.SourceKeyword,
		ProfileType:    req.ProfileType,
	}
}
