package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"creator-dashboard/internal/domains/analytics/model"
	"creator-dashboard/internal/domains/analytics/repository"
	creatorModel "creator-dashboard/internal/domains/creator/model"
	creatorRepo "creator-dashboard/internal/domains/creator/repository"
	scrapeModel "creator-dashboard/internal/domains/scrape/model"
	scrapeRepo "creator-dashboard/internal/domains/scrape/repository"
	sessionRepo "creator-dashboard/internal/domains/session/repository"
)

// Dashboard bundles everything the analytics page loads at once.
type Dashboard struct {
	Stats          *creatorModel.CreatorStats `json:"stats"`
	Trends         []model.EngagementTrend    `json:"trends"`
	ActiveSessions int64                      `json:"active_sessions"`
	RecentJobs     []scrapeModel.ScrapingJob  `json:"recent_jobs"`
}

type ServiceInterface interface {
	Track(ctx context.Context, req model.TrackEventRequest) (*model.Event, error)
	ListEvents(ctx context.Context, eventType string, limit int) ([]model.Event, error)
	Trends(ctx context.Context, days int) ([]model.EngagementTrend, error)
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type analyticsService struct {
	repo     repository.Repository
	creators creatorRepo.Repository
	sessions sessionRepo.Repository
	jobs     scrapeRepo.Repository
}

func NewService(
	repo repository.Repository,
	creators creatorRepo.Repository,
	sessions sessionRepo.Repository,
	jobs scrapeRepo.Repository,
) ServiceInterface {
	return &analyticsService{
		repo:     repo,
		creators: creators,
		sessions: sessions,
		jobs:     jobs,
	}
}

func (s *analyticsService) Track(ctx context.Context, req model.TrackEventRequest) (*model.Event, error) {
	event := &model.Event{
		EventType: req.EventType,
		Payload:   req.Payload,
	}
	if err := s.repo.InsertEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *analyticsService) ListEvents(ctx context.Context, eventType string, limit int) ([]model.Event, error) {
	return s.repo.ListEvents(ctx, eventType, limit)
}

func (s *analyticsService) Trends(ctx context.Context, days int) ([]model.EngagementTrend, error) {
	return s.repo.EngagementTrends(ctx, days)
}

func (s *analyticsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	stats, err := s.creators.Stats(ctx)
	if err != nil {
		return nil, err
	}

	trends, err := s.repo.EngagementTrends(ctx, 30)
	if err != nil {
		return nil, err
	}

	dashboard := &Dashboard{Stats: stats, Trends: trends}

	// Session and job panels are secondary; a failure there should not
	// blank the whole dashboard.
	if active, err := s.sessions.CountActive(ctx); err == nil {
		dashboard.ActiveSessions = active
	} else {
		log.Error().Err(err).Msg("Failed to count active sessions")
	}
	if jobs, err := s.jobs.List(ctx, 5); err == nil {
		dashboard.RecentJobs = jobs
	} else {
		log.Error().Err(err).Msg("Failed to load recent jobs")
	}

	return dashboard, nil
}
