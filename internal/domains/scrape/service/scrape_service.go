package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	creatorModel "creator-dashboard/internal/domains/creator/model"
	creatorRepo "creator-dashboard/internal/domains/creator/repository"
	"creator-dashboard/internal/domains/scrape/model"
	"creator-dashboard/internal/domains/scrape/repository"
	sessionModel "creator-dashboard/internal/domains/session/model"
	sessionService "creator-dashboard/internal/domains/session/service"
	"creator-dashboard/internal/instagram"
	"creator-dashboard/internal/shared"
)

// ServiceInterface runs and tracks scraping jobs.
type ServiceInterface interface {
	// Trigger creates a job. Wait=true runs it inline, otherwise the
	// job is queued for the worker.
	Trigger(ctx context.Context, req model.ScrapeRequest) (*model.ScrapingJob, error)

	// RunJob executes a created job to completion.
	RunJob(ctx context.Context, jobID int64, query string, limit int) error

	GetJob(ctx context.Context, id int64) (*model.ScrapingJob, error)
	ListJobs(ctx context.Context, limit int) ([]model.ScrapingJob, error)
}

type scrapeService struct {
	jobs        repository.Repository
	creators    creatorRepo.Repository
	sessions    sessionService.ServiceInterface
	client      *instagram.Client
	asynqClient *asynq.Client

	defaultLimit   int
	mirrorPictures bool
}

func NewService(
	jobs repository.Repository,
	creators creatorRepo.Repository,
	sessions sessionService.ServiceInterface,
	client *instagram.Client,
	asynqClient *asynq.Client,
	defaultLimit int,
	mirrorPictures bool,
) ServiceInterface {
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	return &scrapeService{
		jobs:           jobs,
		creators:       creators,
		sessions:       sessions,
		client:         client,
		asynqClient:    asynqClient,
		defaultLimit:   defaultLimit,
		mirrorPictures: mirrorPictures,
	}
}

func (s *scrapeService) Trigger(ctx context.Context, req model.ScrapeRequest) (*model.ScrapingJob, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}

	job := &model.ScrapingJob{SearchQuery: req.SearchQuery, Status: model.StatusPending}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	if req.Wait {
		if err := s.RunJob(ctx, job.ID, req.SearchQuery, limit); err != nil {
			return nil, err
		}
		return s.jobs.GetByID(ctx, job.ID)
	}

	payload, err := json.Marshal(shared.ScrapeSearchPayload{
		JobID:       job.ID,
		SearchQuery: req.SearchQuery,
		Limit:       limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scrape payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeScrapeSearch, payload)
	if _, err := s.asynqClient.EnqueueContext(ctx, task, asynq.Queue("default"), asynq.MaxRetry(0)); err != nil {
		return nil, fmt.Errorf("failed to enqueue scrape job: %w", err)
	}

	return job, nil
}

// RunJob is single-attempt: a failed Instagram call marks the job
// failed and does not requeue.
func (s *scrapeService) RunJob(ctx context.Context, jobID int64, query string, limit int) error {
	if err := s.jobs.MarkRunning(ctx, jobID); err != nil {
		return err
	}

	// A missing session pool is fine, the search just runs anonymously
	// with tighter rate limits.
	var session *sessionModel.SessionConfig
	sessionToken := ""
	if s.sessions != nil {
		picked, err := s.sessions.PickActive(ctx)
		if err == nil {
			session = picked
			sessionToken = picked.SessionID
		} else if !errors.Is(err, sessionModel.ErrNoActiveSessions) {
			log.Error().Err(err).Msg("Session lookup failed, scraping anonymously")
		}
	}

	profiles, err := s.client.Search(ctx, query, sessionToken, limit)
	if err != nil {
		s.recordSessionUse(ctx, session, false)
		if failErr := s.jobs.Fail(ctx, jobID, err.Error()); failErr != nil {
			log.Error().Err(failErr).Int64("job_id", jobID).Msg("Failed to mark job failed")
		}
		log.Error().Err(err).Int64("job_id", jobID).Str("query", query).Msg("Scrape failed")
		return nil
	}
	s.recordSessionUse(ctx, session, true)

	saved := 0
	for _, p := range profiles {
		if p.Username == "" {
			continue
		}

		creator := creatorFromProfile(p)
		if _, err := s.creators.UpsertBatch(ctx, []creatorModel.Creator{creator}); err != nil {
			log.Error().Err(err).Str("username", p.Username).Msg("Failed to save profile")
			continue
		}
		saved++

		if s.mirrorPictures && p.ProfilePicURL != "" {
			s.enqueueMirror(ctx, p.Username, p.ProfilePicURL)
		}
	}

	if err := s.jobs.Complete(ctx, jobID, len(profiles), saved); err != nil {
		return err
	}

	log.Info().
		Int64("job_id", jobID).
		Str("query", query).
		Int("total_found", len(profiles)).
		Int("total_saved", saved).
		Msg("Scrape job completed")

	return nil
}

func (s *scrapeService) GetJob(ctx context.Context, id int64) (*model.ScrapingJob, error) {
	return s.jobs.GetByID(ctx, id)
}

func (s *scrapeService) ListJobs(ctx context.Context, limit int) ([]model.ScrapingJob, error) {
	return s.jobs.List(ctx, limit)
}

func (s *scrapeService) recordSessionUse(ctx context.Context, session *sessionModel.SessionConfig, success bool) {
	if session == nil {
		return
	}
	if err := s.sessions.RecordUse(ctx, session.ID, success); err != nil {
		log.Error().Err(err).Int64("session_id", session.ID).Msg("Failed to record session use")
	}
}

func (s *scrapeService) enqueueMirror(ctx context.Context, username, pictureURL string) {
	if s.asynqClient == nil {
		return
	}

	payload, err := json.Marshal(shared.MirrorPicturePayload{
		Username:   username,
		PictureURL: pictureURL,
	})
	if err != nil {
		return
	}

	task := asynq.NewTask(shared.TypeMirrorPicture, payload)
	if _, err := s.asynqClient.EnqueueContext(ctx, task, asynq.Queue("low")); err != nil {
		log.Error().Err(err).Str("username", username).Msg("Failed to enqueue picture mirror")
	}
}

func creatorFromProfile(p instagram.Profile) creatorModel.Creator {
	return creatorModel.Creator{
		Username:       p.Username,
		FullName:       p.FullName,
		ProfileURL:     p.ProfileURL,
		PK:             p.PK,
		FollowerCount:  p.FollowerCount,
		FollowingCount: p.FollowingCount,
		MediaCount:     p.MediaCount,
		IsVerified:     p.IsVerified,
		IsBusiness:     p.IsBusiness,
		IsPrivate:      p.IsPrivate,
		Category:       p.Category,
		Bio:            p.Bio,
		ExternalURL:    p.ExternalURL,
		ProfilePicURL:  p.ProfilePicURL,
		BioHashtags:    p.BioHashtags,
		BioMentions:    p.BioMentions,
		SourceKeyword:  p.SourceKeyword,
	}
}
