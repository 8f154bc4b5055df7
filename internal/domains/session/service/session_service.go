package service

import (
	"context"

	"creator-dashboard/internal/domains/session/model"
	"creator-dashboard/internal/domains/session/repository"
)

// ServiceInterface manages the pool of scraper session tokens.
type ServiceInterface interface {
	Create(ctx context.Context, req model.CreateSessionRequest) (*model.SessionConfig, error)
	List(ctx context.Context) ([]model.SessionConfig, error)
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error

	// PickActive rotates to the least-recently-used active session;
	// returns ErrNoActiveSessions when the pool is empty.
	PickActive(ctx context.Context) (*model.SessionConfig, error)
	RecordUse(ctx context.Context, id int64, success bool) error
}

type sessionService struct {
	repo repository.Repository
}

func NewService(repo repository.Repository) ServiceInterface {
	return &sessionService{repo: repo}
}

func (s *sessionService) Create(ctx context.Context, req model.CreateSessionRequest) (*model.SessionConfig, error) {
	session := &model.SessionConfig{
		SessionID: req.SessionID,
		IsActive:  req.IsActive,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *sessionService) List(ctx context.Context) ([]model.SessionConfig, error) {
	return s.repo.List(ctx)
}

func (s *sessionService) SetActive(ctx context.Context, id int64, active bool) error {
	return s.repo.SetActive(ctx, id, active)
}

func (s *sessionService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *sessionService) PickActive(ctx context.Context) (*model.SessionConfig, error) {
	return s.repo.PickActive(ctx)
}

func (s *sessionService) RecordUse(ctx context.Context, id int64, success bool) error {
	return s.repo.RecordUse(ctx, id, success)
}
