package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	creatorModel "creator-dashboard/internal/domains/creator/model"
	creatorRepo "creator-dashboard/internal/domains/creator/repository"
	"creator-dashboard/internal/infrastructure/storage"
	"creator-dashboard/internal/instagram"
	"creator-dashboard/internal/shared"
	"creator-dashboard/pkg/logger"
)

// MirrorPictureHandler copies a creator's profile picture into object
// storage so the dashboard does not hotlink Instagram's CDN.
type MirrorPictureHandler struct {
	creators creatorRepo.Repository
	client   *instagram.Client
	storage  *storage.MinIOStorage
}

func NewMirrorPictureHandler(
	creators creatorRepo.Repository,
	client *instagram.Client,
	storage *storage.MinIOStorage,
) *MirrorPictureHandler {
	return &MirrorPictureHandler{
		creators: creators,
		client:   client,
		storage:  storage,
	}
}

func (h *MirrorPictureHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.MirrorPicturePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("MirrorPicture: failed to unmarshal payload", err)
		return fmt.Errorf("unmarshal MirrorPicture payload: %w", err)
	}

	if payload.Username == "" || payload.PictureURL == "" {
		err := fmt.Errorf("MirrorPicture: invalid payload: username=%q", payload.Username)
		logger.Error("MirrorPicture: invalid payload", err)
		return err
	}

	creator, err := h.creators.GetByUsername(ctx, payload.Username)
	if errors.Is(err, creatorModel.ErrCreatorNotFound) {
		// Deleted or merged away since the task was queued.
		return nil
	}
	if err != nil {
		return err
	}

	data, contentType, err := h.client.DownloadPicture(ctx, payload.PictureURL)
	if err != nil {
		logger.Error("MirrorPicture: download failed", err)
		return err
	}

	key := fmt.Sprintf("profiles/%s/avatar.jpg", creator.Username)
	url, err := h.storage.Upload(ctx, key, data, contentType)
	if err != nil {
		logger.Error("MirrorPicture: upload failed", err)
		return err
	}

	if err := h.creators.SetProfilePicLocal(ctx, creator.ID, url); err != nil {
		return err
	}

	logger.Info("MirrorPicture: mirrored", map[string]interface{}{
		"username": creator.Username,
		"url":      url,
	})

	return nil
}
