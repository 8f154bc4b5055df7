package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"creator-dashboard/internal/domains/scrape/service"
	"creator-dashboard/internal/shared"
	"creator-dashboard/pkg/logger"
)

// ScrapeSearchHandler runs queued scraping jobs on the worker.
type ScrapeSearchHandler struct {
	service service.ServiceInterface
}

func NewScrapeSearchHandler(service service.ServiceInterface) *ScrapeSearchHandler {
	return &ScrapeSearchHandler{service: service}
}

func (h *ScrapeSearchHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ScrapeSearchPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("ScrapeSearch: failed to unmarshal payload", err)
		// Broken payload, retrying cannot fix it.
		return fmt.Errorf("unmarshal ScrapeSearch payload: %w", err)
	}

	if payload.JobID == 0 || payload.SearchQuery == "" {
		err := fmt.Errorf("ScrapeSearch: invalid payload: job_id=%d query=%q", payload.JobID, payload.SearchQuery)
		logger.Error("ScrapeSearch: invalid payload", err)
		return err
	}

	logger.Info("ScrapeSearch: starting job", map[string]interface{}{
		"job_id": payload.JobID,
		"query":  payload.SearchQuery,
		"limit":  payload.Limit,
	})

	return h.service.RunJob(ctx, payload.JobID, payload.SearchQuery, payload.Limit)
}
