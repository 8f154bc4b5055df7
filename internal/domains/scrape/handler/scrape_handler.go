package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"creator-dashboard/internal/domains/scrape/model"
	"creator-dashboard/internal/domains/scrape/service"
	"creator-dashboard/internal/shared/response"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// TriggerScrape - POST /v1/scrape
func (h *Handler) TriggerScrape(c *gin.Context) {
	var req model.ScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err)
		return
	}

	job, err := h.service.Trigger(c.Request.Context(), req)
	if err != nil {
		response.InternalServerError(c, "failed to start scraping job")
		return
	}

	status := http.StatusAccepted
	if req.Wait {
		status = http.StatusOK
	}
	response.Success(c, status, job)
}

// GetJob - GET /v1/scrape/jobs/:id
func (h *Handler) GetJob(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid job id")
		return
	}

	job, err := h.service.GetJob(c.Request.Context(), id)
	if errors.Is(err, model.ErrJobNotFound) {
		response.NotFound(c, "scraping job not found")
		return
	}
	if err != nil {
		response.InternalServerError(c, "failed to get scraping job")
		return
	}

	response.Success(c, http.StatusOK, job)
}

// ListJobs - GET /v1/scrape/jobs
func (h *Handler) ListJobs(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	jobs, err := h.service.ListJobs(c.Request.Context(), limit)
	if err != nil {
		response.InternalServerError(c, "failed to list scraping jobs")
		return
	}

	response.Success(c, http.StatusOK, jobs)
}
