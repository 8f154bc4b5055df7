package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"creator-dashboard/internal/domains/analytics/model"
	"creator-dashboard/internal/domains/analytics/service"
	"creator-dashboard/internal/shared/response"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// TrackEvent - POST /v1/analytics/events
func (h *Handler) TrackEvent(c *gin.Context) {
	var req model.TrackEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err)
		return
	}

	event, err := h.service.Track(c.Request.Context(), req)
	if err != nil {
		response.InternalServerError(c, "failed to track event")
		return
	}

	response.Success(c, http.StatusCreated, event)
}

// ListEvents - GET /v1/analytics/events
func (h *Handler) ListEvents(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	events, err := h.service.ListEvents(c.Request.Context(), c.Query("type"), limit)
	if err != nil {
		response.InternalServerError(c, "failed to list events")
		return
	}

	response.Success(c, http.StatusOK, events)
}

// GetTrends - GET /v1/analytics/trends
func (h *Handler) GetTrends(c *gin.Context) {
	days := 30
	if v := c.Query("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 365 {
			days = n
		}
	}

	trends, err := h.service.Trends(c.Request.Context(), days)
	if err != nil {
		response.InternalServerError(c, "failed to load trends")
		return
	}

	response.Success(c, http.StatusOK, trends)
}

// GetDashboard - GET /v1/analytics/dashboard
func (h *Handler) GetDashboard(c *gin.Context) {
	dashboard, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "failed to load dashboard")
		return
	}

	response.Success(c, http.StatusOK, dashboard)
}
