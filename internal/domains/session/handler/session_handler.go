package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"creator-dashboard/internal/domains/session/model"
	"creator-dashboard/internal/domains/session/service"
	"creator-dashboard/internal/shared/response"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// ListSessions - GET /v1/sessions
func (h *Handler) ListSessions(c *gin.Context) {
	sessions, err := h.service.List(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "failed to list sessions")
		return
	}

	// Tokens are secrets; expose only a suffix for identification.
	for i := range sessions {
		sessions[i].SessionID = maskToken(sessions[i].SessionID)
	}

	response.Success(c, http.StatusOK, sessions)
}

// CreateSession - POST /v1/sessions
func (h *Handler) CreateSession(c *gin.Context) {
	var req model.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err)
		return
	}

	session, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.InternalServerError(c, "failed to create session")
		return
	}

	session.SessionID = maskToken(session.SessionID)
	response.Success(c, http.StatusCreated, session)
}

// UpdateSession - PATCH /v1/sessions/:id
func (h *Handler) UpdateSession(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid session id")
		return
	}

	var req model.UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if req.IsActive == nil {
		response.BadRequest(c, "is_active is required")
		return
	}

	err = h.service.SetActive(c.Request.Context(), id, *req.IsActive)
	if errors.Is(err, model.ErrSessionNotFound) {
		response.NotFound(c, "session not found")
		return
	}
	if err != nil {
		response.InternalServerError(c, "failed to update session")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id, "is_active": *req.IsActive})
}

// DeleteSession - DELETE /v1/sessions/:id
func (h *Handler) DeleteSession(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid session id")
		return
	}

	err = h.service.Delete(c.Request.Context(), id)
	if errors.Is(err, model.ErrSessionNotFound) {
		response.NotFound(c, "session not found")
		return
	}
	if err != nil {
		response.InternalServerError(c, "failed to delete session")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}

func maskToken(token string) string {
	if len(token) <= 6 {
		return "******"
	}
	return "******" + token[len(token)-6:]
}
