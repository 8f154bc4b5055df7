package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"creator-dashboard/internal/domains/creator/model"
	"creator-dashboard/internal/domains/creator/service"
	"creator-dashboard/internal/shared/response"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// ListCreators - GET /v1/creators
// Query params: keywords, hashtags, mentions, min_followers,
// max_followers, verified, business, private, category, profile_type,
// limit, offset. Comma-separated lists for the plural params.
func (h *Handler) ListCreators(c *gin.Context) {
	filters := model.SearchFilters{
		Hashtags:    splitList(c.Query("hashtags")),
		Mentions:    splitList(c.Query("mentions")),
		Keywords:    splitList(c.Query("keywords")),
		ProfileType: c.Query("profile_type"),
		Category:    c.Query("category"),
		Limit:       100,
	}

	if v := c.Query("min_followers"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			filters.MinFollowers = n
		}
	}
	if v := c.Query("max_followers"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			filters.MaxFollowers = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			filters.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			filters.Offset = n
		}
	}

	filters.IsVerified = parseTriState(c.Query("verified"))
	filters.IsBusiness = parseTriState(c.Query("business"))
	filters.IsPrivate = parseTriState(c.Query("private"))

	if err := filters.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	creators, total, err := h.service.Search(c.Request.Context(), filters)
	if err != nil {
		response.InternalServerError(c, "failed to search creators")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, creators, &response.Meta{
		Limit:  filters.Limit,
		Offset: filters.Offset,
		Total:  total,
	})
}

// GetCreator - GET /v1/creators/:id
func (h *Handler) GetCreator(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid creator id")
		return
	}

	creator, err := h.service.GetByID(c.Request.Context(), id)
	if errors.Is(err, model.ErrCreatorNotFound) {
		response.NotFound(c, "creator not found")
		return
	}
	if err != nil {
		response.InternalServerError(c, "failed to get creator")
		return
	}

	response.Success(c, http.StatusOK, creator)
}

// CreateCreator - POST /v1/creators
func (h *Handler) CreateCreator(c *gin.Context) {
	var req model.CreateCreatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err)
		return
	}

	creator, err := h.service.Create(c.Request.Context(), req)
	if errors.Is(err, model.ErrUsernameRequired) {
		response.BadRequest(c, err.Error())
		return
	}
	if errors.Is(err, model.ErrUsernameTaken) {
		response.Conflict(c, "username already exists")
		return
	}
	if err != nil {
		response.InternalServerError(c, "failed to create creator")
		return
	}

	response.Success(c, http.StatusCreated, creator)
}

// UpdateCreator - PUT /v1/creators/:id
func (h *Handler) UpdateCreator(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid creator id")
		return
	}

	var req model.CreateCreatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err)
		return
	}

	creator, err := h.service.Update(c.Request.Context(), id, req)
	if errors.Is(err, model.ErrUsernameRequired) {
		response.BadRequest(c, err.Error())
		return
	}
	if errors.Is(err, model.ErrCreatorNotFound) {
		response.NotFound(c, "creator not found")
		return
	}
	if err != nil {
		response.InternalServerError(c, "failed to update creator")
		return
	}

	response.Success(c, http.StatusOK, creator)
}

// DeleteCreator - DELETE /v1/creators/:id
func (h *Handler) DeleteCreator(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid creator id")
		return
	}

	err = h.service.Delete(c.Request.Context(), id)
	if errors.Is(err, model.ErrCreatorNotFound) {
		response.NotFound(c, "creator not found")
		return
	}
	if err != nil {
		response.InternalServerError(c, "failed to delete creator")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}

// BulkDeleteCreators - POST /v1/creators/bulk-delete
func (h *Handler) BulkDeleteCreators(c *gin.Context) {
	var req model.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err)
		return
	}

	deleted, err := h.service.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		response.InternalServerError(c, "failed to delete creators")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": deleted})
}

// ImportCreators - POST /v1/creators/import
func (h *Handler) ImportCreators(c *gin.Context) {
	var req model.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err)
		return
	}

	result, err := h.service.Import(c.Request.Context(), req)
	if errors.Is(err, model.ErrEmptyImport) || errors.Is(err, model.ErrInvalidImportData) {
		response.BadRequest(c, err.Error())
		return
	}
	if err != nil {
		response.InternalServerError(c, "import failed")
		return
	}

	response.Success(c, http.StatusOK, summarizeImport(result))
}

// ScanDuplicates - GET /v1/creators/duplicates
func (h *Handler) ScanDuplicates(c *gin.Context) {
	groups, err := h.service.ScanDuplicates(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "duplicate scan failed")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, groups, &response.Meta{Total: len(groups)})
}

// MergeDuplicates - POST /v1/creators/duplicates/merge
func (h *Handler) MergeDuplicates(c *gin.Context) {
	var req model.MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err)
		return
	}

	result, err := h.service.MergeDuplicates(c.Request.Context(), req)
	if err != nil {
		// Partial completion is possible; return what was merged.
		details := gin.H{"groups_merged": 0, "deleted": 0}
		if result != nil {
			details["groups_merged"] = result.GroupsMerged
			details["deleted"] = result.Deleted
		}
		response.ErrorWithDetails(c, http.StatusInternalServerError, "MERGE_FAILED", "merge failed", details)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// ExportCreators - POST /v1/creators/export
func (h *Handler) ExportCreators(c *gin.Context) {
	var req model.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err)
		return
	}

	file, err := h.service.Export(c.Request.Context(), req)
	if err != nil {
		response.InternalServerError(c, "export failed")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

// GetStats - GET /v1/creators/stats
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "failed to load stats")
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// summarizeImport keeps the first few batch errors and elides the
// rest, so huge failed imports stay readable.
func summarizeImport(result *model.ImportResult) gin.H {
	const maxMessages = 3

	messages := result.Messages
	if len(messages) > maxMessages {
		elided := len(messages) - maxMessages
		messages = append(messages[:maxMessages:maxMessages],
			"+"+strconv.Itoa(elided)+" more")
	}

	return gin.H{
		"success":  result.Success,
		"imported": result.Imported,
		"updated":  result.Updated,
		"errors":   result.Errors,
		"messages": messages,
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseTriState(raw string) *bool {
	switch strings.ToLower(raw) {
	case "true", "1", "yes":
		v := true
		return &v
	case "false", "0", "no":
		v := false
		return &v
	default:
		return nil
	}
}
