package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-dashboard/internal/domains/creator/model"
	"creator-dashboard/internal/domains/creator/service"
)

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a"}, splitList("a"))
	assert.Equal(t, []string{"a", "b"}, splitList("a,b"))
	assert.Equal(t, []string{"a", "b"}, splitList(" a , b "))
	assert.Equal(t, []string{"a"}, splitList("a,,"))
}

func TestParseTriState(t *testing.T) {
	require.NotNil(t, parseTriState("true"))
	assert.True(t, *parseTriState("true"))
	assert.True(t, *parseTriState("1"))
	assert.True(t, *parseTriState("YES"))

	require.NotNil(t, parseTriState("false"))
	assert.False(t, *parseTriState("false"))
	assert.False(t, *parseTriState("0"))

	assert.Nil(t, parseTriState(""))
	assert.Nil(t, parseTriState("maybe"))
}

func TestSummarizeImportElidesMessages(t *testing.T) {
	result := &model.ImportResult{
		Imported: 10,
		Errors:   250,
		Messages: []string{
			"Batch 1: store unavailable",
			"Batch 2: store unavailable",
			"Batch 3: store unavailable",
			"Batch 4: store unavailable",
			"Batch 5: store unavailable",
		},
	}

	summary := summarizeImport(result)
	messages := summary["messages"].([]string)

	require.Len(t, messages, 4)
	assert.Equal(t, "Batch 3: store unavailable", messages[2])
	assert.Equal(t, "+2 more", messages[3])
}

func TestSummarizeImportShortListUntouched(t *testing.T) {
	result := &model.ImportResult{Messages: []string{"Batch 1: x"}}

	summary := summarizeImport(result)
	assert.Equal(t, []string{"Batch 1: x"}, summary["messages"].([]string))
}

// stubService returns canned values so handler wiring can be exercised
// without a database.
type stubService struct {
	service.ServiceInterface

	searchCreators []model.Creator
	searchTotal    int
	searchErr      error
	gotFilters     model.SearchFilters
}

func (s *stubService) Search(_ context.Context, filters model.SearchFilters) ([]model.Creator, int, error) {
	s.gotFilters = filters
	return s.searchCreators, s.searchTotal, s.searchErr
}

func performRequest(h *Handler, method, target string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/creators", h.ListCreators)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestListCreatorsParsesFilters(t *testing.T) {
	stub := &stubService{
		searchCreators: []model.Creator{{ID: 1, Username: "alice"}},
		searchTotal:    1,
	}
	h := NewHandler(stub)

	w := performRequest(h, http.MethodGet,
		"/creators?keywords=travel,food&min_followers=1000&verified=true&limit=10&offset=5")

	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{"travel", "food"}, stub.gotFilters.Keywords)
	assert.Equal(t, int64(1000), stub.gotFilters.MinFollowers)
	require.NotNil(t, stub.gotFilters.IsVerified)
	assert.True(t, *stub.gotFilters.IsVerified)
	assert.Equal(t, 10, stub.gotFilters.Limit)
	assert.Equal(t, 5, stub.gotFilters.Offset)

	var body struct {
		Success bool `json:"success"`
		Meta    struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 1, body.Meta.Total)
	assert.True(t, strings.Contains(w.Body.String(), "alice"))
}

func TestListCreatorsDefaults(t *testing.T) {
	stub := &stubService{}
	h := NewHandler(stub)

	w := performRequest(h, http.MethodGet, "/creators")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100, stub.gotFilters.Limit)
	assert.Equal(t, 0, stub.gotFilters.Offset)
	assert.Nil(t, stub.gotFilters.IsVerified)
}

func TestListCreatorsRejectsOversizeLimit(t *testing.T) {
	stub := &stubService{}
	h := NewHandler(stub)

	// Limits above the cap fall back to the default instead of erroring.
	w := performRequest(h, http.MethodGet, "/creators?limit=5000")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100, stub.gotFilters.Limit)
}
