package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/naac-sar-api/internal/criteria"
	"github.com/noah-isme/naac-sar-api/internal/models"
	appErrors "github.com/noah-isme/naac-sar-api/pkg/errors"
)

type responseServiceStub struct {
	criterion int
	suffix    string
	body      map[string]interface{}
	slNo      int64
	raw       string
	filter    models.ResponseFilter
	err       error
}

func (s *responseServiceStub) Submit(_ context.Context, criterion int, suffix string, body map[string]interface{}) ([]models.ResponseWrite, error) {
	s.criterion, s.suffix, s.body = criterion, suffix, body
	if s.err != nil {
		return nil, s.err
	}
	return []models.ResponseWrite{{CriteriaCode: "3.1.3", Created: true, Row: models.ResponseRow{"sl_no": 1}}}, nil
}

func (s *responseServiceStub) Update(_ context.Context, criterion int, suffix string, slNo int64, body map[string]interface{}) (models.ResponseRow, error) {
	s.criterion, s.suffix, s.slNo, s.body = criterion, suffix, slNo, body
	if s.err != nil {
		return nil, s.err
	}
	return models.ResponseRow{"sl_no": slNo}, nil
}

func (s *responseServiceStub) List(_ context.Context, criterion int, raw string, filter models.ResponseFilter) ([]models.ResponseRow, *models.Pagination, error) {
	s.criterion, s.raw, s.filter = criterion, raw, filter
	if s.err != nil {
		return nil, nil, s.err
	}
	return []models.ResponseRow{{"sl_no": 7}}, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, nil
}

type metricScoreStub struct {
	code criteria.Code
	err  error
}

func (s *metricScoreStub) Score(_ context.Context, code criteria.Code) (*models.ScoreResult, error) {
	s.code = code
	if s.err != nil {
		return nil, s.err
	}
	return &models.ScoreResult{CriteriaCode: code.String(), Session: 2025, Metric: 50, Grade: 4}, nil
}

func responseRouter(responses *responseServiceStub, scores *metricScoreStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewCriteriaResponseHandler(responses, scores).Register(router.Group("/api/v1"))
	return router
}

func TestCriteriaResponseCreate(t *testing.T) {
	responses := &responseServiceStub{}
	router := responseRouter(responses, &metricScoreStub{})

	body, _ := json.Marshal(map[string]interface{}{"session": 2024, "workshop_name": "Research methodology"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/criteria3/createResponse313", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 3, responses.criterion)
	assert.Equal(t, "313", responses.suffix)
	assert.Equal(t, "Research methodology", responses.body["workshop_name"])
	assert.Contains(t, w.Body.String(), `"criteria_code":"3.1.3"`)
}

func TestCriteriaResponseCreateErrors(t *testing.T) {
	responses := &responseServiceStub{err: appErrors.Clone(appErrors.ErrDuplicateEntry, "Entry already exists for this key")}
	router := responseRouter(responses, &metricScoreStub{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/criteria3/createResponse313", bytes.NewReader([]byte(`{"session":2024}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/criteria3/createResponse313", bytes.NewReader([]byte(`not json`)))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCriteriaResponseUpdateAndList(t *testing.T) {
	responses := &responseServiceStub{}
	router := responseRouter(responses, &metricScoreStub{})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/criteria3/updateResponse313/12", bytes.NewReader([]byte(`{"session":2024}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(12), responses.slNo)

	req = httptest.NewRequest(http.MethodPut, "/api/v1/criteria3/updateResponse313/abc", bytes.NewReader([]byte(`{}`)))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/criteria3/getResponsesByCriteriaCode/3.1.3?session=2024&page=2&limit=5", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3.1.3", responses.raw)
	assert.Equal(t, models.ResponseFilter{Session: 2024, Page: 2, PageSize: 5}, responses.filter)
	assert.Contains(t, w.Body.String(), `"total_count":1`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/criteria3/getResponsesByCriteriaCode/3.1.3?page=-1", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCriteriaResponseScoreRoute(t *testing.T) {
	scores := &metricScoreStub{}
	router := responseRouter(&responseServiceStub{}, scores)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/criteria3/score313", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, criteria.Code("3.1.3"), scores.code)

	scores.err = appErrors.Clone(appErrors.ErrReferenceDataMissing, "Extended profile not found")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/criteria3/score313", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), appErrors.ErrReferenceDataMissing.Code)
}

func TestCriteriaResponseRoutesCoverRegistries(t *testing.T) {
	router := responseRouter(&responseServiceStub{}, &metricScoreStub{})
	routes := map[string]bool{}
	for _, r := range router.Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	for _, form := range criteria.Forms() {
		assert.True(t, routes["POST /api/v1/criteria"+strconv.Itoa(form.Criterion)+"/createResponse"+form.Suffix], form.Suffix)
	}
	for _, sc := range criteria.Scorers() {
		assert.True(t, routes["GET /api/v1/criteria"+strconv.Itoa(sc.Code.Criterion())+"/score"+sc.Code.Digits()], sc.Code.String())
	}
}
