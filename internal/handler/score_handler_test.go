package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/naac-sar-api/internal/dto"
	"github.com/noah-isme/naac-sar-api/internal/middleware"
	"github.com/noah-isme/naac-sar-api/internal/models"
	"github.com/noah-isme/naac-sar-api/internal/service"
	appErrors "github.com/noah-isme/naac-sar-api/pkg/errors"
	"github.com/noah-isme/naac-sar-api/pkg/response"
)

type scoreListStub struct{ filter models.ScoreFilter }

func (s *scoreListStub) List(_ context.Context, filter models.ScoreFilter) ([]models.Score, error) {
	s.filter = filter
	return []models.Score{{CriteriaCode: "3.1.3", Session: 2025}}, nil
}

type rollupStub struct {
	session int
	code    string
	hit     bool
	err     error
}

func (s *rollupStub) SubCriterion(_ context.Context, code string, session int) (*models.SubCriterionScore, error) {
	s.code, s.session = code, session
	return &models.SubCriterionScore{Code: code, Session: session}, s.err
}

func (s *rollupStub) Criterion(_ context.Context, id string, session int) (*models.CriterionScore, error) {
	s.code, s.session = id, session
	return &models.CriterionScore{CriterionID: id, Session: session}, s.err
}

func (s *rollupStub) Total(_ context.Context, session int) (*models.TotalScore, error) {
	s.session = session
	return &models.TotalScore{Session: session, GPA: 2.3, Grade: "A++"}, s.err
}

func (s *rollupStub) Summary(_ context.Context, session int) (*models.CollegeSummary, bool, error) {
	s.session = session
	if s.err != nil {
		return nil, false, s.err
	}
	return &models.CollegeSummary{Session: session, DesiredGrade: "A"}, s.hit, nil
}

func (s *rollupStub) Radar(_ context.Context, session int) ([]models.RadarPoint, error) {
	s.session = session
	return []models.RadarPoint{{ID: "01", Max: 1}}, s.err
}

type recomputeStub struct {
	req dto.RecomputeRequest
	err error
}

func (s *recomputeStub) Enqueue(_ context.Context, req dto.RecomputeRequest) (*models.RecomputeJob, error) {
	s.req = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.RecomputeJob{ID: "job-1", Status: models.RecomputeQueued, Codes: req.Codes}, nil
}

func (s *recomputeStub) Get(_ context.Context, id string) (*models.RecomputeJob, error) {
	if id != "job-1" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "recompute job not found")
	}
	return &models.RecomputeJob{ID: id, Status: models.RecomputeCompleted}, nil
}

type exportStub struct {
	format  string
	session int
}

func (s *exportStub) Export(_ context.Context, format string, session int) (*service.ScoreReport, error) {
	s.format, s.session = format, session
	if format == "xlsx" {
		return nil, appErrors.Validationf("unsupported export format %q", format)
	}
	return &service.ScoreReport{Filename: "naac-scores-2024.csv", ContentType: "text/csv", Body: []byte("Criteria Code\n")}, nil
}

type scoreFixture struct {
	router    *gin.Engine
	scores    *scoreListStub
	rollups   *rollupStub
	recompute *recomputeStub
	exports   *exportStub
}

func newScoreFixture() *scoreFixture {
	gin.SetMode(gin.TestMode)
	f := &scoreFixture{scores: &scoreListStub{}, rollups: &rollupStub{}, recompute: &recomputeStub{}, exports: &exportStub{}}
	h := NewScoreHandler(f.scores, f.rollups, f.recompute, f.exports)
	f.router = gin.New()
	f.router.Use(middleware.WithResponseMeta())
	group := f.router.Group("/scores")
	group.GET("", h.List)
	group.GET("/subcriteria/:code", h.SubCriterion)
	group.GET("/criteria/:id", h.Criterion)
	group.GET("/total", h.Total)
	group.GET("/summary", h.Summary)
	group.GET("/radar", h.Radar)
	group.POST("/recompute", h.Recompute)
	group.GET("/recompute/:id", h.RecomputeStatus)
	group.GET("/export", h.Export)
	return f
}

func (f *scoreFixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestScoreHandlerReads(t *testing.T) {
	f := newScoreFixture()

	w := f.do(httptest.NewRequest(http.MethodGet, "/scores?session=2024&criterion_id=03", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ScoreFilter{Session: 2024, CriterionID: "03"}, f.scores.filter)

	w = f.do(httptest.NewRequest(http.MethodGet, "/scores/subcriteria/3.1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3.1", f.rollups.code)
	assert.Equal(t, 0, f.rollups.session)

	w = f.do(httptest.NewRequest(http.MethodGet, "/scores/criteria/03?session=2023", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "03", f.rollups.code)
	assert.Equal(t, 2023, f.rollups.session)

	w = f.do(httptest.NewRequest(http.MethodGet, "/scores/total", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"grade":"A++"`)

	w = f.do(httptest.NewRequest(http.MethodGet, "/scores/radar", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(httptest.NewRequest(http.MethodGet, "/scores/total?session=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScoreHandlerSummaryCacheMeta(t *testing.T) {
	f := newScoreFixture()
	f.rollups.hit = true

	w := f.do(httptest.NewRequest(http.MethodGet, "/scores/summary", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Meta["cache_hit"])

	f.rollups.err = appErrors.Clone(appErrors.ErrNotFound, "No IIQA form found")
	w = f.do(httptest.NewRequest(http.MethodGet, "/scores/summary", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScoreHandlerRecompute(t *testing.T) {
	f := newScoreFixture()

	w := f.do(httptest.NewRequest(http.MethodPost, "/scores/recompute", nil))
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Empty(t, f.recompute.req.Codes)

	body, _ := json.Marshal(dto.RecomputeRequest{Codes: []string{"3.1.3"}})
	req := httptest.NewRequest(http.MethodPost, "/scores/recompute", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = f.do(req)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{"3.1.3"}, f.recompute.req.Codes)
	assert.Contains(t, w.Body.String(), `"id":"job-1"`)

	w = f.do(httptest.NewRequest(http.MethodGet, "/scores/recompute/job-1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"completed"`)

	w = f.do(httptest.NewRequest(http.MethodGet, "/scores/recompute/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScoreHandlerExport(t *testing.T) {
	f := newScoreFixture()

	w := f.do(httptest.NewRequest(http.MethodGet, "/scores/export?format=csv&session=2024", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", f.exports.format)
	assert.Equal(t, 2024, f.exports.session)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "naac-scores-2024.csv")

	w = f.do(httptest.NewRequest(http.MethodGet, "/scores/export?format=xlsx", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
