package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/naac-sar-api/internal/dto"
	"github.com/noah-isme/naac-sar-api/internal/middleware"
	"github.com/noah-isme/naac-sar-api/internal/models"
	"github.com/noah-isme/naac-sar-api/internal/service"
	appErrors "github.com/noah-isme/naac-sar-api/pkg/errors"
	"github.com/noah-isme/naac-sar-api/pkg/response"
)

type scoreListService interface {
	List(ctx context.Context, filter models.ScoreFilter) ([]models.Score, error)
}

type rollupService interface {
	SubCriterion(ctx context.Context, code string, session int) (*models.SubCriterionScore, error)
	Criterion(ctx context.Context, id string, session int) (*models.CriterionScore, error)
	Total(ctx context.Context, session int) (*models.TotalScore, error)
	Summary(ctx context.Context, session int) (*models.CollegeSummary, bool, error)
	Radar(ctx context.Context, session int) ([]models.RadarPoint, error)
}

type recomputeService interface {
	Enqueue(ctx context.Context, req dto.RecomputeRequest) (*models.RecomputeJob, error)
	Get(ctx context.Context, id string) (*models.RecomputeJob, error)
}

type scoreExportService interface {
	Export(ctx context.Context, format string, session int) (*service.ScoreReport, error)
}

// ScoreHandler exposes stored scores, rollups, recompute jobs and exports.
type ScoreHandler struct {
	scores    scoreListService
	rollups   rollupService
	recompute recomputeService
	exports   scoreExportService
}

// NewScoreHandler builds the handler.
func NewScoreHandler(scores scoreListService, rollups rollupService, recompute recomputeService, exports scoreExportService) *ScoreHandler {
	return &ScoreHandler{scores: scores, rollups: rollups, recompute: recompute, exports: exports}
}

func sessionQuery(c *gin.Context) (int, bool) {
	session, err := queryInt(c, "session")
	if err != nil {
		response.Error(c, err)
		return 0, false
	}
	return session, true
}

// List godoc
// @Summary List stored scores
// @Tags Scores
// @Produce json
// @Param session query int false "Session year, defaults to the current year"
// @Param criterion_id query string false "Criterion id, e.g. 03"
// @Success 200 {object} response.Envelope
// @Router /scores [get]
func (h *ScoreHandler) List(c *gin.Context) {
	session, ok := sessionQuery(c)
	if !ok {
		return
	}
	rows, err := h.scores.List(c.Request.Context(), models.ScoreFilter{Session: session, CriterionID: c.Query("criterion_id")})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// SubCriterion godoc
// @Summary Roll up a sub-criterion
// @Tags Scores
// @Produce json
// @Param code path string true "Sub-criterion code, e.g. 3.1"
// @Param session query int false "Session year"
// @Success 200 {object} response.Envelope
// @Router /scores/subcriteria/{code} [get]
func (h *ScoreHandler) SubCriterion(c *gin.Context) {
	session, ok := sessionQuery(c)
	if !ok {
		return
	}
	result, err := h.rollups.SubCriterion(c.Request.Context(), c.Param("code"), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Criterion godoc
// @Summary Roll up a criterion
// @Tags Scores
// @Produce json
// @Param id path string true "Criterion number, e.g. 3 or 03"
// @Param session query int false "Session year"
// @Success 200 {object} response.Envelope
// @Router /scores/criteria/{id} [get]
func (h *ScoreHandler) Criterion(c *gin.Context) {
	session, ok := sessionQuery(c)
	if !ok {
		return
	}
	result, err := h.rollups.Criterion(c.Request.Context(), c.Param("id"), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Total godoc
// @Summary Compute the institutional CGPA
// @Tags Scores
// @Produce json
// @Param session query int false "Session year"
// @Success 200 {object} response.Envelope
// @Router /scores/total [get]
func (h *ScoreHandler) Total(c *gin.Context) {
	session, ok := sessionQuery(c)
	if !ok {
		return
	}
	result, err := h.rollups.Total(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Summary godoc
// @Summary College score summary against the desired grade
// @Tags Scores
// @Produce json
// @Param session query int false "Session year"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /scores/summary [get]
func (h *ScoreHandler) Summary(c *gin.Context) {
	session, ok := sessionQuery(c)
	if !ok {
		return
	}
	summary, hit, err := h.rollups.Summary(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, summary, nil, middleware.ExtractMeta(c))
}

// Radar godoc
// @Summary Criterion radar chart
// @Tags Scores
// @Produce json
// @Param session query int false "Session year"
// @Success 200 {object} response.Envelope
// @Router /scores/radar [get]
func (h *ScoreHandler) Radar(c *gin.Context) {
	session, ok := sessionQuery(c)
	if !ok {
		return
	}
	points, err := h.rollups.Radar(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, points, nil)
}

// Recompute godoc
// @Summary Queue a bulk score recompute
// @Tags Scores
// @Accept json
// @Produce json
// @Param payload body dto.RecomputeRequest false "Codes to recompute, defaults to all"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /scores/recompute [post]
func (h *ScoreHandler) Recompute(c *gin.Context) {
	var req dto.RecomputeRequest
	if err := bindBody(c, &req); err != nil {
		response.Error(c, appErrors.Invalid(err, "invalid recompute payload"))
		return
	}
	job, err := h.recompute.Enqueue(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, job)
}

// RecomputeStatus godoc
// @Summary Recompute job status
// @Tags Scores
// @Produce json
// @Param id path string true "Job id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /scores/recompute/{id} [get]
func (h *ScoreHandler) RecomputeStatus(c *gin.Context) {
	job, err := h.recompute.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Export godoc
// @Summary Export session scores
// @Tags Scores
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf"
// @Param session query int false "Session year"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /scores/export [get]
func (h *ScoreHandler) Export(c *gin.Context) {
	var query dto.ScoreExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Invalid(err, "invalid export query"))
		return
	}
	report, err := h.exports.Export(c.Request.Context(), query.Format, query.Session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, report.Filename, report.ContentType, report.Body)
}
