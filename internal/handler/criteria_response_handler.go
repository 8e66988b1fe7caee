package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/naac-sar-api/internal/criteria"
	"github.com/noah-isme/naac-sar-api/internal/models"
	appErrors "github.com/noah-isme/naac-sar-api/pkg/errors"
	"github.com/noah-isme/naac-sar-api/pkg/response"
)

type responseService interface {
	Submit(ctx context.Context, criterion int, suffix string, body map[string]interface{}) ([]models.ResponseWrite, error)
	Update(ctx context.Context, criterion int, suffix string, slNo int64, body map[string]interface{}) (models.ResponseRow, error)
	List(ctx context.Context, criterion int, raw string, filter models.ResponseFilter) ([]models.ResponseRow, *models.Pagination, error)
}

type metricScoreService interface {
	Score(ctx context.Context, code criteria.Code) (*models.ScoreResult, error)
}

// CriteriaResponseHandler serves the per-criterion submission, retrieval and scoring routes.
type CriteriaResponseHandler struct {
	responses responseService
	scores    metricScoreService
}

// NewCriteriaResponseHandler builds the handler.
func NewCriteriaResponseHandler(responses responseService, scores metricScoreService) *CriteriaResponseHandler {
	return &CriteriaResponseHandler{responses: responses, scores: scores}
}

// Register mounts one create and update route per registered form, one score route per
// scored metric and the retrieval route of every criterion.
func (h *CriteriaResponseHandler) Register(group gin.IRouter) {
	for _, form := range criteria.Forms() {
		base := fmt.Sprintf("/criteria%d", form.Criterion)
		group.POST(base+"/createResponse"+form.Suffix, h.Create(form.Criterion, form.Suffix))
		if len(form.Targets) == 1 {
			group.PUT(base+"/updateResponse"+form.Suffix+"/:slNo", h.Update(form.Criterion, form.Suffix))
		}
	}
	for _, sc := range criteria.Scorers() {
		group.GET(fmt.Sprintf("/criteria%d/score%s", sc.Code.Criterion(), sc.Code.Digits()), h.Score(sc.Code))
	}
	for _, n := range criteria.Criteria() {
		group.GET(fmt.Sprintf("/criteria%d/getResponsesByCriteriaCode/:criteriaCode", n), h.List(n))
	}
}

// Create godoc
// @Summary Submit a criterion response
// @Description Validates the payload against the form of the route suffix and writes every target table.
// @Tags Criteria Responses
// @Accept json
// @Produce json
// @Param criterion path int true "Criterion number"
// @Param suffix path string true "Form suffix, e.g. 313"
// @Param payload body object true "Form fields"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /criteria{criterion}/createResponse{suffix} [post]
func (h *CriteriaResponseHandler) Create(criterion int, suffix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body map[string]interface{}
		if err := c.ShouldBindJSON(&body); err != nil {
			response.Error(c, appErrors.Invalid(err, "invalid response payload"))
			return
		}
		writes, err := h.responses.Submit(c.Request.Context(), criterion, suffix, body)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, writes)
	}
}

// Update godoc
// @Summary Update a stored criterion response
// @Tags Criteria Responses
// @Accept json
// @Produce json
// @Param criterion path int true "Criterion number"
// @Param suffix path string true "Form suffix"
// @Param slNo path int true "Row serial number"
// @Param payload body object true "Form fields"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /criteria{criterion}/updateResponse{suffix}/{slNo} [put]
func (h *CriteriaResponseHandler) Update(criterion int, suffix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		slNo, err := paramID(c, "slNo")
		if err != nil {
			response.Error(c, err)
			return
		}
		var body map[string]interface{}
		if err := c.ShouldBindJSON(&body); err != nil {
			response.Error(c, appErrors.Invalid(err, "invalid response payload"))
			return
		}
		row, err := h.responses.Update(c.Request.Context(), criterion, suffix, slNo, body)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, row, nil)
	}
}

// Score godoc
// @Summary Compute a metric score
// @Description Measures the metric over the scoring window, grades it and stores the score for the current session.
// @Tags Criteria Responses
// @Produce json
// @Param criterion path int true "Criterion number"
// @Param digits path string true "Metric code digits, e.g. 313"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /criteria{criterion}/score{digits} [get]
func (h *CriteriaResponseHandler) Score(code criteria.Code) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := h.scores.Score(c.Request.Context(), code)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, result, nil)
	}
}

// List godoc
// @Summary List responses by criteria code
// @Tags Criteria Responses
// @Produce json
// @Param criterion path int true "Criterion number"
// @Param criteriaCode path string true "Dotted criteria code, e.g. 3.1.3"
// @Param session query int false "Session year"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /criteria{criterion}/getResponsesByCriteriaCode/{criteriaCode} [get]
func (h *CriteriaResponseHandler) List(criterion int) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.ResponseFilter
		var err error
		if filter.Session, err = queryInt(c, "session"); err != nil {
			response.Error(c, err)
			return
		}
		if filter.Page, err = queryInt(c, "page"); err != nil {
			response.Error(c, err)
			return
		}
		if filter.PageSize, err = queryInt(c, "limit"); err != nil {
			response.Error(c, err)
			return
		}
		rows, pagination, err := h.responses.List(c.Request.Context(), criterion, c.Param("criteriaCode"), filter)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, rows, pagination)
	}
}
