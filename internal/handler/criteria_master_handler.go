package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/naac-sar-api/internal/dto"
	"github.com/noah-isme/naac-sar-api/internal/models"
	appErrors "github.com/noah-isme/naac-sar-api/pkg/errors"
	"github.com/noah-isme/naac-sar-api/pkg/response"
)

type criteriaMasterService interface {
	List(ctx context.Context, filter models.CriteriaMasterFilter) ([]models.CriteriaMaster, error)
	Get(ctx context.Context, code string) (*models.CriteriaMaster, error)
	Create(ctx context.Context, req dto.CriteriaMasterRequest) (*models.CriteriaMaster, error)
	Update(ctx context.Context, id int64, req dto.CriteriaMasterRequest) (*models.CriteriaMaster, error)
	Delete(ctx context.Context, id int64) error
}

// CriteriaMasterHandler exposes the criteria hierarchy.
type CriteriaMasterHandler struct {
	service criteriaMasterService
}

// NewCriteriaMasterHandler builds the handler.
func NewCriteriaMasterHandler(service criteriaMasterService) *CriteriaMasterHandler {
	return &CriteriaMasterHandler{service: service}
}

// List godoc
// @Summary List criteria
// @Tags Criteria
// @Produce json
// @Param criterion_id query string false "Criterion id, e.g. 03"
// @Success 200 {object} response.Envelope
// @Router /criteria [get]
func (h *CriteriaMasterHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), models.CriteriaMasterFilter{CriterionID: c.Query("criterion_id")})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get criteria by dotted code
// @Tags Criteria
// @Produce json
// @Param code path string true "Criteria code, e.g. 3.1.3"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /criteria/{code} [get]
func (h *CriteriaMasterHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create criteria
// @Tags Criteria
// @Accept json
// @Produce json
// @Param payload body dto.CriteriaMasterRequest true "Criteria payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /criteria [post]
func (h *CriteriaMasterHandler) Create(c *gin.Context) {
	var req dto.CriteriaMasterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Invalid(err, "invalid criteria payload"))
		return
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update criteria
// @Tags Criteria
// @Accept json
// @Produce json
// @Param id path int true "Criteria id"
// @Param payload body dto.CriteriaMasterRequest true "Criteria payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /criteria/{id} [put]
func (h *CriteriaMasterHandler) Update(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CriteriaMasterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Invalid(err, "invalid criteria payload"))
		return
	}
	item, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete criteria
// @Tags Criteria
// @Param id path int true "Criteria id"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /criteria/{id} [delete]
func (h *CriteriaMasterHandler) Delete(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
