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

type extendedProfileService interface {
	Create(ctx context.Context, req dto.CreateExtendedProfileRequest) (*models.ExtendedProfile, bool, error)
	List(ctx context.Context, year int) ([]models.ExtendedProfile, error)
}

// ExtendedProfileHandler exposes the yearly institutional counts.
type ExtendedProfileHandler struct {
	service extendedProfileService
}

// NewExtendedProfileHandler builds the handler.
func NewExtendedProfileHandler(service extendedProfileService) *ExtendedProfileHandler {
	return &ExtendedProfileHandler{service: service}
}

// Create godoc
// @Summary Create or update the extended profile
// @Tags Extended Profile
// @Accept json
// @Produce json
// @Param payload body dto.CreateExtendedProfileRequest true "Extended profile payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /extendedprofile/createExtendedProfile [post]
func (h *ExtendedProfileHandler) Create(c *gin.Context) {
	var req dto.CreateExtendedProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Invalid(err, "invalid extended profile payload"))
		return
	}
	profile, created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if created {
		response.Created(c, profile)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// List godoc
// @Summary List extended profiles of the latest IIQA form
// @Tags Extended Profile
// @Produce json
// @Param year query int false "Year"
// @Success 200 {object} response.Envelope
// @Router /extendedprofile [get]
func (h *ExtendedProfileHandler) List(c *gin.Context) {
	year, err := queryInt(c, "year")
	if err != nil {
		response.Error(c, err)
		return
	}
	profiles, err := h.service.List(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profiles, nil)
}
