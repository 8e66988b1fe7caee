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

type iiqaService interface {
	Create(ctx context.Context, req dto.CreateIIQARequest) (*models.IIQAFormDetails, bool, error)
	Sessions(ctx context.Context) ([]models.IIQASession, error)
	Latest(ctx context.Context) (*models.IIQAFormDetails, error)
}

// IIQAHandler exposes the institutional information form.
type IIQAHandler struct {
	service iiqaService
}

// NewIIQAHandler builds the handler.
func NewIIQAHandler(service iiqaService) *IIQAHandler {
	return &IIQAHandler{service: service}
}

// Create godoc
// @Summary Create or replace the IIQA form
// @Tags IIQA
// @Accept json
// @Produce json
// @Param payload body dto.CreateIIQARequest true "IIQA payload"
// @Success 201 {object} response.Envelope
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /iiqa/createIIQAForm [post]
func (h *IIQAHandler) Create(c *gin.Context) {
	var req dto.CreateIIQARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Invalid(err, "invalid IIQA payload"))
		return
	}
	form, created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if created {
		response.Created(c, form)
		return
	}
	response.JSON(c, http.StatusOK, form, nil)
}

// Sessions godoc
// @Summary List IIQA sessions
// @Tags IIQA
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /iiqa/sessions [get]
func (h *IIQAHandler) Sessions(c *gin.Context) {
	sessions, err := h.service.Sessions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, nil)
}

// Latest godoc
// @Summary Latest IIQA form with details
// @Tags IIQA
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /iiqa/latest [get]
func (h *IIQAHandler) Latest(c *gin.Context) {
	form, err := h.service.Latest(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, form, nil)
}
