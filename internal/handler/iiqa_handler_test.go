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
	"github.com/noah-isme/naac-sar-api/internal/models"
	appErrors "github.com/noah-isme/naac-sar-api/pkg/errors"
)

type iiqaServiceStub struct {
	created bool
	req     dto.CreateIIQARequest
	err     error
}

func (s *iiqaServiceStub) Create(_ context.Context, req dto.CreateIIQARequest) (*models.IIQAFormDetails, bool, error) {
	s.req = req
	if s.err != nil {
		return nil, false, s.err
	}
	details := &models.IIQAFormDetails{}
	details.InstitutionID = req.InstitutionID
	return details, s.created, nil
}

func (s *iiqaServiceStub) Sessions(context.Context) ([]models.IIQASession, error) {
	return []models.IIQASession{{SessionStartYear: 2019, SessionEndYear: 2024, YearFilled: 2024, DesiredGrade: "A"}}, nil
}

func (s *iiqaServiceStub) Latest(context.Context) (*models.IIQAFormDetails, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.IIQAFormDetails{}, nil
}

func TestIIQAHandlerCreateStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &iiqaServiceStub{created: true}
	handler := NewIIQAHandler(svc)

	body, _ := json.Marshal(map[string]interface{}{"institution_id": 1, "session_start_year": 2019, "session_end_year": 2024})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/iiqa/createIIQAForm", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(1), svc.req.InstitutionID)
	assert.Equal(t, 2024, svc.req.SessionEndYear)

	svc.created = false
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/iiqa/createIIQAForm", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	handler.Create(c)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIIQAHandlerReads(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &iiqaServiceStub{}
	handler := NewIIQAHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/iiqa/sessions", nil)
	handler.Sessions(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"year_filled":2024`)

	svc.err = appErrors.Clone(appErrors.ErrNotFound, "No IIQA form found")
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/iiqa/latest", nil)
	handler.Latest(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type profileServiceStub struct {
	year int
	err  error
}

func (s *profileServiceStub) Create(_ context.Context, req dto.CreateExtendedProfileRequest) (*models.ExtendedProfile, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	return &models.ExtendedProfile{Year: req.Year}, true, nil
}

func (s *profileServiceStub) List(_ context.Context, year int) ([]models.ExtendedProfile, error) {
	s.year = year
	return []models.ExtendedProfile{{Year: year}}, nil
}

func TestExtendedProfileHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &profileServiceStub{err: appErrors.Validationf("year must match the IIQA year_filled %d", 2024)}
	handler := NewExtendedProfileHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/extendedprofile/createExtendedProfile", bytes.NewReader([]byte(`{"year":2023}`)))
	c.Request.Header.Set("Content-Type", "application/json")
	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/extendedprofile?year=2024", nil)
	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2024, svc.year)
}
