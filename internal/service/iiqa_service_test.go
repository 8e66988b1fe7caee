package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/naac-sar-api/internal/criteria"
	"github.com/noah-isme/naac-sar-api/internal/dto"
	"github.com/noah-isme/naac-sar-api/internal/models"
	appErrors "github.com/noah-isme/naac-sar-api/pkg/errors"
)

type memoryCache struct {
	items       map[string][]byte
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) bool {
	raw, ok := c.items[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) {
	raw, _ := json.Marshal(value)
	c.items[key] = raw
}

func (c *memoryCache) Invalidate(_ context.Context, pattern string) {
	c.invalidated = append(c.invalidated, pattern)
	c.items = map[string][]byte{}
}

type iiqaRepoStub struct {
	latest     *models.IIQAForm
	latestHits int
	saved      *models.IIQAFormDetails
	sessions   []models.IIQASession
	err        error
}

func (s *iiqaRepoStub) Latest(context.Context) (*models.IIQAForm, error) {
	s.latestHits++
	if s.err != nil {
		return nil, s.err
	}
	if s.latest == nil {
		return nil, sql.ErrNoRows
	}
	return s.latest, nil
}

func (s *iiqaRepoStub) Sessions(context.Context) ([]models.IIQASession, error) {
	return s.sessions, s.err
}

func (s *iiqaRepoStub) Details(_ context.Context, form models.IIQAForm) (*models.IIQAFormDetails, error) {
	return &models.IIQAFormDetails{IIQAForm: form, Departments: []models.IIQADepartment{{Department: "Physics"}}}, nil
}

func (s *iiqaRepoStub) Save(_ context.Context, details *models.IIQAFormDetails) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	details.ID = 11
	s.saved = details
	return true, nil
}

func boolPtr(v bool) *bool { return &v }

func validIIQARequest() dto.CreateIIQARequest {
	return dto.CreateIIQARequest{
		InstitutionID:    1,
		SessionStartYear: 2019,
		SessionEndYear:   2024,
		YearFilled:       2024,
		NAACCycle:        2,
		DesiredGrade:     "a+",
		HasMOU:           boolPtr(false),
		Departments: []dto.IIQADepartmentRequest{
			{Department: "Physics", Program: "BSc", University: "State University", AffiliationStatus: "Permanent"},
		},
		StaffDetails: &dto.IIQAStaffRequest{PermMale: 10, OtherFemale: 4},
	}
}

func TestIIQAServiceCreate(t *testing.T) {
	repo := &iiqaRepoStub{}
	cache := newMemoryCache()
	svc := NewIIQAService(repo, cache, nil, nil, IIQAConfig{})

	details, created, err := svc.Create(context.Background(), validIIQARequest())
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(11), details.ID)
	assert.Equal(t, "A+", repo.saved.DesiredGrade)
	assert.Equal(t, models.IIQAStatusSubmitted, repo.saved.Status)
	assert.Nil(t, repo.saved.MOUFileURL)
	require.NotNil(t, repo.saved.StaffDetails)
	assert.Equal(t, 14, repo.saved.StaffDetails.Teachers())
	assert.Contains(t, cache.invalidated, cycleCacheKey)
	assert.Contains(t, cache.invalidated, scoresCachePattern)
}

func TestIIQAServiceCreateValidation(t *testing.T) {
	svc := NewIIQAService(&iiqaRepoStub{}, nil, nil, nil, IIQAConfig{})

	cases := map[string]func(*dto.CreateIIQARequest){
		"mou url missing":  func(r *dto.CreateIIQARequest) { r.HasMOU = boolPtr(true) },
		"unknown grade":    func(r *dto.CreateIIQARequest) { r.DesiredGrade = "Z" },
		"end before start": func(r *dto.CreateIIQARequest) { r.SessionEndYear = 2018 },
		"no departments":   func(r *dto.CreateIIQARequest) { r.Departments = nil },
		"has_mou absent":   func(r *dto.CreateIIQARequest) { r.HasMOU = nil },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validIIQARequest()
			mutate(&req)
			_, _, err := svc.Create(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestIIQAServiceCycleIsCached(t *testing.T) {
	repo := &iiqaRepoStub{latest: &models.IIQAForm{ID: 3, SessionEndYear: 2024, YearFilled: 2024, NAACCycle: 2, DesiredGrade: "A"}}
	svc := NewIIQAService(repo, newMemoryCache(), nil, nil, IIQAConfig{SubmissionSpan: 5, ScoringSpan: 5})

	cycle, err := svc.Cycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), cycle.FormID)

	window, err := svc.SubmissionWindow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, criteria.Window{Start: 2019, End: 2024}, window)

	scoring, _, err := svc.ScoringWindow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, criteria.Window{Start: 2020, End: 2024}, scoring)
	assert.Equal(t, 1, repo.latestHits)
}

func TestIIQAServiceNoForm(t *testing.T) {
	svc := NewIIQAService(&iiqaRepoStub{}, nil, nil, nil, IIQAConfig{})

	_, err := svc.Cycle(context.Background())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "No IIQA form found", appErr.Message)

	_, err = svc.Latest(context.Background())
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
