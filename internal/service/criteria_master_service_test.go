package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/naac-sar-api/internal/dto"
	"github.com/noah-isme/naac-sar-api/internal/models"
	appErrors "github.com/noah-isme/naac-sar-api/pkg/errors"
)

type criteriaMasterRepoStub struct {
	items   map[string]models.CriteriaMaster
	created *models.CriteriaMaster
	filter  models.CriteriaMasterFilter
	err     error
	delErr  error
}

func (s *criteriaMasterRepoStub) List(_ context.Context, filter models.CriteriaMasterFilter) ([]models.CriteriaMaster, error) {
	s.filter = filter
	out := []models.CriteriaMaster{}
	for _, item := range s.items {
		out = append(out, item)
	}
	return out, nil
}

func (s *criteriaMasterRepoStub) FindByCode(_ context.Context, code string) (*models.CriteriaMaster, error) {
	if item, ok := s.items[code]; ok {
		return &item, nil
	}
	return nil, sql.ErrNoRows
}

func (s *criteriaMasterRepoStub) FindByCodes(_ context.Context, codes []string) (map[string]models.CriteriaMaster, error) {
	out := map[string]models.CriteriaMaster{}
	for _, code := range codes {
		if item, ok := s.items[code]; ok {
			out[code] = item
		}
	}
	return out, nil
}

func (s *criteriaMasterRepoStub) FindByID(_ context.Context, id int64) (*models.CriteriaMaster, error) {
	for _, item := range s.items {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *criteriaMasterRepoStub) Create(_ context.Context, item *models.CriteriaMaster) error {
	if s.err != nil {
		return s.err
	}
	item.ID = 42
	s.created = item
	return nil
}

func (s *criteriaMasterRepoStub) Update(_ context.Context, item *models.CriteriaMaster) error {
	if _, err := s.FindByID(context.Background(), item.ID); err != nil {
		return err
	}
	s.items[item.CriteriaCode] = *item
	return nil
}

func (s *criteriaMasterRepoStub) Delete(_ context.Context, id int64) error {
	if s.delErr != nil {
		return s.delErr
	}
	if _, err := s.FindByID(context.Background(), id); err != nil {
		return err
	}
	return nil
}

func TestCriteriaMasterServiceCreateDerivesIDs(t *testing.T) {
	repo := &criteriaMasterRepoStub{}
	svc := NewCriteriaMasterService(repo, nil, nil)

	item, err := svc.Create(context.Background(), dto.CriteriaMasterRequest{
		CriteriaCode:  "7.1.10",
		CriterionName: "Institutional Values and Best Practices",
		CriteriaType:  "Ql",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), item.ID)
	assert.Equal(t, "07", repo.created.CriterionID)
	assert.Equal(t, "0701", repo.created.SubCriterionID)
	assert.Equal(t, "070110", repo.created.SubSubCriterionID)
}

func TestCriteriaMasterServiceCreateErrors(t *testing.T) {
	svc := NewCriteriaMasterService(&criteriaMasterRepoStub{}, nil, nil)
	_, err := svc.Create(context.Background(), dto.CriteriaMasterRequest{CriteriaCode: "9.1", CriterionName: "x", CriteriaType: "Qn"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), dto.CriteriaMasterRequest{CriteriaCode: "1.1", CriterionName: "x", CriteriaType: "Other"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	dup := NewCriteriaMasterService(&criteriaMasterRepoStub{err: &pq.Error{Code: "23505"}}, nil, nil)
	_, err = dup.Create(context.Background(), dto.CriteriaMasterRequest{CriteriaCode: "1.1", CriterionName: "x", CriteriaType: "Qn"})
	assert.Equal(t, appErrors.ErrDuplicateEntry.Code, appErrors.FromError(err).Code)
}

func TestCriteriaMasterServiceGetAndDelete(t *testing.T) {
	repo := &criteriaMasterRepoStub{items: map[string]models.CriteriaMaster{"3.1.3": {ID: 7, CriteriaCode: "3.1.3"}}}
	svc := NewCriteriaMasterService(repo, nil, nil)

	item, err := svc.Get(context.Background(), "3.1.3")
	require.NoError(t, err)
	assert.Equal(t, int64(7), item.ID)

	_, err = svc.Get(context.Background(), "3.1.4")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	assert.NoError(t, svc.Delete(context.Background(), 7))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(svc.Delete(context.Background(), 8)).Code)

	repo.delErr = &pq.Error{Code: "23503"}
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(svc.Delete(context.Background(), 7)).Code)
	repo.delErr = nil

	_, err = svc.List(context.Background(), models.CriteriaMasterFilter{CriterionID: "3"})
	require.NoError(t, err)
	assert.Equal(t, "03", repo.filter.CriterionID)
}
