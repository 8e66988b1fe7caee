package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/naac-sar-api/internal/models"
)

func TestScoreRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScoreRepository(db)

	upsert := regexp.QuoteMeta("INSERT INTO scores") + ".*" + regexp.QuoteMeta("ON CONFLICT (criteria_code, session)")
	mock.ExpectQuery(upsert).
		WithArgs("3.1.3", "03", "0301", "030103", 0.0, 0.0, 40.0, 4, 0.0, 2024, 2, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"sl_no", "inserted"}).AddRow(int64(11), true))

	score := &models.Score{
		CriteriaCode: "3.1.3", CriteriaID: "03", SubCriteriaID: "0301", SubSubCriteriaID: "030103",
		ScoreSubSubCriteria: 40, SubSubCrGrade: 4, Session: 2024, CycleYear: 2,
	}
	created, err := repo.Upsert(context.Background(), score)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(11), score.SlNo)
	assert.False(t, score.ComputedAt.IsZero())
}

func TestScoreRepositoryUpsertTotal(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScoreRepository(db)

	mock.ExpectQuery("INSERT INTO scores").
		WithArgs("00", 2.1, 2100.0, 2024, 2, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"sl_no"}).AddRow(int64(99)))

	score := &models.Score{ScoreCriteria: 2.1, WeightedCrScore: 2100, Session: 2024, CycleYear: 2}
	require.NoError(t, repo.UpsertTotal(context.Background(), score))
	assert.Equal(t, "00", score.CriteriaCode)
	assert.Equal(t, int64(99), score.SlNo)
}

func TestScoreRepositoryRollupQueries(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScoreRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE scores SET score_sub_criteria = $1 WHERE sub_criteria_id = $2 AND session = $3")).
		WithArgs(60.0, "0301", 2024).
		WillReturnResult(sqlmock.NewResult(0, 2))
	require.NoError(t, repo.SetSubCriterionScore(context.Background(), "0301", 2024, 60))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT sub_criteria_id, MAX(score_sub_criteria) AS score FROM scores")).
		WithArgs("03", 2024).
		WillReturnRows(sqlmock.NewRows([]string{"sub_criteria_id", "score"}).AddRow("0301", 60.0).AddRow("0302", 30.0))
	maxes, err := repo.MaxSubCriterionScores(context.Background(), "03", 2024)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"0301": 60, "0302": 30}, maxes)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE scores SET score_criteria = $1, weighted_cr_score = $2 WHERE criteria_id = $3 AND session = $4")).
		WithArgs(0.82, 164.0, "03", 2024).
		WillReturnResult(sqlmock.NewResult(0, 3))
	require.NoError(t, repo.SetCriterionScore(context.Background(), "03", 2024, 0.82, 164))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT criteria_id, MAX(weighted_cr_score) AS weighted FROM scores")).
		WithArgs(2024, "00").
		WillReturnRows(sqlmock.NewRows([]string{"criteria_id", "weighted"}).AddRow("03", 164.0))
	weighted, err := repo.MaxWeightedByCriterion(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, 164.0, weighted["03"])
	require.NoError(t, mock.ExpectationsWereMet())
}
