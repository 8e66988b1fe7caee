package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/naac-sar-api/internal/models"
)

func iiqaDetails() *models.IIQAFormDetails {
	return &models.IIQAFormDetails{
		IIQAForm: models.IIQAForm{
			InstitutionID: 1, SessionStartYear: 2019, SessionEndYear: 2024, YearFilled: 2024,
			NAACCycle: 2, DesiredGrade: "A", Status: models.IIQAStatusSubmitted,
		},
		ProgrammeCount: &models.IIQAProgrammeCount{UG: 4, PG: 2},
		StaffDetails:   &models.IIQAStaffDetails{PermMale: 10, PermFemale: 12},
		StudentDetails: &models.IIQAStudentDetails{RegularMale: 300, RegularFemale: 320},
		Departments: []models.IIQADepartment{
			{Department: "Physics", Program: "BSc", University: "State University", AffiliationStatus: "Permanent"},
		},
	}
}

func TestIIQARepositorySave(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewIIQARepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO iiqa_form").
		WithArgs(int64(1), 2019, 2024, 2024, 2, "A", false, nil, models.IIQAStatusSubmitted, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "inserted"}).AddRow(int64(5), now, now, true))
	mock.ExpectExec("INSERT INTO iiqa_programme_count").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO iiqa_staff_details").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO iiqa_student_details").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM iiqa_departments").WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery("INSERT INTO iiqa_departments").
		WithArgs(int64(5), "Physics", "BSc", "State University", "Permanent").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(31)))
	mock.ExpectCommit()

	details := iiqaDetails()
	created, err := repo.Save(context.Background(), details)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(5), details.ID)
	assert.Equal(t, int64(5), details.StaffDetails.IIQAFormID)
	assert.Equal(t, int64(31), details.Departments[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIIQARepositorySaveRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewIIQARepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO iiqa_form").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "inserted"}).AddRow(int64(5), now, now, false))
	mock.ExpectExec("INSERT INTO iiqa_programme_count").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	_, err := repo.Save(context.Background(), iiqaDetails())
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIIQARepositorySessions(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewIIQARepository(db)

	mock.ExpectQuery("SELECT DISTINCT session_start_year").
		WillReturnRows(sqlmock.NewRows([]string{"session_start_year", "session_end_year", "year_filled", "desired_grade"}).
			AddRow(2019, 2024, 2024, "A").AddRow(2014, 2019, 2019, "B+"))

	sessions, err := repo.Sessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, 2024, sessions[0].YearFilled)
}
