package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/naac-sar-api/pkg/errors"
)

func TestScoreReportServiceCSV(t *testing.T) {
	repo := newScoreRepoStub(metricRow("1.1.3", "01", "0101", "010103", 3))
	scores := NewScoreService(repo, nil, nil, nil, nil, nil, nil).WithClock(scoringClock)
	svc := NewScoreReportService(scores)

	report, err := svc.Export(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Equal(t, "naac-scores-2025.csv", report.Filename)
	assert.Equal(t, "text/csv", report.ContentType)

	lines := strings.Split(strings.TrimSpace(string(report.Body)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Criteria Code,Criterion,Sub-criterion"))
	assert.Equal(t, "1.1.3,01,0101,010103,0,3,0,0,0", lines[1])
}

func TestScoreReportServicePDF(t *testing.T) {
	repo := newScoreRepoStub(metricRow("1.1.3", "01", "0101", "010103", 3))
	svc := NewScoreReportService(NewScoreService(repo, nil, nil, nil, nil, nil, nil).WithClock(scoringClock))

	report, err := svc.Export(context.Background(), "PDF", 2025)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", report.ContentType)
	assert.True(t, strings.HasPrefix(string(report.Body), "%PDF"))

	_, err = svc.Export(context.Background(), "xlsx", 2025)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
