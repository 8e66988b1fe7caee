package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/naac-sar-api/internal/models"
	appErrors "github.com/noah-isme/naac-sar-api/pkg/errors"
	"github.com/noah-isme/naac-sar-api/pkg/export"
)

type scoreLister interface {
	List(ctx context.Context, filter models.ScoreFilter) ([]models.Score, error)
	Session() int
}

// ScoreReport is a rendered score export.
type ScoreReport struct {
	Filename    string
	ContentType string
	Body        []byte
}

var scoreReportHeaders = []string{
	"Criteria Code", "Criterion", "Sub-criterion", "Metric Id", "Metric", "Grade",
	"Sub-criterion Score", "Criterion Score", "Weighted Score",
}

var scoreReportNumeric = []string{"Metric", "Grade", "Sub-criterion Score", "Criterion Score", "Weighted Score"}

// ScoreReportService renders a session's scores as CSV or PDF.
type ScoreReportService struct {
	scores scoreLister
}

func NewScoreReportService(scores scoreLister) *ScoreReportService {
	return &ScoreReportService{scores: scores}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Export renders the scores of session, defaulting to the current one. Format defaults to csv.
func (s *ScoreReportService) Export(ctx context.Context, format string, session int) (*ScoreReport, error) {
	if strings.TrimSpace(format) == "" {
		format = "csv"
	}
	renderer, err := export.Lookup(format)
	if err != nil {
		return nil, appErrors.Invalid(err, err.Error())
	}
	if session <= 0 {
		session = s.scores.Session()
	}
	rows, err := s.scores.List(ctx, models.ScoreFilter{Session: session})
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Title:    fmt.Sprintf("NAAC Scores %d", session),
		Subtitle: fmt.Sprintf("%d scored metrics", len(rows)),
		Headers:  scoreReportHeaders,
		Rows:     make([]map[string]string, 0, len(rows)),
		Numeric:  scoreReportNumeric,
	}
	for _, r := range rows {
		data.Rows = append(data.Rows, map[string]string{
			"Criteria Code":       r.CriteriaCode,
			"Criterion":           r.CriteriaID,
			"Sub-criterion":       r.SubCriteriaID,
			"Metric Id":           r.SubSubCriteriaID,
			"Metric":              formatFloat(r.ScoreSubSubCriteria),
			"Grade":               strconv.Itoa(r.SubSubCrGrade),
			"Sub-criterion Score": formatFloat(r.ScoreSubCriteria),
			"Criterion Score":     formatFloat(r.ScoreCriteria),
			"Weighted Score":      formatFloat(r.WeightedCrScore),
		})
	}
	body, err := renderer.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render score report")
	}
	return &ScoreReport{
		Filename:    fmt.Sprintf("naac-scores-%d.%s", session, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}
