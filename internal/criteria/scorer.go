package criteria

import (
	"context"
	"errors"
	"math"

	"github.com/noah-isme/naac-sar-api/internal/models"
)

// ErrReferenceMissing marks a denominator that depends on IIQA or extended
// profile data the institution has not submitted yet.
var ErrReferenceMissing = errors.New("reference data missing")

// AggFunc is the SQL aggregate applied to a response table.
type AggFunc string

const (
	Count         AggFunc = "COUNT"
	CountDistinct AggFunc = "COUNT_DISTINCT"
	Sum           AggFunc = "SUM"
)

// Equals restricts an aggregate to rows where Column = Value.
type Equals struct {
	Column string
	Value  string
}

// Query describes an aggregate over one response table inside a window.
type Query struct {
	Table string
	Func  AggFunc
	// Columns are added together for Sum; CountDistinct uses the first.
	Columns []string
	Where   *Equals
}

// LatestQuery selects columns from the newest row of a table in a window.
type LatestQuery struct {
	Table   string
	Columns []string
	// OrderBy defaults to session.
	OrderBy string
}

// Headcount is the student and teacher strength declared in the latest IIQA form.
type Headcount struct {
	Students float64
	Teachers float64
}

// Profiles are the extended profiles of the latest IIQA form keyed by year.
type Profiles struct {
	ByYear map[int]models.ExtendedProfile
	Latest *models.ExtendedProfile
}

// For returns the profile of year, falling back to the latest profile.
func (p Profiles) For(year int) (models.ExtendedProfile, bool) {
	if profile, ok := p.ByYear[year]; ok {
		return profile, true
	}
	if p.Latest != nil {
		return *p.Latest, true
	}
	return models.ExtendedProfile{}, false
}

// Source reads the data scoring rules aggregate over. Window filters on session.
type Source interface {
	Aggregate(ctx context.Context, q Query, w Window) (float64, error)
	AggregateBy(ctx context.Context, q Query, groupBy string, w Window) (map[int]float64, error)
	Latest(ctx context.Context, q LatestQuery, w Window) (map[string]float64, bool, error)
	Profiles(ctx context.Context) (Profiles, error)
	Headcount(ctx context.Context) (Headcount, error)
	ProgrammeTotal(ctx context.Context) (float64, error)
	DepartmentCount(ctx context.Context) (float64, error)
}

// Measurement is a metric and the inputs it was derived from. Empty means
// there was nothing to measure, which always grades 0.
type Measurement struct {
	Value  float64
	Empty  bool
	Inputs map[string]float64
}

// Scorer turns a code's stored responses into a metric and a grade.
type Scorer struct {
	Code    Code
	Metric  string
	Measure func(ctx context.Context, src Source, w Window) (Measurement, error)
	Ladder  Ladder
}

// Result is a graded measurement.
type Result struct {
	Measurement
	Grade int
}

// Evaluate measures and grades the code over w.
func (s Scorer) Evaluate(ctx context.Context, src Source, w Window) (Result, error) {
	m, err := s.Measure(ctx, src, w)
	if err != nil {
		return Result{}, err
	}
	if m.Inputs == nil {
		m.Inputs = map[string]float64{}
	}
	m.Value = Round(m.Value, 2)
	if m.Empty || math.IsNaN(m.Value) || math.IsInf(m.Value, 0) {
		return Result{Measurement: Measurement{Value: 0, Empty: true, Inputs: m.Inputs}}, nil
	}
	return Result{Measurement: m, Grade: s.Ladder.Grade(m.Value)}, nil
}

// Round rounds v to places decimals.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
