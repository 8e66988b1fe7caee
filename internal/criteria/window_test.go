package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubmissionWindow(t *testing.T) {
	w := SubmissionWindow(2024, 5)
	assert.Equal(t, Window{Start: 2019, End: 2024}, w)
	assert.Equal(t, 6, w.Len())

	for year, want := range map[int]bool{2018: false, 2019: true, 2022: true, 2024: true, 2025: false} {
		assert.Equal(t, want, w.Contains(year), "session %d", year)
	}
}

func TestScoringWindow(t *testing.T) {
	w := ScoringWindow(2024, 5)
	assert.Equal(t, Window{Start: 2020, End: 2024}, w)
	assert.Equal(t, []int{2020, 2021, 2022, 2023, 2024}, w.Years())
	assert.False(t, w.Contains(2019))

	assert.Equal(t, Window{Start: 2024, End: 2024}, ScoringWindow(2024, 0))
}

func TestEmptyWindow(t *testing.T) {
	w := Window{Start: 2025, End: 2024}
	assert.Nil(t, w.Years())
	assert.Zero(t, w.Len())
	assert.False(t, w.Contains(2024))
}
