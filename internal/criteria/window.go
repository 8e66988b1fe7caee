package criteria

// Window is an inclusive range of session years.
type Window struct {
	Start int `json:"start_year"`
	End   int `json:"end_year"`
}

// SubmissionWindow is the range a stored session must fall in: [end-span, end].
func SubmissionWindow(endYear, span int) Window {
	return Window{Start: endYear - span, End: endYear}
}

// ScoringWindow covers the span most recent years ending at endYear.
func ScoringWindow(endYear, span int) Window {
	if span < 1 {
		span = 1
	}
	return Window{Start: endYear - span + 1, End: endYear}
}

// Contains reports whether year lies within the window.
func (w Window) Contains(year int) bool {
	return year >= w.Start && year <= w.End
}

// Years lists the window's years in ascending order.
func (w Window) Years() []int {
	if w.End < w.Start {
		return nil
	}
	years := make([]int, 0, w.End-w.Start+1)
	for y := w.Start; y <= w.End; y++ {
		years = append(years, y)
	}
	return years
}

// Len is the number of years covered.
func (w Window) Len() int {
	return len(w.Years())
}
