package criteria

// Ladder maps a metric to a grade 0-4. Thresholds hold the bound for grades
// 4, 3, 2 and 1 in that order.
type Ladder struct {
	Thresholds    [4]float64
	LowerIsBetter bool
	Option        bool
}

// AtLeast grades a metric that must reach a minimum for each grade.
func AtLeast(g4, g3, g2, g1 float64) Ladder {
	return Ladder{Thresholds: [4]float64{g4, g3, g2, g1}}
}

// AtMost grades a ratio where smaller is better (students per teacher).
func AtMost(g4, g3, g2, g1 float64) Ladder {
	return Ladder{Thresholds: [4]float64{g4, g3, g2, g1}, LowerIsBetter: true}
}

// OptionValue grades a 0-4 option directly.
func OptionValue() Ladder {
	return Ladder{Option: true}
}

// Grade returns the grade for value.
func (l Ladder) Grade(value float64) int {
	if l.Option {
		g := int(value)
		if g < 0 {
			return 0
		}
		if g > 4 {
			return 4
		}
		return g
	}
	for i, bound := range l.Thresholds {
		grade := 4 - i
		if l.LowerIsBetter {
			if value <= bound {
				return grade
			}
			continue
		}
		if value >= bound {
			return grade
		}
	}
	return 0
}
