package criteria

import (
	"fmt"
	"time"
)

// Policy decides what a second submission of the same natural key does.
type Policy int

const (
	// Upsert overwrites the mutable columns of the stored row.
	Upsert Policy = iota
	// Reject refuses the duplicate with DUPLICATE_ENTRY.
	Reject
)

func (p Policy) String() string {
	if p == Reject {
		return "reject"
	}
	return "upsert"
}

// Target is one response table written by a form.
type Target struct {
	Code Code
	// Columns written to this target. Nil means every form field.
	Columns []string
	// Key is the natural key. Entries may be expressions such as lower(name).
	Key []string
	// Unique lists further natural keys that must not repeat. Only Reject
	// targets may carry them; the upsert conflict target is always Key.
	Unique [][]string
	Policy Policy
}

// Keys returns Key followed by every Unique key.
func (t Target) Keys() [][]string {
	var out [][]string
	if len(t.Key) > 0 {
		out = append(out, t.Key)
	}
	return append(out, t.Unique...)
}

// Check is a cross-field rule run after every field is coerced.
type Check func(Record) error

// Form is the submission schema of a route suffix.
type Form struct {
	Criterion int
	Suffix    string
	Fields    []Field
	Checks    []Check
	// SessionFloor overrides Limits.MinYear for the session field.
	SessionFloor int
	// SessionLead extends the session's upper bound past the current year.
	SessionLead int
	Targets     []Target
}

// SessionField is the column every form carries.
const SessionField = "session"

// Primary is the first target's code.
func (f Form) Primary() Code {
	if len(f.Targets) == 0 {
		return ""
	}
	return f.Targets[0].Code
}

// Codes lists every target code.
func (f Form) Codes() []Code {
	out := make([]Code, 0, len(f.Targets))
	for _, t := range f.Targets {
		out = append(out, t.Code)
	}
	return out
}

// Target returns the target for code.
func (f Form) Target(code Code) (Target, bool) {
	for _, t := range f.Targets {
		if t.Code == code {
			return t, true
		}
	}
	return Target{}, false
}

// Columns lists the columns a target stores, session first.
func (f Form) Columns(t Target) []string {
	cols := []string{SessionField}
	if t.Columns != nil {
		return append(cols, t.Columns...)
	}
	for _, field := range f.Fields {
		cols = append(cols, field.Name)
	}
	return cols
}

// SessionBounds returns the accepted session range for the form.
func (f Form) SessionBounds(limits Limits) (int, int) {
	floor := limits.MinYear
	if f.SessionFloor > 0 {
		floor = f.SessionFloor
	}
	return floor, limits.currentYear() + f.SessionLead
}

// Validate coerces a decoded JSON body into a Record. Unknown keys are dropped.
func (f Form) Validate(body map[string]interface{}, limits Limits) (Record, error) {
	record := Record{}

	rawSession, ok := body[SessionField]
	if !ok || isBlank(rawSession) {
		return nil, fieldErrorf(SessionField, "is required")
	}
	floor, ceiling := f.SessionBounds(limits)
	session, err := (Field{Name: SessionField, Kind: KindYear}).coerce(rawSession, Limits{MinYear: floor, Now: time.Date(ceiling, 1, 1, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		return nil, err
	}
	record[SessionField] = session

	for _, field := range f.Fields {
		raw, present := body[field.Name]
		if !present || isBlank(raw) {
			if field.Required {
				return nil, fieldErrorf(field.Name, "is required")
			}
			record[field.Name] = field.Default
			continue
		}
		value, err := field.coerce(raw, limits)
		if err != nil {
			return nil, err
		}
		record[field.Name] = value
	}

	for _, check := range f.Checks {
		if err := check(record); err != nil {
			return nil, err
		}
	}
	return record, nil
}

// NotGreater requires record[a] <= record[b] for numeric columns.
func NotGreater(a, b string) Check {
	return func(r Record) error {
		if !r.Has(a) || !r.Has(b) {
			return nil
		}
		if r.Float(a) > r.Float(b) {
			return fieldErrorf(a, "must not exceed %s", b)
		}
		return nil
	}
}

// NotBefore requires the date in a to be on or after the date in b.
func NotBefore(a, b string) Check {
	return func(r Record) error {
		later, ok1 := r.Time(a)
		earlier, ok2 := r.Time(b)
		if !ok1 || !ok2 {
			return nil
		}
		if later.Before(earlier) {
			return fieldErrorf(a, "must not be before %s", b)
		}
		return nil
	}
}

// YearNotBefore requires year column a to be >= year column b when both are set.
func YearNotBefore(a, b string) Check {
	return func(r Record) error {
		if !r.Has(a) || !r.Has(b) {
			return nil
		}
		if r.Int(a) < r.Int(b) {
			return fieldErrorf(a, "must not be before %s", b)
		}
		return nil
	}
}

// AnyPositive requires at least one of the columns to be greater than zero.
func AnyPositive(columns ...string) Check {
	return func(r Record) error {
		for _, c := range columns {
			if r.Float(c) > 0 {
				return nil
			}
		}
		return &FieldError{Message: fmt.Sprintf("at least one of %d exam columns must be greater than zero", len(columns))}
	}
}
