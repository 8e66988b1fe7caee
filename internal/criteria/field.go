package criteria

import (
	"fmt"
	"math"
	"net/mail"
	"strconv"
	"strings"
	"time"
)

// Kind is the type a submitted field is coerced to.
type Kind int

const (
	KindString Kind = iota
	KindYear
	KindInt
	KindNumber
	KindOption
	KindDate
	KindYesNo
	KindEmail
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindYear:
		return "year"
	case KindInt:
		return "integer"
	case KindNumber:
		return "number"
	case KindOption:
		return "option"
	case KindDate:
		return "date"
	case KindYesNo:
		return "YES/NO"
	case KindEmail:
		return "email"
	case KindEnum:
		return "enum"
	default:
		return "string"
	}
}

const dateLayout = "2006-01-02"

// Field describes one column of a submission form.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	Values   []string
	Default  interface{}
}

// FieldError is a validation failure on a single field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func fieldErrorf(field, format string, args ...interface{}) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Limits bounds year-like values. Now is injected so tests control the current year.
type Limits struct {
	MinYear int
	Now     time.Time
}

func (l Limits) currentYear() int {
	if l.Now.IsZero() {
		return time.Now().Year()
	}
	return l.Now.Year()
}

// Record is a validated submission keyed by column name.
type Record map[string]interface{}

// Int returns an integer column or 0.
func (r Record) Int(name string) int64 {
	switch v := r[name].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

// Float returns a numeric column or 0.
func (r Record) Float(name string) float64 {
	switch v := r[name].(type) {
	case int64:
		return float64(v)
	case float64:
		return v
	}
	return 0
}

// String returns a text column or "".
func (r Record) String(name string) string {
	if v, ok := r[name].(string); ok {
		return v
	}
	return ""
}

// Time returns a date column.
func (r Record) Time(name string) (time.Time, bool) {
	v, ok := r[name].(time.Time)
	return v, ok
}

// Has reports whether a non-null value was stored for name.
func (r Record) Has(name string) bool {
	v, ok := r[name]
	return ok && v != nil
}

func isBlank(raw interface{}) bool {
	if raw == nil {
		return true
	}
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func toFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// coerce converts raw into the field's kind.
func (f Field) coerce(raw interface{}, limits Limits) (interface{}, error) {
	switch f.Kind {
	case KindYear:
		n, ok := toFloat(raw)
		if !ok || n != math.Trunc(n) {
			return nil, fieldErrorf(f.Name, "must be a year")
		}
		year := int64(n)
		if year < int64(limits.MinYear) || year > int64(limits.currentYear()) {
			return nil, fieldErrorf(f.Name, "must be between %d and %d", limits.MinYear, limits.currentYear())
		}
		return year, nil
	case KindInt:
		n, ok := toFloat(raw)
		if !ok || n != math.Trunc(n) {
			return nil, fieldErrorf(f.Name, "must be an integer")
		}
		if n < 0 {
			return nil, fieldErrorf(f.Name, "must not be negative")
		}
		return int64(n), nil
	case KindNumber:
		n, ok := toFloat(raw)
		if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, fieldErrorf(f.Name, "must be a number")
		}
		if n < 0 {
			return nil, fieldErrorf(f.Name, "must not be negative")
		}
		return n, nil
	case KindOption:
		n, ok := toFloat(raw)
		if !ok || n != math.Trunc(n) || n < 0 || n > 4 {
			return nil, fieldErrorf(f.Name, "must be an option between 0 and 4")
		}
		return int64(n), nil
	case KindDate:
		s, ok := raw.(string)
		if !ok {
			return nil, fieldErrorf(f.Name, "must be a date (YYYY-MM-DD)")
		}
		s = strings.TrimSpace(s)
		if len(s) > len(dateLayout) {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				return t.UTC().Truncate(24 * time.Hour), nil
			}
		}
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil, fieldErrorf(f.Name, "must be a date (YYYY-MM-DD)")
		}
		return t, nil
	case KindYesNo:
		var s string
		switch v := raw.(type) {
		case bool:
			s = "NO"
			if v {
				s = "YES"
			}
		case string:
			s = strings.ToUpper(strings.TrimSpace(v))
		}
		if s != "YES" && s != "NO" {
			return nil, fieldErrorf(f.Name, "must be YES or NO")
		}
		return s, nil
	case KindEmail:
		s, ok := raw.(string)
		if !ok {
			return nil, fieldErrorf(f.Name, "must be an email address")
		}
		addr, err := mail.ParseAddress(strings.TrimSpace(s))
		if err != nil || addr.Address != strings.TrimSpace(s) {
			return nil, fieldErrorf(f.Name, "must be an email address")
		}
		return addr.Address, nil
	case KindEnum:
		s, ok := raw.(string)
		if !ok {
			return nil, fieldErrorf(f.Name, "must be one of %s", strings.Join(f.Values, ", "))
		}
		s = strings.TrimSpace(s)
		for _, allowed := range f.Values {
			if strings.EqualFold(allowed, s) {
				return allowed, nil
			}
		}
		return nil, fieldErrorf(f.Name, "must be one of %s", strings.Join(f.Values, ", "))
	default:
		switch v := raw.(type) {
		case string:
			return strings.TrimSpace(v), nil
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		case bool:
			return strconv.FormatBool(v), nil
		}
		return nil, fieldErrorf(f.Name, "must be text")
	}
}
