// Package criteria holds the NAAC rule table: criterion codes, the submission
// form of every criterion, the scoring rule that turns stored responses into a
// metric and a grade, and the weights used to roll grades up.
package criteria

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var codePattern = regexp.MustCompile(`^[1-7](\.[0-9]{1,2}){0,2}$`)

// Code is a dotted criteria code such as "3.1.3". Shorter codes address a
// sub-criterion ("3.1") or a criterion ("3").
type Code string

// ParseCode validates a dotted code.
func ParseCode(raw string) (Code, error) {
	raw = strings.TrimSpace(raw)
	if !codePattern.MatchString(raw) {
		return "", fmt.Errorf("invalid criteria code %q", raw)
	}
	return Code(raw), nil
}

func (c Code) segments() []int {
	parts := strings.Split(string(c), ".")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil
		}
		out = append(out, n)
	}
	return out
}

// Depth is 1 for a criterion, 2 for a sub-criterion and 3 for a metric.
func (c Code) Depth() int {
	return len(c.segments())
}

// Padded zero-pads every segment to two digits: 1.1.3 -> 010103, 7.1.10 -> 070110.
func (c Code) Padded() string {
	var b strings.Builder
	for _, s := range c.segments() {
		fmt.Fprintf(&b, "%02d", s)
	}
	return b.String()
}

// Criterion returns the leading criterion number.
func (c Code) Criterion() int {
	segs := c.segments()
	if len(segs) == 0 {
		return 0
	}
	return segs[0]
}

// CriterionID is the padded criterion id stored in criteria_master ("03").
func (c Code) CriterionID() string {
	return fmt.Sprintf("%02d", c.Criterion())
}

// SubCriterionID is the padded sub-criterion id ("0301"). Empty for a bare criterion.
func (c Code) SubCriterionID() string {
	switch c.Depth() {
	case 0, 1:
		return ""
	case 2:
		return c.Padded()
	}
	return c.Parent().Padded()
}

// Parent drops the last segment: 3.1.3 -> 3.1.
func (c Code) Parent() Code {
	s := string(c)
	if i := strings.LastIndex(s, "."); i >= 0 {
		return Code(s[:i])
	}
	return c
}

// Digits concatenates the segments as used in route names: 3.1.3 -> 313, 7.1.10 -> 7110.
func (c Code) Digits() string {
	return strings.ReplaceAll(string(c), ".", "")
}

// Table is the response table storing submissions for the code.
func (c Code) Table() string {
	return "response_" + strings.ReplaceAll(string(c), ".", "_")
}

func (c Code) String() string { return string(c) }

// CodeFromPadded reverses Padded for a three-level id: "070110" -> 7.1.10.
func CodeFromPadded(padded string) (Code, error) {
	if len(padded)%2 != 0 || len(padded) == 0 || len(padded) > 6 {
		return "", fmt.Errorf("invalid padded id %q", padded)
	}
	parts := make([]string, 0, 3)
	for i := 0; i < len(padded); i += 2 {
		n, err := strconv.Atoi(padded[i : i+2])
		if err != nil {
			return "", fmt.Errorf("invalid padded id %q", padded)
		}
		parts = append(parts, strconv.Itoa(n))
	}
	return ParseCode(strings.Join(parts, "."))
}
