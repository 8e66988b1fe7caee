package repository

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	identPattern    = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	keyExprPattern  = regexp.MustCompile(`^lower\(([a-z_][a-z0-9_]*)\)$`)
	latestFormQuery = `SELECT id FROM iiqa_form ORDER BY created_at DESC, id DESC LIMIT 1`
)

// ident rejects anything that is not a plain lower-case SQL identifier.
func ident(name string) (string, error) {
	if !identPattern.MatchString(name) {
		return "", fmt.Errorf("invalid identifier %q", name)
	}
	return name, nil
}

func idents(names []string) ([]string, error) {
	out := make([]string, len(names))
	for i, n := range names {
		v, err := ident(n)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// keyExpr accepts a column or lower(column) as used by expression unique indexes.
func keyExpr(entry string) (string, error) {
	if keyExprPattern.MatchString(entry) {
		return entry, nil
	}
	return ident(entry)
}

func placeholders(n int) string {
	values := make([]string, n)
	for i := 1; i <= n; i++ {
		values[i-1] = fmt.Sprintf("$%d", i)
	}
	return strings.Join(values, ",")
}

// normaliseRow converts driver values into JSON friendly ones.
func normaliseRow(row map[string]interface{}) map[string]interface{} {
	for k, v := range row {
		switch val := v.(type) {
		case []byte:
			row[k] = string(val)
		case time.Time:
			row[k] = val.UTC()
		}
	}
	return row
}

func toFloat(v interface{}) float64 {
	switch val := v.(type) {
	case int64:
		return float64(val)
	case int32:
		return float64(val)
	case int:
		return float64(val)
	case float64:
		return val
	case float32:
		return float64(val)
	case []byte:
		var f float64
		_, _ = fmt.Sscan(string(val), &f)
		return f
	case string:
		var f float64
		_, _ = fmt.Sscan(val, &f)
		return f
	}
	return 0
}
