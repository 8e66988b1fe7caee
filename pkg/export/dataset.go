package export

import (
	"fmt"
	"strings"
)

// Dataset is a titled table. Rows are keyed by header so sparse rows render
// as empty cells.
type Dataset struct {
	Title    string
	Subtitle string
	Headers  []string
	Rows     []map[string]string
	// Numeric lists headers whose cells are right aligned where the format supports it.
	Numeric []string
}

// Record returns row values in header order.
func (d Dataset) Record(row map[string]string) []string {
	record := make([]string, len(d.Headers))
	for i, header := range d.Headers {
		record[i] = row[header]
	}
	return record
}

func (d Dataset) numeric(header string) bool {
	for _, h := range d.Numeric {
		if h == header {
			return true
		}
	}
	return false
}

// Renderer turns a dataset into a downloadable document.
type Renderer interface {
	ContentType() string
	Extension() string
	Render(data Dataset) ([]byte, error)
}

// Lookup returns the renderer for a format name, case-insensitively.
func Lookup(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return NewCSVExporter(), nil
	case "pdf":
		return NewPDFExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}
