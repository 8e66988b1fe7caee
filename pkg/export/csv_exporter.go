package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
)

// CSVExporter writes the header row followed by one line per row. Title and
// subtitle are omitted so the output stays spreadsheet friendly.
type CSVExporter struct {
	Comma rune
}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{Comma: ','}
}

func (e *CSVExporter) ContentType() string { return "text/csv" }

func (e *CSVExporter) Extension() string { return "csv" }

func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, errors.New("csv export needs headers")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if e.Comma != 0 {
		w.Comma = e.Comma
	}

	records := make([][]string, 0, len(data.Rows)+1)
	records = append(records, data.Headers)
	for _, row := range data.Rows {
		records = append(records, data.Record(row))
	}
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}
