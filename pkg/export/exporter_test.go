package export

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "NAAC Scores 2025",
		Headers: []string{"code", "metric", "grade"},
		Rows: []map[string]string{
			{"code": "3.1.3", "metric": "40", "grade": "4"},
			{"code": "1.1.3", "grade": "0"},
		},
		Numeric: []string{"metric", "grade"},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "code,metric,grade\n3.1.3,40,4\n1.1.3,,0\n", string(out))

	semi := &CSVExporter{Comma: ';'}
	out, err = semi.Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "code;metric;grade\n3.1.3;40;4\n1.1.3;;0\n", string(out))
}

func TestExportersRequireHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRendersAcrossPages(t *testing.T) {
	data := sampleDataset()
	data.Subtitle = "Session 2025"
	for i := 0; i < 120; i++ {
		data.Rows = append(data.Rows, map[string]string{"code": fmt.Sprintf("2.%d.1", i), "metric": "1", "grade": "1"})
	}

	out, err := NewPDFExporter().Render(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestLookup(t *testing.T) {
	r, err := Lookup(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, "pdf", r.Extension())

	r, err = Lookup("csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", r.ContentType())

	_, err = Lookup("xlsx")
	assert.Error(t, err)
}
