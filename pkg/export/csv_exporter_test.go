package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterQuotesEveryField(t *testing.T) {
	exporter := NewCSVExporter()
	data := Dataset{
		Headers: []string{"Name", "Note"},
		Rows: []map[string]string{
			{"Name": "Alex", "Note": "on task"},
			{"Name": `Sam "SJ" Lee`, "Note": ""},
		},
	}

	out, err := exporter.Render(data)
	require.NoError(t, err)
	assert.Equal(t, "\"Name\",\"Note\"\n\"Alex\",\"on task\"\n\"Sam \"\"SJ\"\" Lee\",\"\"\n", string(out))
}

func TestCSVExporterMissingColumnsRenderEmpty(t *testing.T) {
	exporter := NewCSVExporter()
	data := Dataset{
		Headers: []string{"A", "B"},
		Rows:    []map[string]string{{"A": "1"}},
	}

	out, err := exporter.Render(data)
	require.NoError(t, err)
	assert.Equal(t, "\"A\",\"B\"\n\"1\",\"\"\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()
	_, err := exporter.Render(Dataset{})
	require.Error(t, err)
}
