package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()
	data := Dataset{
		Headers: []string{"Time", "Monday"},
		Rows: []map[string]string{
			{"Time": "10:00 - 11:00", "Monday": "CS301 / Dr. Rao"},
			{"Time": "11:00 - 12:00"},
		},
	}

	out, err := exporter.Render(data)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "Time,Monday", lines[0])
	require.Equal(t, "10:00 - 11:00,CS301 / Dr. Rao", lines[1])
	require.Equal(t, "11:00 - 12:00,", lines[2])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()
	_, err := exporter.Render(Dataset{})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	exporter := NewPDFExporter()
	out, err := exporter.Render(Dataset{
		Headers: []string{"Time", "Monday"},
		Rows:    []map[string]string{{"Time": "10:00 - 11:00", "Monday": "CS301"}},
	}, "Weekly Timetable")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(out), "%PDF"))
}
