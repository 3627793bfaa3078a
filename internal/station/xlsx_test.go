package station

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTestSheet(t *testing.T, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "Stationdetails.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestLoadXLSX(t *testing.T) {
	t.Parallel()

	path := writeTestSheet(t, [][]any{
		{"station_name", "Position (lon,lat)"},
		{"DE-Hai", "10.4522,51.0792"},
		{"FI-Hyy", "24.2947,61.8474"},
	})

	stations, err := LoadXLSX(path)
	require.NoError(t, err)
	require.Len(t, stations, 2)

	assert.Equal(t, "DE-Hai", stations[0].Name)
	assert.Equal(t, 51.0792, stations[0].Latitude)
	assert.Equal(t, 10.4522, stations[0].Longitude)
	assert.Equal(t, "FI-Hyy", stations[1].Name)
}

func TestLoadXLSXMissingColumns(t *testing.T) {
	t.Parallel()

	path := writeTestSheet(t, [][]any{
		{"id", "coords"},
		{"A", "1.0,2.0"},
	})

	_, err := LoadXLSX(path)
	assert.ErrorContains(t, err, "missing")
}

func TestLoadXLSXMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadXLSX(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}
