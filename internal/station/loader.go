package station

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/khanalp/climatefetch/internal/models"
	"github.com/rs/zerolog/log"
)

// Column headers expected in the station table. The position column appears
// as "Position" or "Position (lon,lat)" depending on the export.
const (
	nameColumn     = "station_name"
	positionColumn = "Position"
)

// ParsePosition parses a combined position field. The value is longitude
// first, then latitude, separated by a comma or whitespace:
// "7.35,53.92" means longitude 7.35, latitude 53.92.
func ParsePosition(position string) (lon, lat float64, err error) {
	parts := strings.Fields(strings.ReplaceAll(position, ",", " "))
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed position %q", position)
	}

	lon, err = strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing longitude in %q: %w", position, err)
	}
	lat, err = strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing latitude in %q: %w", position, err)
	}

	return lon, lat, nil
}

// LoadCSV reads a station table from a CSV file with station_name and
// Position columns.
func LoadCSV(path string) ([]models.Station, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening station table: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Error closing station table")
		}
	}()

	stations, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading station table %s: %w", path, err)
	}
	return stations, nil
}

// Read parses station records from CSV data.
func Read(r io.Reader) ([]models.Station, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}

	return fromRows(rows)
}

// fromRows converts a header row plus data rows into stations. Shared by
// the CSV and spreadsheet loaders.
func fromRows(rows [][]string) ([]models.Station, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty station table")
	}

	nameIdx, posIdx := -1, -1
	for i, col := range rows[0] {
		switch {
		case col == nameColumn:
			nameIdx = i
		case strings.HasPrefix(col, positionColumn):
			posIdx = i
		}
	}
	if nameIdx < 0 || posIdx < 0 {
		return nil, fmt.Errorf("missing %s or %s column", nameColumn, positionColumn)
	}

	var stations []models.Station
	for i, record := range rows[1:] {
		if len(record) <= nameIdx || len(record) <= posIdx {
			return nil, fmt.Errorf("row %d: too few columns", i+2)
		}

		lon, lat, err := ParsePosition(record[posIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", i+2, record[nameIdx], err)
		}

		stations = append(stations, models.Station{
			Name:      record[nameIdx],
			Latitude:  lat,
			Longitude: lon,
		})
	}

	log.Debug().Int("station_count", len(stations)).Msg("Loaded station table")
	return stations, nil
}
