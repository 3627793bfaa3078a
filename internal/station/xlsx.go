package station

import (
	"fmt"

	"github.com/khanalp/climatefetch/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads a station table from the first sheet of a spreadsheet with
// the same station_name / Position columns as the CSV form.
func LoadXLSX(path string) ([]models.Station, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening station spreadsheet: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Error closing station spreadsheet")
		}
	}()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("reading station spreadsheet %s: %w", path, err)
	}

	stations, err := fromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("reading station spreadsheet %s: %w", path, err)
	}
	return stations, nil
}
