package station

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/khanalp/climatefetch/internal/models"
	"github.com/rs/zerolog/log"
)

// WriteAttributesCSV writes the combined station attribute table. Sampled
// quantities that are nil come out as empty cells.
func WriteAttributesCSV(path string, attrs []models.StationAttributes) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating attribute table: %w", err)
	}

	if err := WriteAttributes(f, attrs); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing attribute table %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing attribute table %s: %w", path, err)
	}

	log.Info().Int("station_count", len(attrs)).Str("path", path).Msg("Wrote station attribute table")
	return nil
}

// WriteAttributes writes attribute rows as CSV.
func WriteAttributes(w io.Writer, attrs []models.StationAttributes) error {
	cw := csv.NewWriter(w)

	header := []string{"station_name", "latitude", "longitude", "elevation", "height_canopy", "sd_height_canopy"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, a := range attrs {
		record := []string{
			a.Name,
			strconv.FormatFloat(a.Latitude, 'f', -1, 64),
			strconv.FormatFloat(a.Longitude, 'f', -1, 64),
			formatNullable(a.Elevation),
			formatNullable(a.CanopyHeight),
			formatNullable(a.CanopyHeightSD),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row for %s: %w", a.Name, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatNullable(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
