package earthengine

import (
	"context"
	"fmt"

	"github.com/khanalp/climatefetch/internal/models"
	"github.com/rs/zerolog/log"
)

// MODIS LAI export parameters.
const (
	modisCollection = "MODIS/006/MOD15A2H"
	exportRoot      = "MODIS_LAI_Export"
	exportScale     = 500
	exportCRS       = "EPSG:4326"
	bufferMeters    = 1000
)

var modisBands = []string{"Lai_500m", "FparLai_QC", "LaiStdDev_500m"}

// Exporter starts one server-side export task per MODIS LAI image per
// station. Tasks are fire-and-forget: they are enqueued on the remote
// service and not awaited.
type Exporter struct {
	api       API
	startDate string
	endDate   string
}

func NewExporter(api API, startDate, endDate string) *Exporter {
	return &Exporter{
		api:       api,
		startDate: startDate,
		endDate:   endDate,
	}
}

// ExportStation enqueues the export tasks for one station and returns the
// number of tasks started.
func (e *Exporter) ExportStation(ctx context.Context, st models.Station) (int, error) {
	images, err := e.api.ListImages(ctx, modisCollection, st.Longitude, st.Latitude, e.startDate, e.endDate)
	if err != nil {
		return 0, fmt.Errorf("listing MODIS LAI images for %s: %w", st.Name, err)
	}

	for _, img := range images {
		name := fmt.Sprintf("MODIS_LAI_%s_%s", st.Name, img.DateStamp())
		taskID, err := e.api.StartExport(ctx, ExportRequest{
			Image:          img.Name,
			Bands:          modisBands,
			Description:    name,
			Folder:         exportRoot + "/" + st.Name,
			FileNamePrefix: name,
			Point:          [2]float64{st.Longitude, st.Latitude},
			BufferMeters:   bufferMeters,
			Scale:          exportScale,
			CRS:            exportCRS,
		})
		if err != nil {
			return 0, fmt.Errorf("starting export %s: %w", name, err)
		}
		log.Debug().Str("station", st.Name).Str("task", taskID).Msg("Queued export task")
	}

	log.Info().Str("station", st.Name).Int("tasks", len(images)).Msg("Export tasks queued")
	return len(images), nil
}

// ExportAll fans out export tasks for every station.
func (e *Exporter) ExportAll(ctx context.Context, stations []models.Station) (int, error) {
	var total int
	for _, st := range stations {
		n, err := e.ExportStation(ctx, st)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
