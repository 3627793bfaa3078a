package main

import (
	"context"
	"os"

	"github.com/khanalp/climatefetch/internal/config"
	"github.com/khanalp/climatefetch/internal/earthengine"
	"github.com/khanalp/climatefetch/internal/station"
	"github.com/rs/zerolog/log"
)

const (
	stationTable = "Stationdetails.csv"
	startDate    = "2000-01-01"
	endDate      = "2020-12-31"
)

func main() {
	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	stations, err := station.LoadCSV(stationTable)
	if err != nil {
		log.Fatal().Err(err).Msg("Loading station table")
	}

	eeClient := earthengine.New(earthengine.Options{
		BaseURL:    cfg.EEBaseURL,
		AuthToken:  os.Getenv("EE_TOKEN"),
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.MaxRetries,
	})

	// Tasks run server-side; this process only enqueues them.
	exporter := earthengine.NewExporter(eeClient, startDate, endDate)
	total, err := exporter.ExportAll(context.Background(), stations)
	if err != nil {
		log.Fatal().Err(err).Int("tasks_queued", total).Msg("Queueing MODIS LAI exports failed")
	}

	log.Info().Int("stations", len(stations)).Int("tasks_queued", total).Msg("All MODIS LAI export tasks queued")
}
