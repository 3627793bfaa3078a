package main

import (
	"context"
	"os"

	"github.com/khanalp/climatefetch/internal/config"
	"github.com/khanalp/climatefetch/internal/earthengine"
	"github.com/khanalp/climatefetch/internal/station"
	"github.com/khanalp/climatefetch/internal/storage"
	"github.com/rs/zerolog/log"
)

const (
	stationTable = "Stationdetails.xlsx"
	outputTable  = "station_with_elevation_heightcanopy.csv"
)

func main() {
	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	stations, err := station.LoadXLSX(stationTable)
	if err != nil {
		log.Fatal().Err(err).Msg("Loading station table")
	}

	ctx := context.Background()
	eeClient := earthengine.New(earthengine.Options{
		BaseURL:    cfg.EEBaseURL,
		AuthToken:  os.Getenv("EE_TOKEN"),
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.MaxRetries,
	})

	sampler := earthengine.NewSampler(eeClient)
	attrs, err := sampler.SampleAll(ctx, stations)
	if err != nil {
		log.Fatal().Err(err).Msg("Sampling station attributes")
	}

	if err := station.WriteAttributesCSV(outputTable, attrs); err != nil {
		log.Fatal().Err(err).Msg("Writing attribute table")
	}

	if cfg.S3Bucket != "" {
		s3Client, err := storage.NewS3ClientFromEnv(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Creating S3 client")
		}
		store := storage.NewS3Store(s3Client, cfg.S3Bucket)
		if err := store.UploadFile(ctx, outputTable, outputTable); err != nil {
			log.Fatal().Err(err).Msg("Uploading attribute table")
		}
	}
}
