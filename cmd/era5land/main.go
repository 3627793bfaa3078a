package main

import (
	"context"
	"path/filepath"

	"github.com/khanalp/climatefetch/internal/batch"
	"github.com/khanalp/climatefetch/internal/cds"
	"github.com/khanalp/climatefetch/internal/config"
	"github.com/khanalp/climatefetch/internal/manifest"
	"github.com/khanalp/climatefetch/internal/ncdf"
	"github.com/rs/zerolog/log"
)

// ERA5-Land monthly downloads over Europe. Edit these to change the run.
var (
	variables = []string{
		"2m_temperature",
		"2m_dewpoint_temperature",
		"surface_pressure",
		"total_precipitation",
		"10m_u_component_of_wind",
		"10m_v_component_of_wind",
		"surface_solar_radiation_downwards",
		"surface_thermal_radiation_downwards",
		"soil_temperature_level_1",
		"soil_temperature_level_2",
		"soil_temperature_level_3",
		"soil_temperature_level_4",
	}
	years  = []int{2012, 2013, 2014, 2015, 2016, 2017, 2018, 2019, 2020, 2021, 2022}
	months = []string{"01", "02", "03", "04", "05", "06", "07", "08", "09", "10", "11", "12"}

	// North, west, south, east.
	area = cds.Area{71.1851, -25.0, 35.8149, 44.7909}
)

func main() {
	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	ctx := context.Background()

	creds, err := config.LoadCredentials(config.DefaultCDSCredentialsPath())
	if err != nil {
		log.Fatal().Err(err).Msg("Loading CDS credentials")
	}

	job := batch.Job{
		Dataset:   cds.DatasetERA5Land,
		Variables: variables,
		Years:     years,
		Months:    months,
		OutputDir: filepath.Join(cfg.OutputDir, "ERA5Land"),
		FileExt:   "nc",
		BuildPayload: func(variable string, year int, month string) map[string]any {
			return cds.ERA5LandPayload(variable, year, month, area)
		},
		PostRetrieve: ncdf.Verify,
	}

	if cfg.ManifestTable != "" {
		dynamoClient, err := manifest.NewDynamoClient(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Creating DynamoDB client")
		}
		tracker, err := manifest.New(dynamoClient, cfg.ManifestTable)
		if err != nil {
			log.Fatal().Err(err).Msg("Creating retrieval manifest")
		}
		job.Manifest = tracker
	}

	if err := job.Run(ctx, cds.NewFromCredentials(creds, cfg)); err != nil {
		log.Fatal().Err(err).Msg("ERA5-Land retrieval failed")
	}
}
