package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/khanalp/climatefetch/internal/cds"
	"github.com/khanalp/climatefetch/internal/config"
	"github.com/khanalp/climatefetch/internal/ncdf"
	"github.com/rs/zerolog/log"
)

// CAMS EGG4 greenhouse-gas reanalysis, one retrieval for the whole span.
const (
	variable   = "carbon_dioxide"
	modelLevel = "60"
	dateRange  = "2012-01-01/2020-12-31"
	step       = "3"
)

// North, west, south, east.
var area = cds.Area{71.18, -25, 35.81, 44.79}

func main() {
	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	// CAMS lives on the Atmosphere Data Store, which has its own rc file.
	creds, err := config.LoadCredentials(config.DefaultADSCredentialsPath())
	if err != nil {
		log.Fatal().Err(err).Msg("Loading ADS credentials")
	}

	outputDir := filepath.Join(cfg.OutputDir, "cams")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("Creating output directory")
	}
	target := filepath.Join(outputDir, "cams.nc")

	ctx := context.Background()
	client := cds.NewFromCredentials(creds, cfg)

	payload := cds.CAMSEGG4Payload(variable, dateRange, modelLevel, step, area)
	if err := client.Retrieve(ctx, cds.DatasetCAMSEGG4, payload, target); err != nil {
		log.Fatal().Err(err).Msg("CAMS retrieval failed")
	}

	if err := ncdf.Verify(ctx, target); err != nil {
		log.Warn().Err(err).Str("target", target).Msg("Downloaded file failed NetCDF check")
	}
}
