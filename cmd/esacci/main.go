package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/khanalp/climatefetch/internal/batch"
	"github.com/khanalp/climatefetch/internal/cds"
	"github.com/khanalp/climatefetch/internal/config"
	"github.com/rs/zerolog/log"
)

// ESA-CCI land-cover maps, one zip archive per year.
const (
	firstYear = 1992
	lastYear  = 2020
)

func main() {
	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	creds, err := config.LoadCredentials(config.DefaultCDSCredentialsPath())
	if err != nil {
		log.Fatal().Err(err).Msg("Loading CDS credentials")
	}

	years := make([]int, 0, lastYear-firstYear+1)
	for year := firstYear; year <= lastYear; year++ {
		years = append(years, year)
	}

	job := batch.Job{
		Dataset:   cds.DatasetLandCover,
		Variables: []string{"all"},
		Years:     years,
		OutputDir: filepath.Join(cfg.OutputDir, "ESACCILCCS"),
		BuildPayload: func(_ string, year int, _ string) map[string]any {
			return cds.LandCoverPayload(year)
		},
		Path: func(dir, _, _ string, year int, _ string) string {
			return filepath.Join(dir, fmt.Sprintf("ESACCI_LCCS_MAP_300m_%d.zip", year))
		},
	}

	if err := job.Run(context.Background(), cds.NewFromCredentials(creds, cfg)); err != nil {
		log.Fatal().Err(err).Msg("ESA-CCI land-cover retrieval failed")
	}
}
