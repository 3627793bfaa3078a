package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Retriever issues one blocking request against a remote dataset API and
// persists the result at target.
type Retriever interface {
	Retrieve(ctx context.Context, dataset string, payload map[string]any, target string) error
}

// Manifest records which output paths have already been retrieved so an
// interrupted run can be resumed. Implementations must treat their own
// failures as misses rather than surfacing them.
type Manifest interface {
	IsComplete(ctx context.Context, target string) bool
	MarkComplete(ctx context.Context, target string)
}

// PayloadFunc builds the provider-specific request payload for one
// parameter combination. For yearly jobs month is the empty string.
type PayloadFunc func(variable string, year int, month string) map[string]any

// PathFunc overrides the default output path derivation.
type PathFunc func(dir, dataset, variable string, year int, month string) string

// Job describes one batch retrieval run: the Cartesian product of
// variables, years and months of a dataset, one request and one output
// file per combination. An empty Months list makes the job yearly.
type Job struct {
	Dataset   string
	Variables []string
	Years     []int
	Months    []string

	OutputDir string
	FileExt   string

	BuildPayload PayloadFunc
	Path         PathFunc

	// ContinueOnError logs request failures and proceeds with the
	// remaining combinations instead of aborting the run.
	ContinueOnError bool

	// Manifest, when set, is consulted to skip completed combinations.
	Manifest Manifest

	// PostRetrieve runs after each successful retrieval. Failures are
	// logged, never fatal.
	PostRetrieve func(ctx context.Context, target string) error
}

// OutputPath derives the artifact path for one combination:
// <dir>/<variable>/<dataset>_<variable>_<year>-<month>.<ext>, with the
// month part dropped when month is empty. The mapping is injective in
// (variable, year, month).
func OutputPath(dir, dataset, variable string, year int, month, ext string) string {
	name := fmt.Sprintf("%s_%s_%d.%s", dataset, variable, year, ext)
	if month != "" {
		name = fmt.Sprintf("%s_%s_%d-%s.%s", dataset, variable, year, month, ext)
	}
	return filepath.Join(dir, variable, name)
}

func (j Job) target(variable string, year int, month string) string {
	if j.Path != nil {
		return j.Path(j.OutputDir, j.Dataset, variable, year, month)
	}
	return OutputPath(j.OutputDir, j.Dataset, variable, year, month, j.FileExt)
}

// Run enumerates the job's parameter combinations in declared order and
// issues one retrieval per combination.
func (j Job) Run(ctx context.Context, r Retriever) error {
	if j.BuildPayload == nil {
		return fmt.Errorf("job %s: no payload builder", j.Dataset)
	}

	months := j.Months
	if len(months) == 0 {
		months = []string{""}
	}

	total := len(j.Variables) * len(j.Years) * len(months)
	var failed, skipped int

	log.Info().
		Str("dataset", j.Dataset).
		Int("combinations", total).
		Msg("Starting batch retrieval")

	for _, variable := range j.Variables {
		for _, year := range j.Years {
			for _, month := range months {
				if err := ctx.Err(); err != nil {
					return err
				}

				target := j.target(variable, year, month)

				if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
					return fmt.Errorf("creating output directory for %s: %w", target, err)
				}

				if j.Manifest != nil && j.Manifest.IsComplete(ctx, target) {
					log.Debug().Str("target", target).Msg("Already retrieved, skipping")
					skipped++
					continue
				}

				log.Info().
					Str("dataset", j.Dataset).
					Str("variable", variable).
					Int("year", year).
					Str("month", month).
					Str("target", target).
					Msg("Retrieving")

				payload := j.BuildPayload(variable, year, month)
				if err := r.Retrieve(ctx, j.Dataset, payload, target); err != nil {
					if !j.ContinueOnError {
						return fmt.Errorf("retrieving %s: %w", target, err)
					}
					log.Error().Err(err).Str("target", target).Msg("Retrieval failed, continuing")
					failed++
					continue
				}

				if j.Manifest != nil {
					j.Manifest.MarkComplete(ctx, target)
				}

				if j.PostRetrieve != nil {
					if err := j.PostRetrieve(ctx, target); err != nil {
						log.Warn().Err(err).Str("target", target).Msg("Post-retrieval check failed")
					}
				}
			}
		}
	}

	log.Info().
		Str("dataset", j.Dataset).
		Int("combinations", total).
		Int("skipped", skipped).
		Int("failed", failed).
		Msg("Batch retrieval finished")

	if failed > 0 {
		return fmt.Errorf("%d of %d retrievals failed", failed, total)
	}
	return nil
}
