package earthengine

import (
	"context"

	"github.com/khanalp/climatefetch/internal/models"
	"github.com/rs/zerolog/log"
)

// Assets sampled for station attributes.
const (
	demCollection = "COPERNICUS/DEM/GLO30"
	demBand       = "DEM"
	demScale      = 30
	canopyImage   = "users/nlang/ETH_GlobalCanopyHeight_2020_10m_v1"
	canopySDImage = "users/nlang/ETH_GlobalCanopyHeightSD_2020_10m_v1"
	canopyBand    = "b1"
	canopyScale   = 10
)

// Sampler samples elevation and canopy-height attributes at station points.
// Each quantity has its own failure boundary: a failed lookup is logged and
// recorded as null, and the remaining quantities and stations are still
// attempted.
type Sampler struct {
	api API
}

func NewSampler(api API) *Sampler {
	return &Sampler{api: api}
}

// SampleStation samples the three quantities for one station.
func (s *Sampler) SampleStation(ctx context.Context, st models.Station) models.StationAttributes {
	attrs := models.StationAttributes{Station: st}

	// Elevation is not available for some stations.
	if v, err := s.api.SampleValue(ctx, demCollection, demBand, st.Longitude, st.Latitude, demScale); err != nil {
		log.Error().Err(err).Str("station", st.Name).Msg("Error getting elevation")
	} else {
		attrs.Elevation = &v
	}

	if v, err := s.api.SampleValue(ctx, canopyImage, canopyBand, st.Longitude, st.Latitude, canopyScale); err != nil {
		log.Error().Err(err).Str("station", st.Name).Msg("Error sampling canopy height")
	} else {
		attrs.CanopyHeight = &v
	}

	if v, err := s.api.SampleValue(ctx, canopySDImage, canopyBand, st.Longitude, st.Latitude, canopyScale); err != nil {
		log.Error().Err(err).Str("station", st.Name).Msg("Error sampling canopy height standard deviation")
	} else {
		attrs.CanopyHeightSD = &v
	}

	return attrs
}

// SampleAll samples every station sequentially and returns one row per
// station, in input order.
func (s *Sampler) SampleAll(ctx context.Context, stations []models.Station) ([]models.StationAttributes, error) {
	attrs := make([]models.StationAttributes, 0, len(stations))
	for _, st := range stations {
		if err := ctx.Err(); err != nil {
			return attrs, err
		}
		attrs = append(attrs, s.SampleStation(ctx, st))
	}
	return attrs, nil
}
