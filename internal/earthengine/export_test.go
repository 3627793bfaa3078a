package earthengine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/khanalp/climatefetch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportStation(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		images: []ImageInfo{
			{Name: "MODIS/006/MOD15A2H/2000_02_18", StartTime: time.Date(2000, 2, 18, 0, 0, 0, 0, time.UTC)},
			{Name: "MODIS/006/MOD15A2H/2000_02_26", StartTime: time.Date(2000, 2, 26, 0, 0, 0, 0, time.UTC)},
		},
	}

	e := NewExporter(api, "2000-01-01", "2020-12-31")
	n, err := e.ExportStation(context.Background(), models.Station{Name: "DE-Hai", Latitude: 51.0792, Longitude: 10.4522})

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, api.exports, 2)

	first := api.exports[0]
	assert.Equal(t, "MODIS_LAI_DE-Hai_20000218", first.Description)
	assert.Equal(t, first.Description, first.FileNamePrefix)
	assert.Equal(t, "MODIS_LAI_Export/DE-Hai", first.Folder)
	assert.Equal(t, []string{"Lai_500m", "FparLai_QC", "LaiStdDev_500m"}, first.Bands)
	assert.Equal(t, [2]float64{10.4522, 51.0792}, first.Point)
	assert.Equal(t, float64(1000), first.BufferMeters)
	assert.Equal(t, float64(500), first.Scale)
	assert.Equal(t, "EPSG:4326", first.CRS)

	assert.Equal(t, "MODIS_LAI_DE-Hai_20000226", api.exports[1].Description)

	require.Len(t, api.listRequests, 1)
	assert.Contains(t, api.listRequests[0], "MODIS/006/MOD15A2H")
	assert.Contains(t, api.listRequests[0], "2000-01-01/2020-12-31")
}

func TestExportAll(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		images: []ImageInfo{
			{Name: "img", StartTime: time.Date(2001, 6, 1, 0, 0, 0, 0, time.UTC)},
		},
	}

	e := NewExporter(api, "2000-01-01", "2020-12-31")
	total, err := e.ExportAll(context.Background(), []models.Station{
		{Name: "A", Latitude: 50, Longitude: 10},
		{Name: "B", Latitude: 51, Longitude: 11},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, api.listRequests, 2)
}

func TestExportStationListFailure(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{listErr: errors.New("quota exceeded")}
	e := NewExporter(api, "2000-01-01", "2020-12-31")

	_, err := e.ExportStation(context.Background(), models.Station{Name: "A"})
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestExportStationStartFailure(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		images:    []ImageInfo{{Name: "img", StartTime: time.Date(2001, 6, 1, 0, 0, 0, 0, time.UTC)}},
		exportErr: errors.New("task queue full"),
	}
	e := NewExporter(api, "2000-01-01", "2020-12-31")

	_, err := e.ExportStation(context.Background(), models.Station{Name: "A"})
	assert.ErrorContains(t, err, "task queue full")
}
