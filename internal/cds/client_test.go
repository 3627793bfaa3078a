package cds

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return New(Options{
		BaseURL:      baseURL,
		Key:          "1234:abcd",
		Timeout:      5 * time.Second,
		PollInterval: time.Millisecond,
	})
}

func TestRetrieve(t *testing.T) {
	t.Parallel()

	var polls atomic.Int32
	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("/resources/reanalysis-era5-land", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "1234", user)
		assert.Equal(t, "abcd", pass)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "2020", payload["year"])

		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]any{"state": "queued", "request_id": "req-1"})
	})
	mux.HandleFunc("/tasks/req-1", func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) < 3 {
			_ = json.NewEncoder(w).Encode(map[string]any{"state": "running"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"state":    "completed",
			"location": srv.URL + "/download/abc123.nc",
		})
	})
	mux.HandleFunc("/download/abc123.nc", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("CDF\x01 fake"))
	})

	srv = httptest.NewServer(mux)
	defer srv.Close()

	target := filepath.Join(t.TempDir(), "era5-land_snow_cover_2020-01.nc")
	c := newTestClient(srv.URL)

	err := c.Retrieve(context.Background(), DatasetERA5Land,
		ERA5LandPayload("snow_cover", 2020, "01", Area{71.18, -25, 35.81, 44.79}), target)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "CDF\x01 fake", string(data))
	assert.GreaterOrEqual(t, polls.Load(), int32(3))
}

func TestRetrieveImmediateCompletion(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("/resources/satellite-land-cover", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"state":    "completed",
			"location": srv.URL + "/download/lc.zip",
		})
	})
	mux.HandleFunc("/download/lc.zip", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("PK zip"))
	})

	srv = httptest.NewServer(mux)
	defer srv.Close()

	target := filepath.Join(t.TempDir(), "ESACCI_LCCS_MAP_300m_1992.zip")
	c := newTestClient(srv.URL)

	require.NoError(t, c.Retrieve(context.Background(), DatasetLandCover, LandCoverPayload(1992), target))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "PK zip", string(data))
}

func TestRetrieveTaskFailed(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/resources/reanalysis-era5-land", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"state": "queued", "request_id": "req-2"})
	})
	mux.HandleFunc("/tasks/req-2", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"state": "failed",
			"error": map[string]any{"reason": "bad request", "message": "invalid variable"},
		})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(srv.URL)
	err := c.Retrieve(context.Background(), DatasetERA5Land, map[string]any{}, filepath.Join(t.TempDir(), "out.nc"))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "invalid variable")
}

func TestRetrieveSubmitRejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("invalid api key"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	err := c.Retrieve(context.Background(), DatasetCAMSEGG4, map[string]any{}, filepath.Join(t.TempDir(), "cams.nc"))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "status 403")
	assert.Contains(t, apiErr.Message, "invalid api key")
}

func TestRetrieveContextCancelledWhileQueued(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/resources/reanalysis-era5-land", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"state": "queued", "request_id": "req-3"})
	})
	mux.HandleFunc("/tasks/req-3", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"state": "queued"})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	c := newTestClient(srv.URL)
	err := c.Retrieve(ctx, DatasetERA5Land, map[string]any{}, filepath.Join(t.TempDir(), "out.nc"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestERA5LandPayload(t *testing.T) {
	t.Parallel()

	payload := ERA5LandPayload("soil_temperature_level_3", 2016, "01", Area{71.1851, -25.0, 35.8149, 44.7909})

	assert.Equal(t, []string{"soil_temperature_level_3"}, payload["variable"])
	assert.Equal(t, "2016", payload["year"])
	assert.Equal(t, "01", payload["month"])
	assert.Equal(t, "netcdf", payload["format"])
	assert.Equal(t, []float64{71.1851, -25.0, 35.8149, 44.7909}, payload["area"])

	days := payload["day"].([]string)
	require.Len(t, days, 31)
	assert.Equal(t, "01", days[0])
	assert.Equal(t, "31", days[30])

	times := payload["time"].([]string)
	require.Len(t, times, 24)
	assert.Equal(t, "00:00", times[0])
	assert.Equal(t, "23:00", times[23])
}

func TestLandCoverPayloadVersionSwitch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		year        int
		wantVersion string
	}{
		{1992, "v2.0.7cds"},
		{2015, "v2.0.7cds"},
		{2016, "v2.1.1"},
		{2020, "v2.1.1"},
	}

	for _, tt := range tests {
		payload := LandCoverPayload(tt.year)
		assert.Equal(t, tt.wantVersion, payload["version"], "year %d", tt.year)
		assert.Equal(t, "all", payload["variable"])
		assert.Equal(t, "zip", payload["format"])
	}
}

func TestCAMSEGG4Payload(t *testing.T) {
	t.Parallel()

	payload := CAMSEGG4Payload("carbon_dioxide", "2012-01-01/2020-12-31", "60", "3", Area{71.18, -25, 35.81, 44.79})

	assert.Equal(t, "carbon_dioxide", payload["variable"])
	assert.Equal(t, "60", payload["model_level"])
	assert.Equal(t, "2012-01-01/2020-12-31", payload["date"])
	assert.Equal(t, "3", payload["step"])
	assert.Equal(t, "netcdf", payload["format"])
}
