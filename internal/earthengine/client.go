package earthengine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/khanalp/climatefetch/pkg/http/client"
	"github.com/rs/zerolog/log"
)

// API is the subset of Earth Engine operations the retrieval commands use.
type API interface {
	SampleValue(ctx context.Context, image, band string, lon, lat, scale float64) (float64, error)
	ListImages(ctx context.Context, collection string, lon, lat float64, start, end string) ([]ImageInfo, error)
	StartExport(ctx context.Context, req ExportRequest) (string, error)
}

// ImageInfo identifies one image of a collection.
type ImageInfo struct {
	Name      string    `json:"name"`
	StartTime time.Time `json:"startTime"`
}

// DateStamp returns the image acquisition date as yyyyMMdd, the form used
// in export task names.
func (i ImageInfo) DateStamp() string {
	return i.StartTime.Format("20060102")
}

// ExportRequest describes a server-side image export. The service resolves
// the region from the buffered point.
type ExportRequest struct {
	Image          string     `json:"image"`
	Bands          []string   `json:"bands,omitempty"`
	Description    string     `json:"description"`
	Folder         string     `json:"folder"`
	FileNamePrefix string     `json:"fileNamePrefix"`
	Point          [2]float64 `json:"point"` // lon, lat
	BufferMeters   float64    `json:"bufferMeters"`
	Scale          float64    `json:"scale"`
	CRS            string     `json:"crs"`
}

// Client is a thin wrapper over the Earth Engine REST API. Authentication
// is ambient: a bearer token from the environment (EE_TOKEN).
type Client struct {
	httpClient client.Interface
}

type Options struct {
	BaseURL    string
	AuthToken  string
	Timeout    time.Duration
	MaxRetries int
}

func New(opts Options) *Client {
	return &Client{
		httpClient: client.New(client.Options{
			BaseURL:    opts.BaseURL,
			Timeout:    opts.Timeout,
			MaxRetries: opts.MaxRetries,
			AuthToken:  opts.AuthToken,
		}),
	}
}

// SampleValue samples one band of an image (or the first image of a
// collection) at a point and returns the band value at the given scale.
func (c *Client) SampleValue(ctx context.Context, image, band string, lon, lat, scale float64) (float64, error) {
	resp, err := c.httpClient.PostJSON(ctx, "/image:sample", map[string]any{
		"image": image,
		"band":  band,
		"point": []float64{lon, lat},
		"scale": scale,
	})
	if err != nil {
		return 0, fmt.Errorf("sampling %s: %w", image, err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("sampling %s: status %d: %s",
			image, resp.StatusCode, strings.TrimSpace(string(resp.Body)))
	}

	var result struct {
		Value *float64 `json:"value"`
	}
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return 0, fmt.Errorf("decoding sample response: %w", err)
	}
	if result.Value == nil {
		return 0, fmt.Errorf("no %s value at point (%f, %f)", band, lon, lat)
	}

	return *result.Value, nil
}

// ListImages lists the images of a collection that intersect a point within
// a date range (inclusive start, exclusive end, yyyy-MM-dd).
func (c *Client) ListImages(ctx context.Context, collection string, lon, lat float64, start, end string) ([]ImageInfo, error) {
	q := url.Values{}
	q.Set("point", fmt.Sprintf("%f,%f", lon, lat))
	q.Set("startTime", start)
	q.Set("endTime", end)

	path := fmt.Sprintf("/assets/%s:listImages?%s", url.PathEscape(collection), q.Encode())
	resp, err := c.httpClient.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("listing images of %s: %w", collection, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing images of %s: status %d", collection, resp.StatusCode)
	}

	var result struct {
		Images []ImageInfo `json:"images"`
	}
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("decoding image list: %w", err)
	}

	return result.Images, nil
}

// StartExport enqueues a server-side export task and returns its operation
// name without waiting for it to run.
func (c *Client) StartExport(ctx context.Context, req ExportRequest) (string, error) {
	resp, err := c.httpClient.PostJSON(ctx, "/image:export", req)
	if err != nil {
		return "", fmt.Errorf("starting export %s: %w", req.Description, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("starting export %s: status %d: %s",
			req.Description, resp.StatusCode, strings.TrimSpace(string(resp.Body)))
	}

	var op struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(resp.Body, &op); err != nil {
		return "", fmt.Errorf("decoding export operation: %w", err)
	}

	log.Debug().Str("task", op.Name).Str("description", req.Description).Msg("Export task started")
	return op.Name, nil
}
