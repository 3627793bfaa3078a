package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

type Response struct {
	StatusCode int
	Body       []byte
}

type Interface interface {
	Get(ctx context.Context, path string) (*Response, error)
	PostJSON(ctx context.Context, path string, payload any) (*Response, error)
	DownloadFile(ctx context.Context, url string, target string) error
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	username   string
	password   string
	authToken  string
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	// Username/Password enable HTTP basic auth on every request.
	Username string
	Password string
	// AuthToken, when set, is sent as a bearer token instead.
	AuthToken string
}

func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}

	return &Client{
		baseURL: opts.BaseURL,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		maxRetries: opts.MaxRetries,
		username:   opts.Username,
		password:   opts.Password,
		authToken:  opts.AuthToken,
	}
}

func (c *Client) resolve(path string) string {
	if c.baseURL == "" {
		return path // If no base URL, treat path as full URL
	}
	return c.baseURL + path
}

func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	} else if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	return req, nil
}

func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, "GET", c.resolve(path), nil, "")
}

func (c *Client) PostJSON(ctx context.Context, path string, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request payload: %w", err)
	}
	return c.do(ctx, "POST", c.resolve(path), body, "application/json")
}

func (c *Client) do(ctx context.Context, method, url string, body []byte, contentType string) (*Response, error) {
	var lastErr error
	backoff := 250 * time.Millisecond

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			log.Warn().Str("url", url).Int("attempt", attempt).Msg("Retrying request")
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := c.newRequest(ctx, method, url, reader)
		if err != nil {
			return nil, err
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		closeErr := resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if closeErr != nil {
			return nil, closeErr
		}

		// Retry server-side failures, return everything else to the caller.
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error: %s", resp.Status)
			continue
		}

		return &Response{
			StatusCode: resp.StatusCode,
			Body:       respBody,
		}, nil
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.maxRetries, lastErr)
}

// DownloadFile streams the content at url to target. The file is written to
// a temporary sibling first and renamed into place so an interrupted
// download never leaves a truncated artifact behind.
func (c *Client) DownloadFile(ctx context.Context, url string, target string) error {
	req, err := c.newRequest(ctx, "GET", url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", url, err)
	}
	defer func(Body io.ReadCloser) {
		if closeErr := Body.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("Error closing download body")
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading %s: unexpected status %s", url, resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("renaming to %s: %w", target, err)
	}

	return nil
}
