package cds

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/khanalp/climatefetch/internal/config"
	"github.com/khanalp/climatefetch/pkg/http/client"
	"github.com/rs/zerolog/log"
)

// Client talks to a Copernicus data store (CDS or ADS). A retrieval is
// synchronous from the caller's point of view: the request is submitted,
// the resulting task polled until the store has prepared the file, and the
// file downloaded to the target path.
type Client struct {
	httpClient   client.Interface
	pollInterval time.Duration
}

type Options struct {
	BaseURL      string
	Key          string // "uid:secret" form from the rc file
	Timeout      time.Duration
	MaxRetries   int
	PollInterval time.Duration
}

func New(opts Options) *Client {
	if opts.PollInterval == 0 {
		opts.PollInterval = 5 * time.Second
	}

	creds := config.Credentials{Key: opts.Key}
	return &Client{
		httpClient: client.New(client.Options{
			BaseURL:    opts.BaseURL,
			Timeout:    opts.Timeout,
			MaxRetries: opts.MaxRetries,
			Username:   creds.UID(),
			Password:   creds.Secret(),
		}),
		pollInterval: opts.PollInterval,
	}
}

// NewFromCredentials builds a client from a loaded rc file.
func NewFromCredentials(creds *config.Credentials, cfg *config.Config) *Client {
	return New(Options{
		BaseURL:    creds.URL,
		Key:        creds.Key,
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.MaxRetries,
	})
}

type taskStatus struct {
	State     string `json:"state"`
	RequestID string `json:"request_id"`
	Location  string `json:"location"`
	Error     struct {
		Message string `json:"message"`
		Reason  string `json:"reason"`
	} `json:"error"`
}

// Retrieve submits a request for one dataset, blocks until the store has
// finished preparing the result, and writes it to target. Implements
// batch.Retriever.
func (c *Client) Retrieve(ctx context.Context, dataset string, payload map[string]any, target string) error {
	resp, err := c.httpClient.PostJSON(ctx, "/resources/"+dataset, payload)
	if err != nil {
		return fmt.Errorf("submitting request for %s: %w", dataset, err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return NewAPIError(fmt.Sprintf("submitting request for %s: status %d: %s",
			dataset, resp.StatusCode, strings.TrimSpace(string(resp.Body))), nil)
	}

	var task taskStatus
	if err := json.Unmarshal(resp.Body, &task); err != nil {
		return fmt.Errorf("decoding task status: %w", err)
	}

	task, err = c.awaitCompletion(ctx, task)
	if err != nil {
		return err
	}

	log.Debug().Str("dataset", dataset).Str("location", task.Location).Msg("Result ready, downloading")
	if err := c.httpClient.DownloadFile(ctx, task.Location, target); err != nil {
		return fmt.Errorf("downloading result for %s: %w", dataset, err)
	}

	log.Info().Str("dataset", dataset).Str("target", target).Msg("Download complete")
	return nil
}

func (c *Client) awaitCompletion(ctx context.Context, task taskStatus) (taskStatus, error) {
	requestID := task.RequestID
	for {
		switch task.State {
		case "completed":
			return task, nil
		case "failed":
			return task, NewAPIError(fmt.Sprintf("request failed: %s: %s",
				task.Error.Reason, task.Error.Message), nil)
		case "queued", "running":
			log.Debug().Str("request_id", requestID).Str("state", task.State).Msg("Waiting for remote processing")
		default:
			return task, NewAPIError(fmt.Sprintf("unknown task state %q", task.State), nil)
		}

		select {
		case <-ctx.Done():
			return task, ctx.Err()
		case <-time.After(c.pollInterval):
		}

		resp, err := c.httpClient.Get(ctx, "/tasks/"+requestID)
		if err != nil {
			return task, fmt.Errorf("polling task %s: %w", requestID, err)
		}
		if resp.StatusCode != http.StatusOK {
			return task, NewAPIError(fmt.Sprintf("polling task %s: status %d",
				requestID, resp.StatusCode), nil)
		}
		if err := json.Unmarshal(resp.Body, &task); err != nil {
			return task, fmt.Errorf("decoding task status: %w", err)
		}
	}
}
