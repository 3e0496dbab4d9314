package imagestore

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config holds image store client configuration
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Store is the external image storage collaborator. Jobs hold opaque
// references into it; the lifecycle manager releases them when a job's image
// is replaced or its record is deleted.
type Store interface {
	Release(ctx context.Context, remoteID string) error
}

// Client talks to the image store over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new image store client. A nil httpClient gets a default
// client with the configured timeout.
func NewClient(config *Config, logger *slog.Logger, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		apiKey:     config.APIKey,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Release asks the image store to delete the image behind remoteID.
func (c *Client) Release(ctx context.Context, remoteID string) error {
	if remoteID == "" {
		return nil
	}

	endpoint := fmt.Sprintf("%s/v1/images/%s", c.baseURL, url.PathEscape(remoteID))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build image release request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to release image %s: %w", remoteID, err)
	}
	defer resp.Body.Close()

	// A 404 means the store already dropped it; release is idempotent.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("image store returned status %d releasing image %s", resp.StatusCode, remoteID)
	}

	c.logger.Debug("Released image",
		slog.String("remote_id", remoteID),
		slog.Int("status", resp.StatusCode),
	)

	return nil
}
