package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/HamzaHersi01/Posting-Discovery/internal/api/domain"
)

// Config holds postcode resolution service configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Resolver converts a postcode into a coordinate pair usable for spatial
// queries. Implementations return ok=false for every failure mode: no match,
// malformed response, transport error, timeout.
type Resolver interface {
	Resolve(ctx context.Context, postcode string) (*domain.Location, bool)
}

// Client resolves postcodes against a postcodes.io style lookup API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new postcode resolution client. A nil httpClient gets a
// default client with the configured timeout.
func NewClient(config *Config, logger *slog.Logger, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// lookupResponse mirrors the resolution service payload.
type lookupResponse struct {
	Status int `json:"status"`
	Result struct {
		Postcode  string  `json:"postcode"`
		Longitude float64 `json:"longitude"`
		Latitude  float64 `json:"latitude"`
	} `json:"result"`
}

// Resolve performs a single resolution attempt for the given postcode. The
// input is trimmed first; an empty postcode resolves to no result without an
// external call. On success the returned location carries the coordinate pair
// and the canonical postcode from the service, never the raw input. Every
// failure collapses to ok=false so callers have one failure mode to handle;
// transport failures are logged at warn level for operational visibility.
func (c *Client) Resolve(ctx context.Context, postcode string) (*domain.Location, bool) {
	postcode = strings.TrimSpace(postcode)
	if postcode == "" {
		return nil, false
	}

	endpoint := fmt.Sprintf("%s/postcodes/%s", c.baseURL, url.PathEscape(postcode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Warn("Failed to build postcode lookup request",
			slog.String("postcode", postcode),
			slog.Any("error", err),
		)
		return nil, false
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport failure, not a "no match": logged distinctly but
		// surfaced identically so callers handle a single failure mode.
		c.logger.Warn("Postcode resolution service unreachable",
			slog.String("postcode", postcode),
			slog.Any("error", err),
		)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.logger.Debug("Postcode not found",
			slog.String("postcode", postcode),
		)
		return nil, false
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Unexpected status from postcode resolution service",
			slog.String("postcode", postcode),
			slog.Int("status", resp.StatusCode),
		)
		return nil, false
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Warn("Malformed response from postcode resolution service",
			slog.String("postcode", postcode),
			slog.Any("error", err),
		)
		return nil, false
	}

	if payload.Result.Postcode == "" {
		c.logger.Debug("Postcode lookup returned empty result",
			slog.String("postcode", postcode),
		)
		return nil, false
	}

	return &domain.Location{
		Longitude: payload.Result.Longitude,
		Latitude:  payload.Result.Latitude,
		Postcode:  payload.Result.Postcode,
	}, true
}
