// Package cinemeta is a client for the Cinemeta-style public metadata
// service keyed by canonical identifier.
package cinemeta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/subflow/subflow/internal/mediaid"
	"github.com/subflow/subflow/internal/metadata"
)

var (
	ErrNotFound = errors.New("title not found")
	ErrAPIError = errors.New("metadata service error")
)

// Client queries the metadata service over JSON.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     zerolog.Logger
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     logger.With().Str("component", "cinemeta").Logger(),
	}
}

// GetMeta looks up one title by kind and canonical id.
func (c *Client) GetMeta(ctx context.Context, kind mediaid.Kind, canonicalID string) (*metadata.MediaMetadata, error) {
	endpoint := fmt.Sprintf("%s/meta/%s/%s.json", c.baseURL, kind, canonicalID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("url", endpoint).Msg("HTTP request failed")
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	var body metaResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if body.Meta == nil || body.Meta.Name == "" {
		return nil, ErrNotFound
	}

	result := &metadata.MediaMetadata{
		Title: body.Meta.Name,
		Year:  leadingYear(body.Meta.Year, body.Meta.ReleaseInfo),
		Kind:  kind,
	}
	if body.Meta.Type == string(mediaid.KindSeries) {
		result.Kind = mediaid.KindSeries
	} else if body.Meta.Type == string(mediaid.KindMovie) {
		result.Kind = mediaid.KindMovie
	}

	c.logger.Debug().
		Str("id", canonicalID).
		Str("title", result.Title).
		Int("year", result.Year).
		Msg("Got metadata")

	return result, nil
}

// leadingYear extracts the first 4-digit year from the year field, falling
// back to releaseInfo. Series carry ranges like "2011-2019".
func leadingYear(fields ...string) int {
	for _, f := range fields {
		if len(f) >= 4 {
			if y, err := strconv.Atoi(f[:4]); err == nil && y > 1800 {
				return y
			}
		}
	}
	return 0
}
