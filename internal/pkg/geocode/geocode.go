// Package geocode resolves free-form place queries to coordinates through
// a Nominatim-compatible search endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/unicen/alumni-registry/internal/pkg/logger"
)

// Coordinates is a resolved latitude/longitude pair
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Resolver turns a place query into coordinates. The boolean result reports
// whether a location was found; resolution failures never surface as errors.
type Resolver interface {
	Resolve(ctx context.Context, query string) (Coordinates, bool)
}

// Client is a Resolver backed by an HTTP geocoding service
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a geocoding client. The user agent identifies this
// service to the upstream provider, which rejects anonymous clients.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve looks up a single best match for the query. Any failure, whether
// network, decoding, or an empty result set, is logged and reported as a
// miss so callers can fall through to a coarser query.
func (c *Client) Resolve(ctx context.Context, query string) (Coordinates, bool) {
	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		logger.Warn().Err(err).Str("query", query).Msg("Failed to build geocoding request")
		return Coordinates{}, false
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn().Err(err).Str("query", query).Msg("Geocoding request failed")
		return Coordinates{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn().Int("status", resp.StatusCode).Str("query", query).Msg("Geocoding service returned non-OK status")
		return Coordinates{}, false
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		logger.Warn().Err(err).Str("query", query).Msg("Failed to decode geocoding response")
		return Coordinates{}, false
	}
	if len(results) == 0 {
		return Coordinates{}, false
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		logger.Warn().Str("lat", results[0].Lat).Str("query", query).Msg("Geocoding response has malformed latitude")
		return Coordinates{}, false
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		logger.Warn().Str("lon", results[0].Lon).Str("query", query).Msg("Geocoding response has malformed longitude")
		return Coordinates{}, false
	}

	logger.Debug().Str("query", query).Float64("lat", lat).Float64("lon", lon).Msg("Geocoding hit")
	return Coordinates{Latitude: lat, Longitude: lon}, true
}
