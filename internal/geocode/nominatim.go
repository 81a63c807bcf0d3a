// Package geocode resolves place names to coordinates through an
// OpenStreetMap Nominatim search endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"saferoute/internal/config"
	"saferoute/internal/domain/entities"
)

var (
	// ErrLocationNotFound means the search succeeded but matched nothing.
	ErrLocationNotFound = errors.New("location not found")
	// ErrEmptyQuery is returned for a blank place name; no request is sent.
	ErrEmptyQuery = errors.New("place name required")
)

// searchResult is one entry of Nominatim's JSON search response. Coordinates
// arrive as decimal strings.
type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NominatimClient implements services.Geocoder. It does not retry; callers
// bound the total wait through ctx and the configured client timeout.
type NominatimClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

func NewNominatimClient(cfg config.GeocodingConfig) *NominatimClient {
	return &NominatimClient{
		baseURL:   strings.TrimRight(cfg.Endpoint, "/"),
		userAgent: cfg.UserAgent,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Geocode returns the coordinates of the best match for place.
func (c *NominatimClient) Geocode(ctx context.Context, place string) (entities.Location, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return entities.Location{}, ErrEmptyQuery
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("q", place)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return entities.Location{}, fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return entities.Location{}, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entities.Location{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return entities.Location{}, fmt.Errorf("error decoding response: %w", err)
	}
	if len(results) == 0 {
		return entities.Location{}, ErrLocationNotFound
	}

	return parseResult(results[0])
}

func parseResult(r searchResult) (entities.Location, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return entities.Location{}, fmt.Errorf("error parsing latitude %q: %w", r.Lat, err)
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return entities.Location{}, fmt.Errorf("error parsing longitude %q: %w", r.Lon, err)
	}

	loc := entities.NewLocation(lat, lon)
	if err := loc.Validate(); err != nil {
		return entities.Location{}, err
	}
	return loc, nil
}
