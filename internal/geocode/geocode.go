// Package geocode resolves place names from search queries to coordinates.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sudo-init-do/gearhub/internal/geo"
)

// ErrNoResults is returned when the place could not be resolved.
var ErrNoResults = errors.New("geocode: no results")

// Geocoder resolves a place name to a point.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (geo.Point, error)
}

// Client calls the maps proxy over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Client for the proxy at baseURL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

type location struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// response accepts both a flat {"lat","lng"} body and the Google-style
// results array.
type response struct {
	location
	Results []struct {
		Geometry struct {
			Location location `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode looks up place.
func (c *Client) Geocode(ctx context.Context, place string) (geo.Point, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return geo.Point{}, ErrNoResults
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return geo.Point{}, fmt.Errorf("geocode: bad url: %w", err)
	}
	q := u.Query()
	q.Set("address", place)
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return geo.Point{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return geo.Point{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return geo.Point{}, fmt.Errorf("geocode: status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return geo.Point{}, fmt.Errorf("geocode: decode: %w", err)
	}

	loc := body.location
	if loc.Lat == nil || loc.Lng == nil {
		if len(body.Results) == 0 {
			return geo.Point{}, ErrNoResults
		}
		loc = body.Results[0].Geometry.Location
	}
	if loc.Lat == nil || loc.Lng == nil || !geo.IsValidCoordinate(*loc.Lat, *loc.Lng) {
		return geo.Point{}, ErrNoResults
	}
	return geo.Point{Lat: *loc.Lat, Lng: *loc.Lng}, nil
}
