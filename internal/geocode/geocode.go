// Package geocode resolves an address to coordinates for response metadata.
// Geocoding is decorative: any failure here is logged and swallowed, never
// surfaced to the caller.
package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"represent/internal/platform/config"
	dErrors "represent/pkg/domain-errors"
)

// Point is a geocoded location.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Client geocodes addresses. Implementations return (nil, nil) when the
// address produces no results.
type Client interface {
	Geocode(ctx context.Context, address string) (*Point, error)
}

// HTTPClient talks to a Maps-style geocoding endpoint.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient builds a geocoding client from config. Returns nil when no
// endpoint is configured; callers treat a nil client as geocoding disabled.
func NewHTTPClient(cfg config.ProviderConfig) *HTTPClient {
	if cfg.BaseURL == "" {
		return nil
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type geocodeResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode returns the first candidate location for an ambiguous address, or
// (nil, nil) when the provider finds nothing.
func (c *HTTPClient) Geocode(ctx context.Context, address string) (*Point, error) {
	u, err := url.Parse(c.baseURL + "/geocode/json")
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build geocode URL")
	}
	q := u.Query()
	q.Set("address", address)
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build geocode request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeExternalService, "geocoder unreachable")
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, dErrors.Newf(dErrors.CodeExternalService,
			"geocoder returned status %d", resp.StatusCode)
	}

	var parsed geocodeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeExternalService,
			"geocoder returned malformed payload")
	}
	if len(parsed.Results) == 0 {
		return nil, nil
	}

	location := parsed.Results[0].Geometry.Location
	return &Point{Latitude: location.Lat, Longitude: location.Lng}, nil
}

var _ Client = (*HTTPClient)(nil)
