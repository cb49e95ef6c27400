package resolver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sort"

	"represent/internal/platform/config"
	dErrors "represent/pkg/domain-errors"
)

// Division is one geographic/political unit returned for an address.
type Division struct {
	OCDID string `json:"ocd_id"`
	Name  string `json:"name"`
}

// Client queries the external division provider for the divisions covering
// an address.
type Client interface {
	Lookup(ctx context.Context, address string) ([]Division, error)
}

// HTTPClient talks to a Civic Information style divisionsByAddress endpoint.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient builds a division provider client from config.
func NewHTTPClient(cfg config.ProviderConfig) *HTTPClient {
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// divisionsResponse mirrors the provider's wire shape: a map keyed by OCD
// identifier.
type divisionsResponse struct {
	Divisions map[string]struct {
		Name string `json:"name"`
	} `json:"divisions"`
}

type providerError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Lookup returns every division covering the address. Ambiguous inputs such
// as zip-only queries legitimately return multiple overlapping districts; all
// candidates are returned and the aggregator dedups downstream.
func (c *HTTPClient) Lookup(ctx context.Context, address string) ([]Division, error) {
	u, err := url.Parse(c.baseURL + "/divisionsByAddress")
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build division provider URL")
	}
	q := u.Query()
	q.Set("address", address)
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build division provider request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeExternalService,
			"division provider unreachable")
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return nil, dErrors.New(dErrors.CodeAddressNotFound,
			"No divisions found for the provided address").
			WithDetails(providerMessage(body))
	case http.StatusTooManyRequests:
		return nil, dErrors.New(dErrors.CodeRateLimited,
			"Division provider rate limit exceeded. Please try again later.").
			WithDetails(providerMessage(body))
	default:
		return nil, dErrors.Newf(dErrors.CodeExternalService,
			"division provider returned status %d", resp.StatusCode)
	}

	var parsed divisionsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeExternalService,
			"division provider returned malformed payload")
	}

	divisions := make([]Division, 0, len(parsed.Divisions))
	for ocdID, info := range parsed.Divisions {
		divisions = append(divisions, Division{OCDID: ocdID, Name: info.Name})
	}
	// The provider returns a map; sort for a stable order across calls.
	sort.Slice(divisions, func(i, j int) bool { return divisions[i].OCDID < divisions[j].OCDID })

	return divisions, nil
}

func providerMessage(body []byte) string {
	var pe providerError
	if err := json.Unmarshal(body, &pe); err != nil {
		return ""
	}
	return pe.Error.Message
}

var _ Client = (*HTTPClient)(nil)
