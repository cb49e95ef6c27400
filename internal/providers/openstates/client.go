package openstates

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"represent/internal/platform/config"
	dErrors "represent/pkg/domain-errors"
)

// Person is one raw provider record. Field shapes follow the provider's
// people endpoint; normalization into the Representative schema happens in
// the adapter, nowhere else.
type Person struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Image       string `json:"image"`
	Party       json.RawMessage `json:"party"`
	CurrentRole struct {
		Title      string `json:"title"`
		DivisionID string `json:"division_id"`
	} `json:"current_role"`
	CapitolOffice struct {
		Voice   string `json:"voice"`
		Address string `json:"address"`
	} `json:"capitol_office"`
	Links []struct {
		URL string `json:"url"`
	} `json:"links"`
	Jurisdiction struct {
		Name string `json:"name"`
	} `json:"jurisdiction"`
}

// PartyName handles the provider's two party encodings: a plain string or a
// list of {name} objects.
func (p Person) PartyName() string {
	if len(p.Party) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(p.Party, &asString); err == nil {
		return asString
	}
	var asList []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(p.Party, &asList); err == nil && len(asList) > 0 {
		return asList[0].Name
	}
	return ""
}

// Page is one page of people results.
type Page struct {
	Results    []Person `json:"results"`
	Pagination struct {
		Page    int `json:"page"`
		MaxPage int `json:"max_page"`
		PerPage int `json:"per_page"`
	} `json:"pagination"`
}

// Client queries the state legislator provider one page at a time.
type Client interface {
	People(ctx context.Context, jurisdiction string, page int) (*Page, error)
}

// maxPerPage is the provider's documented page-size cap.
const maxPerPage = 50

// HTTPClient is the real provider client.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient builds a state legislator client from config.
func NewHTTPClient(cfg config.ProviderConfig) *HTTPClient {
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *HTTPClient) People(ctx context.Context, jurisdiction string, page int) (*Page, error) {
	u, err := url.Parse(c.baseURL + "/people")
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build people URL")
	}
	q := u.Query()
	q.Set("jurisdiction", jurisdiction)
	q.Set("per_page", strconv.Itoa(maxPerPage))
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build people request")
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeExternalService,
			"state legislator provider unreachable")
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return nil, dErrors.New(dErrors.CodeRateLimited,
			"State legislator provider rate limit exceeded")
	case http.StatusUnauthorized:
		return nil, dErrors.New(dErrors.CodeExternalService,
			"State legislator provider authentication failed")
	default:
		return nil, dErrors.Newf(dErrors.CodeExternalService,
			"state legislator provider returned status %d", resp.StatusCode)
	}

	var parsed Page
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeExternalService,
			"state legislator provider returned malformed payload")
	}
	return &parsed, nil
}

var _ Client = (*HTTPClient)(nil)
