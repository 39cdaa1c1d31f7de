package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"srburger-api/delivery"

	"github.com/goccy/go-json"
)

// ErrNoMatch means the address text resolved to nothing.
var ErrNoMatch = errors.New("address not found")

type Place struct {
	FormattedAddress string         `json:"formatted_address"`
	Location         delivery.Point `json:"location"`
}

// Resolver turns free-text addresses into coordinates.
type Resolver interface {
	Resolve(ctx context.Context, address string) (Place, error)
}

// NominatimClient queries a Nominatim-compatible search endpoint.
type NominatimClient struct {
	baseURL     string
	countryCode string
	userAgent   string
	httpClient  *http.Client
}

func NewNominatimClient(baseURL, countryCode string) *NominatimClient {
	return &NominatimClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		countryCode: countryCode,
		userAgent:   "srburger-api/1.0",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (c *NominatimClient) Resolve(ctx context.Context, address string) (Place, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Place{}, ErrNoMatch
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "jsonv2")
	q.Set("limit", "1")
	if c.countryCode != "" {
		q.Set("countrycodes", c.countryCode)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return Place{}, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Place{}, fmt.Errorf("geocoder request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Place{}, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Place{}, fmt.Errorf("decode geocoder response: %w", err)
	}
	if len(results) == 0 {
		return Place{}, ErrNoMatch
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Place{}, fmt.Errorf("geocoder latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Place{}, fmt.Errorf("geocoder longitude: %w", err)
	}
	return Place{
		FormattedAddress: results[0].DisplayName,
		Location:         delivery.Point{Lat: lat, Lng: lng},
	}, nil
}

// Static resolves from a fixed table keyed by lower-cased address. Useful
// when no geocoder is configured and in tests.
type Static map[string]Place

func (s Static) Resolve(_ context.Context, address string) (Place, error) {
	p, ok := s[strings.ToLower(strings.TrimSpace(address))]
	if !ok {
		return Place{}, ErrNoMatch
	}
	return p, nil
}
