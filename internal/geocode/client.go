package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrUnavailable indicates the geocoding request itself failed
// (transport error or non-2xx response). A successful request with zero
// matches is not an error.
var ErrUnavailable = errors.New("geocoding service unavailable")

const (
	// userAgent identifies this client per the Nominatim usage policy.
	userAgent = "cuaca-api/1.0 (github.com/adisdwi/cuaca-api)"

	acceptLanguage = "id,en"

	minQueryLen  = 2
	defaultLimit = 5
)

// SourceType classifies where a Location's name came from.
type SourceType string

const (
	SourceCity    SourceType = "city"
	SourcePlace   SourceType = "place"
	SourceUnknown SourceType = "unknown"
)

// Location is the uniform place record produced by search, reverse
// lookup, and the static city list. Immutable once constructed.
type Location struct {
	Name     string     `json:"name"`
	FullName string     `json:"fullName"`
	Lat      float64    `json:"lat"`
	Lon      float64    `json:"lon"`
	Type     SourceType `json:"type"`
}

// Client wraps the Nominatim forward and reverse geocoding endpoints.
type Client struct {
	client  *http.Client
	baseURL string
	country string
	timeout time.Duration
	log     *slog.Logger
}

// NewClient creates a geocoding client. country restricts forward
// search results to one country code; empty means worldwide.
func NewClient(client *http.Client, baseURL, country string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		client:  client,
		baseURL: baseURL,
		country: country,
		timeout: timeout,
		log:     logger,
	}
}

// Search performs a forward place search. Queries shorter than two
// characters return an empty result without touching the network.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Location, error) {
	query = strings.TrimSpace(query)
	if len(query) < minQueryLen {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("accept-language", acceptLanguage)
	params.Set("addressdetails", "1")
	params.Set("namedetails", "1")
	if c.country != "" {
		params.Set("countrycodes", c.country)
	}

	var places []place
	if err := c.getJSON(ctx, "/search", params, &places); err != nil {
		return nil, err
	}
	c.log.Debug("geocode search", "query", query, "matches", len(places))

	locations := make([]Location, 0, len(places))
	for _, p := range places {
		locations = append(locations, p.toLocation())
	}
	return locations, nil
}

// Reverse resolves coordinates to a place. Returns nil without error
// when nothing is known about the coordinates.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (*Location, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("accept-language", acceptLanguage)
	params.Set("addressdetails", "1")
	params.Set("namedetails", "1")
	params.Set("zoom", "10")

	var p place
	if err := c.getJSON(ctx, "/reverse", params, &p); err != nil {
		return nil, err
	}

	// Nominatim reports "unable to geocode" as an error field in a 200.
	if p.Err != "" || p.DisplayName == "" {
		return nil, nil
	}

	loc := p.toLocation()
	return &loc, nil
}

// ValidCoordinate reports whether lat/lon are finite and inside the
// valid geographic ranges.
func ValidCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
