package foreca

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// searchLang controls the locale of returned location and phrase text.
const searchLang = "id"

// Client wraps the Foreca REST API: location search plus current
// conditions and daily/hourly forecasts by provider id. All calls are
// authenticated through the injected TokenSource.
type Client struct {
	name    string
	baseURL string
	client  *http.Client
	tokens  *TokenSource
	circuit *gobreaker.CircuitBreaker
	ids     *idCache
	log     *slog.Logger
}

// NewClient creates a weather client. idTTL bounds how long resolved
// provider ids are reused before the name is searched again.
func NewClient(client *http.Client, tokens *TokenSource, baseURL string, idTTL time.Duration, logger *slog.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "foreca",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		name:    "foreca",
		baseURL: baseURL,
		client:  client,
		tokens:  tokens,
		circuit: cb,
		ids:     newIDCache(idTTL),
		log:     logger,
	}
}

// LocationID resolves a city name to the provider's opaque location id,
// consulting the id cache first.
func (c *Client) LocationID(ctx context.Context, city string) (LocationID, error) {
	if id, ok := c.ids.get(city); ok {
		return id, nil
	}

	var payload struct {
		Locations []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"locations"`
	}

	path := fmt.Sprintf("/api/v1/location/search/%s?lang=%s", url.PathEscape(strings.TrimSpace(city)), searchLang)
	if err := c.getJSON(ctx, path, &payload); err != nil {
		return 0, err
	}

	if len(payload.Locations) == 0 {
		return 0, &LocationNotFoundError{City: city}
	}

	id := LocationID(payload.Locations[0].ID)
	c.ids.put(city, id)
	c.log.Debug("resolved location id", "city", city, "id", int64(id))
	return id, nil
}

// Current fetches the observed conditions for a location id.
func (c *Client) Current(ctx context.Context, id LocationID) (CurrentWeather, error) {
	var payload struct {
		Current CurrentWeather `json:"current"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/current/%d", id), &payload); err != nil {
		return CurrentWeather{}, err
	}
	return payload.Current, nil
}

// Daily fetches the daily forecast for a location id. Order is the
// provider's chronological order.
func (c *Client) Daily(ctx context.Context, id LocationID) ([]DailyEntry, error) {
	var payload struct {
		Forecast []DailyEntry `json:"forecast"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/forecast/daily/%d", id), &payload); err != nil {
		return nil, err
	}
	return payload.Forecast, nil
}

// Hourly fetches the hourly forecast for a location id.
func (c *Client) Hourly(ctx context.Context, id LocationID) ([]HourlyEntry, error) {
	var payload struct {
		Forecast []HourlyEntry `json:"forecast"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/forecast/hourly/%d", id), &payload); err != nil {
		return nil, err
	}
	return payload.Forecast, nil
}

// PruneIDCache drops expired id cache entries; wired to the janitor.
func (c *Client) PruneIDCache() int {
	return c.ids.prune()
}

// getJSON issues one authenticated GET through the circuit breaker and
// decodes the 2xx response body into out.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("weather request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, execErr := c.client.Do(req)
		if execErr != nil {
			return nil, fmt.Errorf("weather request failed: %w", execErr)
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			resp.Body.Close()
			return nil, ErrRateLimited
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			resp.Body.Close()
			// Token no longer accepted; the next call re-acquires.
			c.tokens.Invalidate()
			return nil, fmt.Errorf("%w: provider rejected token with status %d", ErrAuth, resp.StatusCode)
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return nil, fmt.Errorf("weather provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
		}

		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("weather provider temporarily unavailable: %w", err)
		}
		return err
	}

	resp := result.(*http.Response)
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("weather response decode: %w", err)
	}
	return nil
}
