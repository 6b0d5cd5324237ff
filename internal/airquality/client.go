package airquality

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/adisdwi/cuaca-api/internal/geocode"
)

// Reading holds the pollution measurements for the city nearest to the
// queried coordinates.
type Reading struct {
	AQIUS         int     `json:"aqius"`         // US EPA air quality index
	PM25          float64 `json:"pm25"`          // µg/m³
	PM10          float64 `json:"pm10"`          // µg/m³
	MainPollutant string  `json:"mainPollutant"` // e.g. "p2" for PM2.5
}

// Client wraps the IQAir (AirVisual) nearest-city endpoint. The lookup
// is best-effort: every failure mode degrades to a nil Reading so the
// parent flow never fails on air quality alone.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	log     *slog.Logger
}

// NewClient creates an air-quality client with a bounded per-request
// timeout; the lookup runs in parallel with weather calls and must not
// block them indefinitely.
func NewClient(client *http.Client, baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
		timeout: timeout,
		log:     logger,
	}
}

// Nearest fetches the pollution reading for the city nearest to the
// coordinates. Malformed coordinates short-circuit to nil without a
// request; request failures of any kind log and return nil.
func (c *Client) Nearest(ctx context.Context, lat, lon float64) *Reading {
	if !geocode.ValidCoordinate(lat, lon) {
		c.log.Warn("air quality lookup skipped: invalid coordinates", "lat", lat, "lon", lon)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("key", c.apiKey)

	u := fmt.Sprintf("%s/v2/nearest_city?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		c.log.Warn("air quality request build failed", "err", err)
		return nil
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("air quality request failed", "lat", lat, "lon", lon, "err", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("air quality provider returned non-success status", "status", resp.StatusCode)
		return nil
	}

	var payload struct {
		Status string `json:"status"`
		Data   struct {
			Current struct {
				Pollution struct {
					AQIUS  int    `json:"aqius"`
					MainUS string `json:"mainus"`
					P2     struct {
						Conc float64 `json:"conc"`
					} `json:"p2"`
					P1 struct {
						Conc float64 `json:"conc"`
					} `json:"p1"`
				} `json:"pollution"`
			} `json:"current"`
		} `json:"data"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log.Warn("air quality response decode failed", "err", err)
		return nil
	}
	if payload.Status != "success" {
		c.log.Warn("air quality provider reported failure", "status", payload.Status)
		return nil
	}

	pollution := payload.Data.Current.Pollution
	return &Reading{
		AQIUS:         pollution.AQIUS,
		PM25:          pollution.P2.Conc,
		PM10:          pollution.P1.Conc,
		MainPollutant: pollution.MainUS,
	}
}
