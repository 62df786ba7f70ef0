// Package geocode is a thin reverse-geocoding client against a
// Nominatim-compatible endpoint. Lookups are best-effort: any transport or
// decode failure surfaces as ErrUnavailable, which callers treat as "no
// location data", never as a fatal parse error.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// ErrUnavailable signals that the geocoding backend could not be reached or
// returned an unusable response.
var ErrUnavailable = errors.New("geocoding unavailable")

// Location is the administrative place of a coordinate.
type Location struct {
	City    string `json:"city,omitempty"`
	Town    string `json:"town,omitempty"`
	Country string `json:"country,omitempty"`
}

// Client performs reverse-geocoding lookups with an enforced minimum
// interval between requests to respect the upstream rate limit.
type Client struct {
	baseURL    string
	httpClient *http.Client
	interval   time.Duration

	mu       sync.Mutex
	lastCall time.Time
}

// NewClient creates a geocoding client. interval is the minimum pause
// between consecutive upstream requests.
func NewClient(baseURL string, interval time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		interval:   interval,
	}
}

type nominatimResponse struct {
	Address struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		Country string `json:"country"`
	} `json:"address"`
}

// Lookup reverse-geocodes a coordinate. It blocks briefly when called more
// often than the configured interval allows; this is the only intentional
// blocking point inside the parse path.
func (c *Client) Lookup(ctx context.Context, lat, lon float64) (*Location, error) {
	c.throttle()

	url := fmt.Sprintf("%s/reverse?format=jsonv2&lat=%.6f&lon=%.6f", c.baseURL, lat, lon)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("User-Agent", "fitness-backend-go")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var decoded nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	loc := &Location{
		City:    decoded.Address.City,
		Town:    decoded.Address.Town,
		Country: decoded.Address.Country,
	}
	if loc.Town == "" {
		loc.Town = decoded.Address.Village
	}
	return loc, nil
}

// throttle sleeps until at least one interval has passed since the last call.
func (c *Client) throttle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lastCall.IsZero() {
		if wait := c.interval - time.Since(c.lastCall); wait > 0 {
			time.Sleep(wait)
		}
	}
	c.lastCall = time.Now()
}
