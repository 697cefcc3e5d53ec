package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/oggyb/eventswipe/internal/config"
	svcErr "github.com/oggyb/eventswipe/internal/errors"
	"github.com/oggyb/eventswipe/internal/geo"
)

// LocationIQ talks to the LocationIQ search and reverse endpoints.
// Requests are throttled to the plan's rate.
type LocationIQ struct {
	baseURL string
	token   string
	client  *http.Client
	limiter *rate.Limiter
}

// NewLocationIQ builds a client from the Geocoder config group.
// A nil client uses one with the configured timeout.
func NewLocationIQ(cfg *config.Config, client *http.Client) *LocationIQ {
	if client == nil {
		client = &http.Client{Timeout: cfg.Geocoder.Timeout}
	}
	rps := cfg.Geocoder.RatePerSecond
	if rps <= 0 {
		rps = 1
	}
	return &LocationIQ{
		baseURL: strings.TrimRight(cfg.Geocoder.BaseURL, "/"),
		token:   cfg.Geocoder.Token,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

type reverseResult struct {
	Address struct {
		Road    string `json:"road"`
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
	} `json:"address"`
}

// Geocode returns the coordinates of the best match for address.
func (l *LocationIQ) Geocode(ctx context.Context, address string) (geo.Point, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return geo.Point{}, svcErr.Validation("address is empty")
	}

	q := url.Values{}
	q.Set("key", l.token)
	q.Set("q", address)
	q.Set("format", "json")

	var results []searchResult
	if err := l.get(ctx, "/search.php", q, &results); err != nil {
		return geo.Point{}, err
	}
	if len(results) == 0 {
		return geo.Point{}, ErrNoResults
	}

	lat, errLat := strconv.ParseFloat(results[0].Lat, 64)
	lng, errLng := strconv.ParseFloat(results[0].Lon, 64)
	p := geo.Point{Lat: lat, Lng: lng}
	if errLat != nil || errLng != nil || !p.Valid() {
		return geo.Point{}, fmt.Errorf("geocode: bad coordinates %q,%q: %w", results[0].Lat, results[0].Lon, svcErr.ErrUnavailable)
	}
	return p, nil
}

// Reverse resolves the city (or town, or village) and road at p.
func (l *LocationIQ) Reverse(ctx context.Context, p geo.Point) (Place, error) {
	if !p.Valid() {
		return Place{}, svcErr.Validation("coordinates out of range")
	}

	q := url.Values{}
	q.Set("key", l.token)
	q.Set("lat", strconv.FormatFloat(p.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(p.Lng, 'f', -1, 64))
	q.Set("format", "json")

	var res reverseResult
	if err := l.get(ctx, "/reverse.php", q, &res); err != nil {
		return Place{}, err
	}

	city := res.Address.City
	if city == "" {
		city = res.Address.Town
	}
	if city == "" {
		city = res.Address.Village
	}
	return Place{Street: res.Address.Road, City: city}, nil
}

func (l *LocationIQ) get(ctx context.Context, path string, q url.Values, out any) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := l.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("geocode: %s: %v: %w", path, err, svcErr.ErrUnavailable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// LocationIQ answers 404 "Unable to geocode" for unknown places
		return ErrNoResults
	case resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("geocode: %s: status %d after %s: %s: %w",
			path, resp.StatusCode, time.Since(start).Round(time.Millisecond),
			strings.TrimSpace(string(body)), svcErr.ErrUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("geocode: decode %s: %v: %w", path, err, svcErr.ErrUnavailable)
	}
	return nil
}
