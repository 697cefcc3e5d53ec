// Package geocode resolves addresses to coordinates and back.
package geocode

import (
	"context"
	"errors"
	"fmt"

	svcErr "github.com/oggyb/eventswipe/internal/errors"
	"github.com/oggyb/eventswipe/internal/geo"
)

// ErrNoResults means the provider answered but knows no such place.
var ErrNoResults = fmt.Errorf("geocode: no results: %w", svcErr.ErrNotFound)

// Place is the reverse-geocoded address of a coordinate.
type Place struct {
	Street string `json:"street"`
	City   string `json:"city"`
}

// Geocoder is the external lookup used for preference-location overrides,
// event creation and profile location capture.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (geo.Point, error)
	Reverse(ctx context.Context, p geo.Point) (Place, error)
}

// Disabled is used when no provider token is configured. Every lookup fails
// as unavailable so callers take their fallback path.
type Disabled struct{}

var errDisabled = fmt.Errorf("geocode: provider not configured: %w", svcErr.ErrUnavailable)

func (Disabled) Geocode(context.Context, string) (geo.Point, error) {
	return geo.Point{}, errDisabled
}

func (Disabled) Reverse(context.Context, geo.Point) (Place, error) {
	return Place{}, errDisabled
}

// IsNoResults reports whether err means the address is unknown.
func IsNoResults(err error) bool {
	return errors.Is(err, ErrNoResults)
}
