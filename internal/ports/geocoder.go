package ports

import (
	"context"

	"github.com/Lem0nsong/prologistics-proxy/internal/domain"
)

// Port: a boundary for resolving free text to a geographic location.
type Geocoder interface {
	// Resolve a free-text place or address to coordinates. The country
	// hint biases results; an unresolvable query returns a
	// *domain.RouteError with kind GEOCODE_FAILED.
	Geocode(ctx context.Context, query string, countryHint string) (domain.Location, error)
}
