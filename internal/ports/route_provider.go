package ports

import (
	"context"
	"time"

	"github.com/Lem0nsong/prologistics-proxy/internal/domain"
)

// Contract for querying an upstream routing provider.
type RouteProvider interface {
	// Return the best upstream connection for one probe instant,
	// normalized into the canonical route shape. Failures are reported
	// as *domain.RouteError carrying the error kind.
	Query(ctx context.Context, origin, destination domain.Location, instant time.Time, mode domain.Mode) (*domain.Route, error)
}
