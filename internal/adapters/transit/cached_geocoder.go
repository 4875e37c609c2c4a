package transit

import (
	"context"
	"strings"

	"github.com/Lem0nsong/prologistics-proxy/internal/cache"
	"github.com/Lem0nsong/prologistics-proxy/internal/domain"
	"github.com/Lem0nsong/prologistics-proxy/internal/ports"
)

// CachedGeocoder memoizes geocode lookups in a keyed LRU, collapsing
// concurrent identical lookups into one upstream call. Failed lookups
// are memoized too, so a misspelled address does not hammer the
// upstream on retries.
type CachedGeocoder struct {
	next  ports.Geocoder
	cache *cache.Keyed[domain.Location]
}

func NewCachedGeocoder(next ports.Geocoder, capacity int) *CachedGeocoder {
	return &CachedGeocoder{
		next:  next,
		cache: cache.NewKeyed[domain.Location](capacity),
	}
}

func (g *CachedGeocoder) Geocode(ctx context.Context, query string, countryHint string) (domain.Location, error) {
	key := strings.ToLower(NormalizeQuery(query)) + "|" + strings.ToLower(countryHint)
	return g.cache.Resolve(ctx, key, func() (domain.Location, error) {
		return g.next.Geocode(ctx, query, countryHint)
	})
}
