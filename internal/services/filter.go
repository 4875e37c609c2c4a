package services

import "github.com/Lem0nsong/prologistics-proxy/internal/domain"

// Accepts reports whether a route passes the product filter. A route is
// rejected when any transit leg rides an excluded product category;
// walking legs never reject. Evaluated on normalized routes only, so the
// policy stays provider-agnostic.
func Accepts(route *domain.Route, excluded []domain.ProductCategory) bool {
	if route == nil || len(excluded) == 0 {
		return route != nil
	}

	set := make(map[domain.ProductCategory]struct{}, len(excluded))
	for _, p := range excluded {
		set[p] = struct{}{}
	}

	for _, leg := range route.Legs {
		if leg.Kind != domain.LegTransit {
			continue
		}
		if _, banned := set[leg.Product]; banned {
			return false
		}
	}
	return true
}
