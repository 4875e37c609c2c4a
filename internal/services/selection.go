package services

import "github.com/Lem0nsong/prologistics-proxy/internal/domain"

// SelectBest picks the single best route under the deterministic
// ordering: shortest total duration first, ties broken by fewest
// transfers, remaining ties by least walking. Returns nil for an empty
// pool. Full ties keep the earliest candidate, so the choice is stable
// for a fixed input order.
func SelectBest(routes []*domain.Route) *domain.Route {
	var best *domain.Route
	for _, r := range routes {
		if r == nil {
			continue
		}
		if best == nil || better(r, best) {
			best = r
		}
	}
	return best
}

func better(a, b *domain.Route) bool {
	if a.DurationSeconds != b.DurationSeconds {
		return a.DurationSeconds < b.DurationSeconds
	}
	if a.TransferCount != b.TransferCount {
		return a.TransferCount < b.TransferCount
	}
	return a.WalkSeconds < b.WalkSeconds
}
