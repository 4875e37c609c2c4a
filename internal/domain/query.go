package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Direction of the time anchor: arrive-by or depart-at.
type Mode string

const (
	ModeArrive Mode = "ARRIVE"
	ModeDepart Mode = "DEPART"
)

// Opposite returns the flipped mode, used for fallback sweeps.
func (m Mode) Opposite() Mode {
	if m == ModeArrive {
		return ModeDepart
	}
	return ModeArrive
}

// A single route search resolved to coordinates.
// One SearchQuery exists per incoming request; read-only once built.
type SearchQuery struct {
	Origin           Location
	Destination      Location
	Mode             Mode
	Anchor           time.Time
	WindowMinutes    int
	StepMinutes      int
	ExcludedProducts []ProductCategory
}

// Key derives the cache and deduplication key for one probe instant.
// Two queries with an identical key are interchangeable: the key fully
// determines the upstream call that would be made for it, so both the
// cache and the inflight set use it as the sole identity.
func (q SearchQuery) Key(instant time.Time) string {
	products := make([]string, 0, len(q.ExcludedProducts))
	for _, p := range q.ExcludedProducts {
		products = append(products, string(p))
	}
	sort.Strings(products)

	return strings.Join([]string{
		q.Origin.CoordKey(),
		q.Destination.CoordKey(),
		string(q.Mode),
		strconv.FormatInt(instant.Unix(), 10),
		strings.Join(products, ","),
	}, "|")
}
