package domain

import "fmt"

// Resolved geographic point produced by geocoding.
// Immutable once obtained.
type Location struct {
	Lat   float64
	Lon   float64
	Label string
}

// Return coordinates as a "lat,lon" string rounded to six decimals,
// the precision used for cache keys.
func (l Location) CoordKey() string {
	return fmt.Sprintf("%.6f,%.6f", l.Lat, l.Lon)
}
