package domain

import "time"

// Transport product classification of a transit leg.
// Values mirror the upstream provider vocabulary.
type ProductCategory string

const (
	ProductUBahn       ProductCategory = "UBAHN"
	ProductSBahn       ProductCategory = "SBAHN"
	ProductTram        ProductCategory = "TRAM"
	ProductBus         ProductCategory = "BUS"
	ProductRegionalBus ProductCategory = "REGIONAL_BUS"
	ProductBahn        ProductCategory = "BAHN"
	ProductSchiff      ProductCategory = "SCHIFF"
)

type LegKind string

const (
	LegTransit LegKind = "transit"
	LegWalk    LegKind = "walk"
)

// One segment of a normalized route: either a ride on a transit line
// or a walk between two points. Transit and walk fields are mutually
// exclusive, discriminated by Kind.
type Leg struct {
	Kind LegKind

	// Transit legs.
	Line     string
	Agency   string
	FromName string
	ToName   string
	DepartAt time.Time
	ArriveAt time.Time
	Product  ProductCategory

	// Walking legs.
	DurationSeconds int
	DistanceMeters  int
}

// Canonical result of one provider call. Immutable once produced.
// Sweep and selection logic only ever see this shape, never raw
// upstream fields.
type Route struct {
	DurationSeconds int
	TransferCount   int
	WalkSeconds     int
	DepartAt        time.Time
	ArriveAt        time.Time
	Legs            []Leg
}
