package services

import (
	"testing"

	"github.com/Lem0nsong/prologistics-proxy/internal/domain"
)

func TestAcceptsRejectsExcludedProduct(t *testing.T) {
	route := &domain.Route{
		Legs: []domain.Leg{
			{Kind: domain.LegWalk, DurationSeconds: 120},
			{Kind: domain.LegTransit, Product: domain.ProductSBahn},
			{Kind: domain.LegTransit, Product: domain.ProductBahn},
		},
	}

	if Accepts(route, []domain.ProductCategory{domain.ProductBahn}) {
		t.Fatal("route with an excluded BAHN leg must be rejected")
	}
	if !Accepts(route, []domain.ProductCategory{domain.ProductTram}) {
		t.Fatal("route without excluded legs must be accepted")
	}
}

func TestAcceptsEmptyExclusionSet(t *testing.T) {
	route := &domain.Route{
		Legs: []domain.Leg{{Kind: domain.LegTransit, Product: domain.ProductBahn}},
	}

	if !Accepts(route, nil) {
		t.Fatal("empty exclusion set must accept every route")
	}
}

func TestAcceptsWalkOnlyRoute(t *testing.T) {
	route := &domain.Route{
		Legs: []domain.Leg{{Kind: domain.LegWalk, DurationSeconds: 600}},
	}

	excluded := []domain.ProductCategory{domain.ProductBahn, domain.ProductBus}
	if !Accepts(route, excluded) {
		t.Fatal("walking legs must never reject a route")
	}
}

func TestAcceptsNilRoute(t *testing.T) {
	if Accepts(nil, nil) {
		t.Fatal("nil route must not be accepted")
	}
}
