package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Lem0nsong/prologistics-proxy/internal/adapters/transit"
	"github.com/Lem0nsong/prologistics-proxy/internal/cache"
	"github.com/Lem0nsong/prologistics-proxy/internal/domain"
)

// stubGeocoder resolves fixed labels, failing for configured queries.
type stubGeocoder struct {
	failFor string
}

func (g stubGeocoder) Geocode(_ context.Context, query string, _ string) (domain.Location, error) {
	if g.failFor != "" && strings.Contains(query, g.failFor) {
		return domain.Location{}, &domain.RouteError{Kind: domain.KindGeocodeFailed, Detail: query}
	}
	if query == "Hauptbahnhof" {
		return domain.Location{Lat: 48.140229, Lon: 11.558339, Label: "Hauptbahnhof"}, nil
	}
	return domain.Location{Lat: 48.117351, Lon: 11.601011, Label: query}, nil
}

func newTestSweeper(provider *transit.MockProvider) *Sweeper {
	s := NewSweeper(provider, stubGeocoder{}, cache.NewKeyed[*domain.Route](64))
	s.MaxParallel = 3
	return s
}

func transitRoute(duration, transfers, walk int) *domain.Route {
	return &domain.Route{
		DurationSeconds: duration,
		TransferCount:   transfers,
		WalkSeconds:     walk,
		Legs:            []domain.Leg{{Kind: domain.LegTransit, Line: "U2", Product: domain.ProductUBahn}},
	}
}

func TestSweepPicksShortestAcrossWindow(t *testing.T) {
	anchor := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	provider := transit.NewMockProvider()

	durations := []int{1200, 1100, 1300, 1250, 1400, 1500, 1600}
	for i, d := range durations {
		instant := anchor.Add(time.Duration(i*10) * time.Minute)
		provider.Respond(instant, domain.ModeDepart, transit.MockResponse{Route: transitRoute(d, 1, 60)})
	}

	sweeper := newTestSweeper(provider)
	result := sweeper.Sweep(context.Background(), SweepRequest{
		OriginText:      "Hauptbahnhof",
		DestinationText: "Ostbahnhof",
		Mode:            domain.ModeDepart,
		Anchor:          anchor,
		WindowMinutes:   60,
		StepMinutes:     10,
	})

	if result.Status != domain.StatusOK {
		t.Fatalf("status = %s, want OK", result.Status)
	}
	if result.UsedFallback {
		t.Fatal("primary sweep must not be marked as fallback")
	}
	if result.Best == nil || result.Best.DurationSeconds != 1100 {
		t.Fatalf("best = %+v, want duration 1100", result.Best)
	}
	if len(result.Trace) != len(durations) {
		t.Fatalf("trace length = %d, want %d", len(result.Trace), len(durations))
	}
	if provider.Calls() != len(durations) {
		t.Fatalf("provider calls = %d, want %d", provider.Calls(), len(durations))
	}
}

func TestSweepRepeatHitsCacheOnly(t *testing.T) {
	anchor := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	provider := transit.NewMockProvider()
	provider.Respond(anchor, domain.ModeDepart, transit.MockResponse{Route: transitRoute(900, 0, 0)})

	sweeper := newTestSweeper(provider)
	req := SweepRequest{
		OriginText:      "Hauptbahnhof",
		DestinationText: "Ostbahnhof",
		Mode:            domain.ModeDepart,
		Anchor:          anchor,
		WindowMinutes:   0,
		StepMinutes:     10,
	}

	first := sweeper.Sweep(context.Background(), req)
	if first.Status != domain.StatusOK {
		t.Fatalf("status = %s, want OK", first.Status)
	}
	callsAfterFirst := provider.Calls()

	second := sweeper.Sweep(context.Background(), req)
	if second.Status != domain.StatusOK {
		t.Fatalf("status = %s, want OK", second.Status)
	}
	if provider.Calls() != callsAfterFirst {
		t.Fatalf("provider calls grew from %d to %d; repeat sweep must be served from cache",
			callsAfterFirst, provider.Calls())
	}
	if second.Best == nil || second.Best.DurationSeconds != first.Best.DurationSeconds {
		t.Fatalf("cached sweep best = %+v, want %+v", second.Best, first.Best)
	}
}

func TestSweepPolicyRejectionNeverWins(t *testing.T) {
	anchor := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	provider := transit.NewMockProvider()

	// The fastest connection rides a BAHN leg; a slower clean one exists.
	fast := &domain.Route{
		DurationSeconds: 800,
		Legs:            []domain.Leg{{Kind: domain.LegTransit, Line: "RE1", Product: domain.ProductBahn}},
	}
	provider.Respond(anchor, domain.ModeDepart, transit.MockResponse{Route: fast})
	provider.Respond(anchor.Add(15*time.Minute), domain.ModeDepart,
		transit.MockResponse{Route: transitRoute(1400, 1, 60)})

	sweeper := newTestSweeper(provider)
	result := sweeper.Sweep(context.Background(), SweepRequest{
		OriginText:       "Hauptbahnhof",
		DestinationText:  "Ostbahnhof",
		Mode:             domain.ModeDepart,
		Anchor:           anchor,
		WindowMinutes:    15,
		StepMinutes:      15,
		ExcludedProducts: []domain.ProductCategory{domain.ProductBahn},
	})

	if result.Status != domain.StatusOK {
		t.Fatalf("status = %s, want OK", result.Status)
	}
	if result.Best == nil || result.Best.DurationSeconds != 1400 {
		t.Fatalf("best = %+v, want the 1400s route", result.Best)
	}

	rejected := 0
	for _, p := range result.Trace {
		if p.Kind == domain.KindZeroResults {
			t.Fatal("policy rejection must stay distinct from zero results")
		}
		if p.Kind == domain.KindPolicyRejected {
			rejected++
		}
	}
	if rejected != 1 {
		t.Fatalf("trace has %d POLICY_REJECTED probes, want 1", rejected)
	}
}

func TestSweepFallbackFlipsModeOnce(t *testing.T) {
	anchor := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	provider := transit.NewMockProvider()

	// Nothing in the ARRIVE window; one connection on the DEPART side.
	provider.Respond(anchor.Add(15*time.Minute), domain.ModeDepart,
		transit.MockResponse{Route: transitRoute(1000, 0, 0)})

	sweeper := newTestSweeper(provider)
	result := sweeper.Sweep(context.Background(), SweepRequest{
		OriginText:      "Hauptbahnhof",
		DestinationText: "Ostbahnhof",
		Mode:            domain.ModeArrive,
		Anchor:          anchor,
		WindowMinutes:   30,
		StepMinutes:     15,
	})

	if result.Status != domain.StatusOK {
		t.Fatalf("status = %s, want OK", result.Status)
	}
	if !result.UsedFallback {
		t.Fatal("result must be annotated as fallback")
	}
	if result.Best == nil || result.Best.DurationSeconds != 1000 {
		t.Fatalf("best = %+v, want the fallback route", result.Best)
	}

	// 3 ARRIVE probes plus 3 DEPART probes; no second fallback round.
	if provider.Calls() != 6 {
		t.Fatalf("provider calls = %d, want 6", provider.Calls())
	}

	modes := map[domain.Mode]int{}
	for _, p := range result.Trace {
		modes[p.Mode]++
	}
	if modes[domain.ModeArrive] != 3 || modes[domain.ModeDepart] != 3 {
		t.Fatalf("trace modes = %v, want 3 ARRIVE and 3 DEPART", modes)
	}
}

func TestSweepEmptyAfterFallback(t *testing.T) {
	anchor := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	provider := transit.NewMockProvider()

	sweeper := newTestSweeper(provider)
	result := sweeper.Sweep(context.Background(), SweepRequest{
		OriginText:      "Hauptbahnhof",
		DestinationText: "Ostbahnhof",
		Mode:            domain.ModeDepart,
		Anchor:          anchor,
		WindowMinutes:   30,
		StepMinutes:     15,
	})

	if result.Status != domain.StatusSweepEmpty {
		t.Fatalf("status = %s, want SWEEP_EMPTY", result.Status)
	}
	if !result.UsedFallback {
		t.Fatal("empty sweep must record the fallback attempt")
	}
	if result.Best != nil {
		t.Fatalf("best = %+v, want nil", result.Best)
	}
	// Primary and fallback windows both probed, nothing more.
	if provider.Calls() != 6 {
		t.Fatalf("provider calls = %d, want 6", provider.Calls())
	}
	for _, p := range result.Trace {
		if p.Kind != domain.KindZeroResults {
			t.Fatalf("probe kind = %s, want ZERO_RESULTS", p.Kind)
		}
	}
}

func TestSweepGeocodeFailureAbortsBeforeProbing(t *testing.T) {
	anchor := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	provider := transit.NewMockProvider()

	sweeper := NewSweeper(provider, stubGeocoder{failFor: "Nowhere"}, cache.NewKeyed[*domain.Route](8))
	result := sweeper.Sweep(context.Background(), SweepRequest{
		OriginText:      "Nowhere Street 1",
		DestinationText: "Ostbahnhof",
		Mode:            domain.ModeDepart,
		Anchor:          anchor,
		WindowMinutes:   60,
		StepMinutes:     10,
	})

	if result.Status != domain.StatusGeocodeFailed {
		t.Fatalf("status = %s, want GEOCODE_FAILED", result.Status)
	}
	if provider.Calls() != 0 {
		t.Fatalf("provider calls = %d, want 0", provider.Calls())
	}
}
