package services

import (
	"testing"

	"github.com/Lem0nsong/prologistics-proxy/internal/domain"
)

func TestSelectBestOrdering(t *testing.T) {
	// Durations [300, 200, 200] with transfer counts [1, 2, 1]: the
	// winner is the 200s route with 1 transfer.
	routes := []*domain.Route{
		{DurationSeconds: 300, TransferCount: 1},
		{DurationSeconds: 200, TransferCount: 2},
		{DurationSeconds: 200, TransferCount: 1},
	}

	best := SelectBest(routes)
	if best == nil {
		t.Fatal("best = nil, want a route")
	}
	if best.DurationSeconds != 200 || best.TransferCount != 1 {
		t.Fatalf("best = {dur=%d transfers=%d}, want {dur=200 transfers=1}",
			best.DurationSeconds, best.TransferCount)
	}
}

func TestSelectBestWalkTieBreaker(t *testing.T) {
	routes := []*domain.Route{
		{DurationSeconds: 200, TransferCount: 1, WalkSeconds: 400},
		{DurationSeconds: 200, TransferCount: 1, WalkSeconds: 120},
	}

	best := SelectBest(routes)
	if best == nil || best.WalkSeconds != 120 {
		t.Fatalf("best = %+v, want the 120s-walk route", best)
	}
}

func TestSelectBestFullTieKeepsFirst(t *testing.T) {
	first := &domain.Route{DurationSeconds: 200, TransferCount: 1, WalkSeconds: 60}
	second := &domain.Route{DurationSeconds: 200, TransferCount: 1, WalkSeconds: 60}

	best := SelectBest([]*domain.Route{first, second})
	if best != first {
		t.Fatal("full tie should keep the earliest candidate")
	}
}

func TestSelectBestEmpty(t *testing.T) {
	if best := SelectBest(nil); best != nil {
		t.Fatalf("best = %+v, want nil", best)
	}
	if best := SelectBest([]*domain.Route{nil, nil}); best != nil {
		t.Fatalf("best = %+v, want nil", best)
	}
}
