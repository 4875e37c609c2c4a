package transit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Lem0nsong/prologistics-proxy/internal/domain"
)

func TestNormalizeQuery(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  Marienplatz  1 ", "Marienplatz 1"},
		{"Sendlinger\tTor", "Sendlinger Tor"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := NormalizeQuery(tc.in); got != tc.want {
			t.Fatalf("NormalizeQuery(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGeocodeResolvesTopLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"locations": [
			{"name": "Marienplatz", "place": "München", "latitude": 48.137079, "longitude": 11.575640},
			{"name": "Marienplatz", "place": "Stuttgart", "latitude": 48.764546, "longitude": 9.168419}
		]}`))
	}))
	defer srv.Close()

	client, _ := NewClient(srv.URL, "", time.Second)
	geocoder, _ := NewMVGGeocoder(client)

	loc, err := geocoder.Geocode(context.Background(), "Marienplatz", "de")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.Lat != 48.137079 || loc.Lon != 11.575640 {
		t.Fatalf("coordinates = %v,%v, want Munich Marienplatz", loc.Lat, loc.Lon)
	}
	if loc.Label != "Marienplatz, München" {
		t.Fatalf("label = %q, want %q", loc.Label, "Marienplatz, München")
	}
}

func TestGeocodeNoResultsFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"locations": []}`))
	}))
	defer srv.Close()

	client, _ := NewClient(srv.URL, "", time.Second)
	geocoder, _ := NewMVGGeocoder(client)

	_, err := geocoder.Geocode(context.Background(), "Nowhere Street 99", "de")

	var re *domain.RouteError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want *domain.RouteError", err)
	}
	if re.Kind != domain.KindGeocodeFailed {
		t.Fatalf("kind = %s, want GEOCODE_FAILED", re.Kind)
	}
}

// countingGeocoder counts upstream lookups behind the cached wrapper.
type countingGeocoder struct {
	mu    sync.Mutex
	calls int
}

func (g *countingGeocoder) Geocode(_ context.Context, query string, _ string) (domain.Location, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return domain.Location{Lat: 48.1, Lon: 11.5, Label: query}, nil
}

func TestCachedGeocoderCollapsesEquivalentQueries(t *testing.T) {
	next := &countingGeocoder{}
	cached := NewCachedGeocoder(next, 16)
	ctx := context.Background()

	// Different spellings of the same query share one cache key.
	queries := []string{"Marienplatz 1", "  Marienplatz   1 ", "marienplatz 1"}
	for _, q := range queries {
		if _, err := cached.Geocode(ctx, q, "de"); err != nil {
			t.Fatalf("geocode %q: %v", q, err)
		}
	}

	if next.calls != 1 {
		t.Fatalf("upstream calls = %d, want 1", next.calls)
	}

	// A different country hint is a different key.
	if _, err := cached.Geocode(ctx, "Marienplatz 1", "at"); err != nil {
		t.Fatalf("geocode with hint: %v", err)
	}
	if next.calls != 2 {
		t.Fatalf("upstream calls = %d, want 2", next.calls)
	}
}
