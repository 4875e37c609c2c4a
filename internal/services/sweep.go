package services

import (
	"context"
	"errors"
	"time"

	"github.com/Lem0nsong/prologistics-proxy/internal/cache"
	"github.com/Lem0nsong/prologistics-proxy/internal/domain"
	"github.com/Lem0nsong/prologistics-proxy/internal/platform/obs"
	"github.com/Lem0nsong/prologistics-proxy/internal/platform/pool"
	"github.com/Lem0nsong/prologistics-proxy/internal/ports"
)

// One incoming search before geocoding. Origin and destination are free
// text; the sweeper resolves them through the geocoder port.
type SweepRequest struct {
	OriginText       string
	DestinationText  string
	Mode             domain.Mode
	Anchor           time.Time
	WindowMinutes    int
	StepMinutes      int
	ExcludedProducts []domain.ProductCategory
}

// Sweeper probes several candidate instants inside a time window and
// picks the single best connection.
//
// It owns no ambient state: the provider, geocoder and route cache are
// injected, so tests run against a fresh cache per case. The route cache
// doubles as the inflight deduplicator, keyed by the deterministic query
// key, which keeps concurrent identical sweeps down to one upstream call
// per candidate.
type Sweeper struct {
	Provider      ports.RouteProvider
	Geocoder      ports.Geocoder
	Routes        *cache.Keyed[*domain.Route]
	CountryHint   string
	MaxCandidates int
	MaxParallel   int
}

func NewSweeper(provider ports.RouteProvider, geocoder ports.Geocoder, routes *cache.Keyed[*domain.Route]) *Sweeper {
	return &Sweeper{
		Provider:      provider,
		Geocoder:      geocoder,
		Routes:        routes,
		MaxCandidates: DefaultCandidateCap,
		MaxParallel:   4,
	}
}

// Sweep resolves the request ends, probes the candidate window, filters
// and selects. When the whole window yields no accepted route it runs
// exactly one fallback sweep under the opposite mode over the same
// window before reporting an empty sweep.
//
// Sweep never fails with an error: sweep-level failures are encoded in
// the result status, per-candidate failures in the trace.
func (s *Sweeper) Sweep(ctx context.Context, req SweepRequest) domain.SweepResult {
	defer obs.Time(ctx, "sweep.run")(nil)

	origin, err := s.Geocoder.Geocode(ctx, req.OriginText, s.CountryHint)
	if err != nil {
		return domain.SweepResult{Status: domain.StatusGeocodeFailed, Trace: []domain.Probe{}}
	}
	destination, err := s.Geocoder.Geocode(ctx, req.DestinationText, s.CountryHint)
	if err != nil {
		return domain.SweepResult{Status: domain.StatusGeocodeFailed, Trace: []domain.Probe{}}
	}

	query := domain.SearchQuery{
		Origin:           origin,
		Destination:      destination,
		Mode:             req.Mode,
		Anchor:           req.Anchor,
		WindowMinutes:    req.WindowMinutes,
		StepMinutes:      req.StepMinutes,
		ExcludedProducts: req.ExcludedProducts,
	}

	best, trace := s.sweepWindow(ctx, query)
	if best != nil {
		return domain.SweepResult{Status: domain.StatusOK, Best: best, Trace: trace}
	}

	// Fallback: one re-sweep under the opposite mode. Mode is part of the
	// query key, so fallback probes never collide with primary ones.
	fallback := query
	fallback.Mode = query.Mode.Opposite()
	fbBest, fbTrace := s.sweepWindow(ctx, fallback)
	trace = append(trace, fbTrace...)

	if fbBest != nil {
		return domain.SweepResult{Status: domain.StatusOK, Best: fbBest, UsedFallback: true, Trace: trace}
	}
	return domain.SweepResult{Status: domain.StatusSweepEmpty, UsedFallback: true, Trace: trace}
}

type probeOutcome struct {
	instant time.Time
	route   *domain.Route
	err     error
}

// sweepWindow probes every candidate instant of one window and returns
// the best accepted route plus the per-candidate trace.
func (s *Sweeper) sweepWindow(ctx context.Context, query domain.SearchQuery) (*domain.Route, []domain.Probe) {
	instants := Candidates(query.Anchor, query.WindowMinutes, query.StepMinutes, query.Mode, s.MaxCandidates)

	outcomes := pool.RunAll(ctx, instants, s.MaxParallel, func(ctx context.Context, instant time.Time) probeOutcome {
		route, err := s.Routes.Resolve(ctx, query.Key(instant), func() (*domain.Route, error) {
			return s.Provider.Query(ctx, query.Origin, query.Destination, instant, query.Mode)
		})
		return probeOutcome{instant: instant, route: route, err: err}
	})

	accepted := make([]*domain.Route, 0, len(outcomes))
	trace := make([]domain.Probe, 0, len(outcomes))
	for _, o := range outcomes {
		probe := domain.Probe{Instant: o.instant, Mode: query.Mode}
		switch {
		case o.err != nil:
			probe.Kind = errorKind(o.err)
			probe.Detail = o.err.Error()
		case o.route == nil:
			probe.Kind = domain.KindZeroResults
		case !Accepts(o.route, query.ExcludedProducts):
			probe.Kind = domain.KindPolicyRejected
			probe.DurationSeconds = o.route.DurationSeconds
		default:
			probe.DurationSeconds = o.route.DurationSeconds
			accepted = append(accepted, o.route)
		}
		trace = append(trace, probe)
	}

	return SelectBest(accepted), trace
}

// errorKind maps a probe error onto the trace taxonomy. Anything the
// provider did not classify counts as an upstream failure.
func errorKind(err error) domain.ErrorKind {
	var re *domain.RouteError
	if errors.As(err, &re) {
		return re.Kind
	}
	return domain.KindUpstreamHTTP
}
