package domain

import "time"

// Classification of a failed or rejected probe.
type ErrorKind string

const (
	KindGeocodeFailed  ErrorKind = "GEOCODE_FAILED"
	KindUpstreamHTTP   ErrorKind = "UPSTREAM_HTTP_ERROR"
	KindZeroResults    ErrorKind = "ZERO_RESULTS"
	KindPolicyRejected ErrorKind = "POLICY_REJECTED"
)

// RouteError tags a failed outcome with its kind. Keeping the kind in a
// typed error means callers cannot accidentally read a route out of a
// failed probe: a probe yields either a Route or a RouteError, never both.
type RouteError struct {
	Kind   ErrorKind
	Detail string
}

func (e *RouteError) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Detail
}

// Sweep-level status. Per-candidate failures only shrink the candidate
// pool; the only sweep-level failures are a geocoding failure before any
// probe and a window that stayed empty after the fallback attempt.
type SweepStatus string

const (
	StatusOK            SweepStatus = "OK"
	StatusGeocodeFailed SweepStatus = "GEOCODE_FAILED"
	StatusSweepEmpty    SweepStatus = "SWEEP_EMPTY"
)

// Outcome of probing a single candidate instant, kept for diagnostics.
// Kind is empty when the probe produced an accepted route.
type Probe struct {
	Instant         time.Time
	Mode            Mode
	Kind            ErrorKind
	DurationSeconds int
	Detail          string
}

// Result of one sweep call. Created once per sweep and handed to the
// caller; the engine retains nothing.
type SweepResult struct {
	Status       SweepStatus
	Best         *Route
	UsedFallback bool
	Trace        []Probe
}
