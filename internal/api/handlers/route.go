package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Lem0nsong/prologistics-proxy/internal/api/dto"
	"github.com/Lem0nsong/prologistics-proxy/internal/domain"
	"github.com/Lem0nsong/prologistics-proxy/internal/services"
)

type RouteHandler struct {
	Sweeper *services.Sweeper

	DefaultWindowMinutes int
	DefaultStepMinutes   int

	// Products excluded when the localOnly flag is set.
	LocalOnlyExcludes []domain.ProductCategory
}

// Route runs one sweep for the requested origin/destination/window and
// writes the selected best connection. Query parameters are parsed here;
// the sweep engine only ever sees a typed request.
func (h *RouteHandler) Route(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()

	from := strings.TrimSpace(q.Get("from"))
	to := strings.TrimSpace(q.Get("to"))
	if from == "" || to == "" {
		writeError(w, r, http.StatusBadRequest, "from and to are required")
		return
	}

	arrival := strings.TrimSpace(q.Get("arrival"))
	departure := strings.TrimSpace(q.Get("departure"))
	if arrival != "" && departure != "" {
		writeError(w, r, http.StatusBadRequest, "arrival and departure are mutually exclusive")
		return
	}

	mode := domain.ModeDepart
	anchor := time.Now()
	if arrival != "" {
		t, err := time.Parse(time.RFC3339, arrival)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "arrival must be RFC3339")
			return
		}
		mode = domain.ModeArrive
		anchor = t
	} else if departure != "" {
		t, err := time.Parse(time.RFC3339, departure)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "departure must be RFC3339")
			return
		}
		anchor = t
	}

	window := h.DefaultWindowMinutes
	if s := q.Get("window"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			writeError(w, r, http.StatusBadRequest, "window must be a non-negative integer")
			return
		}
		window = v
	}

	step := h.DefaultStepMinutes
	if s := q.Get("step"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			writeError(w, r, http.StatusBadRequest, "step must be a positive integer")
			return
		}
		step = v
	}

	var excluded []domain.ProductCategory
	if q.Get("localOnly") == "true" || q.Get("localOnly") == "1" {
		excluded = h.LocalOnlyExcludes
	}

	debug := q.Get("debug") == "true" || q.Get("debug") == "1"

	req := services.SweepRequest{
		OriginText:       from,
		DestinationText:  to,
		Mode:             mode,
		Anchor:           anchor,
		WindowMinutes:    window,
		StepMinutes:      step,
		ExcludedProducts: excluded,
	}

	result := h.Sweeper.Sweep(r.Context(), req)

	status := http.StatusOK
	switch result.Status {
	case domain.StatusGeocodeFailed:
		status = http.StatusBadRequest
	case domain.StatusSweepEmpty:
		status = http.StatusNotFound
	}

	writeJSON(w, r, status, toSweepResponse(result, debug))
}

func toSweepResponse(res domain.SweepResult, includeTrace bool) dto.SweepResponse {
	out := dto.SweepResponse{
		Status:       string(res.Status),
		UsedFallback: res.UsedFallback,
	}

	if res.Best != nil {
		out.Best = toRouteResponse(res.Best)
	}

	if includeTrace {
		out.Trace = make([]dto.ProbeResponse, 0, len(res.Trace))
		for _, p := range res.Trace {
			outcome := "ROUTE"
			if p.Kind != "" {
				outcome = string(p.Kind)
			}
			out.Trace = append(out.Trace, dto.ProbeResponse{
				Instant:         p.Instant,
				Mode:            string(p.Mode),
				Outcome:         outcome,
				DurationSeconds: p.DurationSeconds,
				Detail:          p.Detail,
			})
		}
	}

	return out
}

func toRouteResponse(route *domain.Route) *dto.RouteResponse {
	legs := make([]dto.LegResponse, 0, len(route.Legs))
	for _, leg := range route.Legs {
		if leg.Kind == domain.LegWalk {
			legs = append(legs, dto.LegResponse{
				Kind:            string(leg.Kind),
				DurationSeconds: leg.DurationSeconds,
				DistanceMeters:  leg.DistanceMeters,
			})
			continue
		}

		dep := leg.DepartAt
		arr := leg.ArriveAt
		legs = append(legs, dto.LegResponse{
			Kind:     string(leg.Kind),
			Line:     leg.Line,
			Agency:   leg.Agency,
			From:     leg.FromName,
			To:       leg.ToName,
			DepartAt: &dep,
			ArriveAt: &arr,
			Product:  string(leg.Product),
		})
	}

	return &dto.RouteResponse{
		DurationSeconds: route.DurationSeconds,
		TransferCount:   route.TransferCount,
		WalkSeconds:     route.WalkSeconds,
		DepartAt:        route.DepartAt,
		ArriveAt:        route.ArriveAt,
		Legs:            legs,
	}
}
