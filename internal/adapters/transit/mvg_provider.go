package transit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Lem0nsong/prologistics-proxy/internal/domain"
	"github.com/Lem0nsong/prologistics-proxy/internal/platform/obs"
)

// MVGProvider implements ports.RouteProvider against an MVG-style
// routing API.
//
// It is the only component that understands the upstream response
// shape; everything downstream consumes the normalized domain.Route.
// Safe for concurrent use.
type MVGProvider struct {
	client *Client
}

func NewMVGProvider(client *Client) (*MVGProvider, error) {
	if client == nil {
		return nil, errors.New("transit provider: client is nil")
	}
	return &MVGProvider{client: client}, nil
}

// Upstream wire shapes. Walking parts carry the PEDESTRIAN transport
// type plus duration/distance; transit parts carry line and stop data.
type routingResponse struct {
	Connections []connection `json:"connections"`
}

type connection struct {
	Departure       string `json:"departure"`
	Arrival         string `json:"arrival"`
	DurationMinutes int    `json:"duration"`
	Parts           []part `json:"parts"`
}

type part struct {
	From     partStop `json:"from"`
	To       partStop `json:"to"`
	Line     partLine `json:"line"`
	Duration int      `json:"duration"`
	Distance float64  `json:"distance"`
}

type partStop struct {
	Name      string `json:"name"`
	Departure string `json:"departure"`
	Arrival   string `json:"arrival"`
}

type partLine struct {
	Label         string `json:"label"`
	Network       string `json:"network"`
	TransportType string `json:"transportType"`
}

const walkTransportType = "PEDESTRIAN"

// Query issues one upstream routing call and normalizes the response.
// Failures come back as *domain.RouteError: non-success statuses as
// UPSTREAM_HTTP_ERROR, a usable-connection-free response as ZERO_RESULTS.
func (p *MVGProvider) Query(
	ctx context.Context,
	origin, destination domain.Location,
	instant time.Time,
	mode domain.Mode,
) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "mvg.Query")(&err)

	endpoint := p.client.baseURL + "/routing"

	resp, err := p.client.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := p.client.newRequest(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("originLatitude", strconv.FormatFloat(origin.Lat, 'f', 6, 64))
		q.Set("originLongitude", strconv.FormatFloat(origin.Lon, 'f', 6, 64))
		q.Set("destinationLatitude", strconv.FormatFloat(destination.Lat, 'f', 6, 64))
		q.Set("destinationLongitude", strconv.FormatFloat(destination.Lon, 'f', 6, 64))
		q.Set("routingDateTime", instant.Format(time.RFC3339))
		q.Set("routingDateTimeIsArrival", strconv.FormatBool(mode == domain.ModeArrive))
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) {
			return nil, &domain.RouteError{
				Kind:   domain.KindUpstreamHTTP,
				Detail: fmt.Sprintf("routing returned status %d", he.Code),
			}
		}
		return nil, &domain.RouteError{Kind: domain.KindUpstreamHTTP, Detail: err.Error()}
	}
	defer resp.Body.Close()

	var decoded routingResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &domain.RouteError{
			Kind:   domain.KindUpstreamHTTP,
			Detail: fmt.Sprintf("decode routing response: %v", err),
		}
	}

	for _, conn := range decoded.Connections {
		if route, ok := normalizeConnection(conn); ok {
			return route, nil
		}
	}

	return nil, &domain.RouteError{Kind: domain.KindZeroResults, Detail: "no usable connections"}
}

// normalizeConnection flattens one upstream connection into the
// canonical route shape. Connections with unparseable times are skipped
// as unusable rather than failing the whole probe.
func normalizeConnection(conn connection) (*domain.Route, bool) {
	if len(conn.Parts) == 0 {
		return nil, false
	}

	legs := make([]domain.Leg, 0, len(conn.Parts))
	transfers := -1
	walkSeconds := 0

	var earliestDep, latestArr time.Time

	for _, pt := range conn.Parts {
		if pt.Line.TransportType == walkTransportType {
			walk := domain.Leg{
				Kind:            domain.LegWalk,
				DurationSeconds: pt.Duration,
				DistanceMeters:  int(pt.Distance),
			}
			walkSeconds += walk.DurationSeconds
			legs = append(legs, walk)
			continue
		}

		dep, err := time.Parse(time.RFC3339, pt.From.Departure)
		if err != nil {
			return nil, false
		}
		arr, err := time.Parse(time.RFC3339, pt.To.Arrival)
		if err != nil {
			return nil, false
		}

		if earliestDep.IsZero() || dep.Before(earliestDep) {
			earliestDep = dep
		}
		if latestArr.IsZero() || arr.After(latestArr) {
			latestArr = arr
		}

		transfers++
		legs = append(legs, domain.Leg{
			Kind:     domain.LegTransit,
			Line:     pt.Line.Label,
			Agency:   pt.Line.Network,
			FromName: pt.From.Name,
			ToName:   pt.To.Name,
			DepartAt: dep,
			ArriveAt: arr,
			Product:  domain.ProductCategory(pt.Line.TransportType),
		})
	}

	if transfers < 0 {
		transfers = 0
	}

	departAt, _ := time.Parse(time.RFC3339, conn.Departure)
	arriveAt, _ := time.Parse(time.RFC3339, conn.Arrival)
	if departAt.IsZero() {
		departAt = earliestDep
	}
	if arriveAt.IsZero() {
		arriveAt = latestArr
	}

	// Prefer the upstream-reported total; derive from the leg span when
	// it is absent or non-positive.
	duration := conn.DurationMinutes * 60
	if duration <= 0 {
		if earliestDep.IsZero() || latestArr.IsZero() {
			return nil, false
		}
		duration = int(latestArr.Sub(earliestDep) / time.Second)
	}
	if duration <= 0 {
		return nil, false
	}

	return &domain.Route{
		DurationSeconds: duration,
		TransferCount:   transfers,
		WalkSeconds:     walkSeconds,
		DepartAt:        departAt,
		ArriveAt:        arriveAt,
		Legs:            legs,
	}, true
}
