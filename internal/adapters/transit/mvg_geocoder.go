package transit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Lem0nsong/prologistics-proxy/internal/domain"
	"github.com/Lem0nsong/prologistics-proxy/internal/platform/obs"
)

// MVGGeocoder resolves free-text places and addresses through the
// upstream location endpoint. Shares the Client (and its retry policy)
// with the routing provider.
type MVGGeocoder struct {
	client *Client
}

func NewMVGGeocoder(client *Client) (*MVGGeocoder, error) {
	if client == nil {
		return nil, errors.New("transit geocoder: client is nil")
	}
	return &MVGGeocoder{client: client}, nil
}

type locationResponse struct {
	Locations []upstreamLocation `json:"locations"`
}

type upstreamLocation struct {
	Name      string  `json:"name"`
	Place     string  `json:"place"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Geocode resolves query text to the top-ranked upstream location.
// Unresolvable text maps to GEOCODE_FAILED, transport problems to
// UPSTREAM_HTTP_ERROR wrapped in the same failure kind so the sweep
// aborts before probing either way.
func (g *MVGGeocoder) Geocode(ctx context.Context, query string, countryHint string) (_ domain.Location, err error) {
	defer obs.Time(ctx, "mvg.Geocode")(&err)

	text := NormalizeQuery(query)
	if text == "" {
		return domain.Location{}, &domain.RouteError{Kind: domain.KindGeocodeFailed, Detail: "empty query"}
	}

	endpoint := g.client.baseURL + "/location"

	resp, err := g.client.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := g.client.newRequest(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("query", text)
		if countryHint != "" {
			q.Set("country", countryHint)
		}
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Location{}, &domain.RouteError{
			Kind:   domain.KindGeocodeFailed,
			Detail: fmt.Sprintf("location lookup for %q: %v", text, err),
		}
	}
	defer resp.Body.Close()

	var decoded locationResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Location{}, &domain.RouteError{
			Kind:   domain.KindGeocodeFailed,
			Detail: fmt.Sprintf("decode location response: %v", err),
		}
	}

	if len(decoded.Locations) == 0 {
		return domain.Location{}, &domain.RouteError{
			Kind:   domain.KindGeocodeFailed,
			Detail: fmt.Sprintf("no locations for %q", text),
		}
	}

	top := decoded.Locations[0]
	label := top.Name
	if top.Place != "" && top.Place != top.Name {
		label = top.Name + ", " + top.Place
	}

	return domain.Location{Lat: top.Latitude, Lon: top.Longitude, Label: label}, nil
}

// NormalizeQuery collapses whitespace so equivalent spellings share one
// cache key.
func NormalizeQuery(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
