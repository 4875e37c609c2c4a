package dto

import "time"

type LegResponse struct {
	Kind            string     `json:"kind"`
	Line            string     `json:"line,omitempty"`
	Agency          string     `json:"agency,omitempty"`
	From            string     `json:"from,omitempty"`
	To              string     `json:"to,omitempty"`
	DepartAt        *time.Time `json:"depart_at,omitempty"`
	ArriveAt        *time.Time `json:"arrive_at,omitempty"`
	Product         string     `json:"product,omitempty"`
	DurationSeconds int        `json:"duration_seconds,omitempty"`
	DistanceMeters  int        `json:"distance_meters,omitempty"`
}

type RouteResponse struct {
	DurationSeconds int           `json:"duration_seconds"`
	TransferCount   int           `json:"transfer_count"`
	WalkSeconds     int           `json:"walk_seconds"`
	DepartAt        time.Time     `json:"depart_at"`
	ArriveAt        time.Time     `json:"arrive_at"`
	Legs            []LegResponse `json:"legs"`
}

type ProbeResponse struct {
	Instant         time.Time `json:"instant"`
	Mode            string    `json:"mode"`
	Outcome         string    `json:"outcome"`
	DurationSeconds int       `json:"duration_seconds,omitempty"`
	Detail          string    `json:"detail,omitempty"`
}

type SweepResponse struct {
	Status       string          `json:"status"`
	UsedFallback bool            `json:"used_fallback"`
	Best         *RouteResponse  `json:"best,omitempty"`
	Trace        []ProbeResponse `json:"trace,omitempty"`
}
