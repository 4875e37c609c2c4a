package api

import (
	"net/http"

	"github.com/Lem0nsong/prologistics-proxy/internal/api/handlers"
	"github.com/Lem0nsong/prologistics-proxy/internal/config"
	"github.com/Lem0nsong/prologistics-proxy/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root: handlers stay unaware
// of concrete adapters behind the sweeper.
func NewRouter(sweeper *services.Sweeper, cfg config.AppConfig) http.Handler {
	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{
		Sweeper:              sweeper,
		DefaultWindowMinutes: cfg.Sweep.DefaultWindowMinutes,
		DefaultStepMinutes:   cfg.Sweep.DefaultStepMinutes,
		LocalOnlyExcludes:    cfg.LocalOnlyProducts(),
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/route", routeHandler.Route)

	return requestIDMiddleware(loggingMiddleware(corsMiddleware(mux)))
}
