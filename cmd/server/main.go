package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Lem0nsong/prologistics-proxy/internal/adapters/transit"
	"github.com/Lem0nsong/prologistics-proxy/internal/api"
	"github.com/Lem0nsong/prologistics-proxy/internal/cache"
	"github.com/Lem0nsong/prologistics-proxy/internal/config"
	"github.com/Lem0nsong/prologistics-proxy/internal/domain"
	"github.com/Lem0nsong/prologistics-proxy/internal/services"
)

// main is the application composition root.
// It wires the upstream adapters behind ports, builds the sweep engine
// with its in-memory caches, and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	configPath := getEnv("CONFIG_PATH", "config.yml")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	if p := os.Getenv("PORT"); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			log.Fatalf("invalid PORT %q", p)
		}
		cfg.Server.Port = port
	}

	// The provider API key is optional; some upstream deployments are open.
	apiKey := os.Getenv("PROVIDER_API_KEY")

	client, err := transit.NewClient(cfg.Provider.BaseURL, apiKey, time.Duration(cfg.Provider.TimeoutMS)*time.Millisecond)
	if err != nil {
		log.Fatal(err)
	}

	provider, err := transit.NewMVGProvider(client)
	if err != nil {
		log.Fatal(err)
	}

	geocoder, err := transit.NewMVGGeocoder(client)
	if err != nil {
		log.Fatal(err)
	}

	// Both caches live for the process only; eviction is purely LRU.
	cachedGeocoder := transit.NewCachedGeocoder(geocoder, cfg.Cache.GeocodeCapacity)
	routeCache := cache.NewKeyed[*domain.Route](cfg.Cache.RouteCapacity)

	sweeper := services.NewSweeper(provider, cachedGeocoder, routeCache)
	sweeper.CountryHint = cfg.Geocode.CountryHint
	sweeper.MaxCandidates = cfg.Sweep.MaxCandidates
	sweeper.MaxParallel = cfg.Sweep.MaxParallel

	router := api.NewRouter(sweeper, cfg)

	// Timeouts are tuned for cold-cache sweeps (several upstream probes
	// behind a single request).
	addr := ":" + strconv.Itoa(cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening addr=%s provider=%s", addr, cfg.Provider.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Printf("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
