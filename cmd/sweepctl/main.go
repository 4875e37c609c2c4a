package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Lem0nsong/prologistics-proxy/internal/adapters/transit"
	"github.com/Lem0nsong/prologistics-proxy/internal/cache"
	"github.com/Lem0nsong/prologistics-proxy/internal/config"
	"github.com/Lem0nsong/prologistics-proxy/internal/domain"
	"github.com/Lem0nsong/prologistics-proxy/internal/services"
)

// sweepctl runs a single sweep from the command line and prints the
// result as JSON. Useful for poking the upstream without the HTTP layer.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	var (
		from       = flag.String("from", "", "origin address or stop (required)")
		to         = flag.String("to", "", "destination address or stop (required)")
		arrival    = flag.String("arrival", "", "arrive-by instant, RFC3339")
		departure  = flag.String("departure", "", "depart-at instant, RFC3339 (default: now)")
		window     = flag.Int("window", -1, "search window in minutes (default from config)")
		step       = flag.Int("step", -1, "probe spacing in minutes (default from config)")
		localOnly  = flag.Bool("local-only", false, "exclude long-distance products")
		configPath = flag.String("config", "config.yml", "path to config file")
	)
	flag.Parse()

	if *from == "" || *to == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *arrival != "" && *departure != "" {
		log.Fatal("-arrival and -departure are mutually exclusive")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	mode := domain.ModeDepart
	anchor := time.Now()
	if *arrival != "" {
		anchor, err = time.Parse(time.RFC3339, *arrival)
		if err != nil {
			log.Fatalf("invalid -arrival: %v", err)
		}
		mode = domain.ModeArrive
	} else if *departure != "" {
		anchor, err = time.Parse(time.RFC3339, *departure)
		if err != nil {
			log.Fatalf("invalid -departure: %v", err)
		}
	}

	windowMinutes := cfg.Sweep.DefaultWindowMinutes
	if *window >= 0 {
		windowMinutes = *window
	}
	stepMinutes := cfg.Sweep.DefaultStepMinutes
	if *step >= 1 {
		stepMinutes = *step
	}

	var excluded []domain.ProductCategory
	if *localOnly {
		excluded = cfg.LocalOnlyProducts()
	}

	client, err := transit.NewClient(cfg.Provider.BaseURL, os.Getenv("PROVIDER_API_KEY"), time.Duration(cfg.Provider.TimeoutMS)*time.Millisecond)
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

	sweeper := services.NewSweeper(
		provider,
		transit.NewCachedGeocoder(geocoder, cfg.Cache.GeocodeCapacity),
		cache.NewKeyed[*domain.Route](cfg.Cache.RouteCapacity),
	)
	sweeper.CountryHint = cfg.Geocode.CountryHint
	sweeper.MaxCandidates = cfg.Sweep.MaxCandidates
	sweeper.MaxParallel = cfg.Sweep.MaxParallel

	result := sweeper.Sweep(context.Background(), services.SweepRequest{
		OriginText:       *from,
		DestinationText:  *to,
		Mode:             mode,
		Anchor:           anchor,
		WindowMinutes:    windowMinutes,
		StepMinutes:      stepMinutes,
		ExcludedProducts: excluded,
	})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatal(err)
	}

	if result.Status != domain.StatusOK {
		os.Exit(1)
	}
}
