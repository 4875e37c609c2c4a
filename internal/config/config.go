package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Lem0nsong/prologistics-proxy/internal/domain"
)

type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0,lte=65535"`
}

type ProviderConfig struct {
	BaseURL   string `yaml:"baseURL" validate:"required,url"`
	TimeoutMS int    `yaml:"timeoutMS" validate:"gte=0"`
}

type SweepConfig struct {
	MaxCandidates        int `yaml:"maxCandidates" validate:"gt=0"`
	MaxParallel          int `yaml:"maxParallel" validate:"gt=0"`
	DefaultWindowMinutes int `yaml:"defaultWindowMinutes" validate:"gte=0"`
	DefaultStepMinutes   int `yaml:"defaultStepMinutes" validate:"gt=0"`
}

type CacheConfig struct {
	RouteCapacity   int `yaml:"routeCapacity" validate:"gt=0"`
	GeocodeCapacity int `yaml:"geocodeCapacity" validate:"gt=0"`
}

type FilterConfig struct {
	// Product categories excluded when a request asks for
	// local-transport-only results (ticket-validity filtering).
	LocalOnlyExcludes []string `yaml:"localOnlyExcludes"`
}

type GeocodeConfig struct {
	CountryHint string `yaml:"countryHint"`
}

type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Provider ProviderConfig `yaml:"provider"`
	Sweep    SweepConfig    `yaml:"sweep"`
	Cache    CacheConfig    `yaml:"cache"`
	Filter   FilterConfig   `yaml:"filter"`
	Geocode  GeocodeConfig  `yaml:"geocode"`
}

// LocalOnlyProducts returns the configured exclusion set as domain
// product categories.
func (c *AppConfig) LocalOnlyProducts() []domain.ProductCategory {
	out := make([]domain.ProductCategory, 0, len(c.Filter.LocalOnlyExcludes))
	for _, p := range c.Filter.LocalOnlyExcludes {
		out = append(out, domain.ProductCategory(p))
	}
	return out
}

// Defaults returns the configuration used when no file is present.
func Defaults() AppConfig {
	return AppConfig{
		Server:   ServerConfig{Port: 8080},
		Provider: ProviderConfig{BaseURL: "https://www.mvg.de/api/bgw-pt/v3", TimeoutMS: 10000},
		Sweep: SweepConfig{
			MaxCandidates:        8,
			MaxParallel:          4,
			DefaultWindowMinutes: 60,
			DefaultStepMinutes:   10,
		},
		Cache:   CacheConfig{RouteCapacity: 512, GeocodeCapacity: 256},
		Filter:  FilterConfig{LocalOnlyExcludes: []string{string(domain.ProductBahn)}},
		Geocode: GeocodeConfig{CountryHint: "de"},
	}
}

// Load reads and validates the YAML configuration at path. A missing
// file is not an error: defaults apply. Fields omitted from the file
// fall back to their defaults before validation runs.
func Load(path string) (AppConfig, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("load config: read %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("load config: parse %q: %w", path, err)
	}

	applyDefaults(&cfg)

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("load config: validate %q: %w", path, err)
	}

	return cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	def := Defaults()
	if cfg.Server.Port == 0 {
		cfg.Server.Port = def.Server.Port
	}
	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = def.Provider.BaseURL
	}
	if cfg.Provider.TimeoutMS == 0 {
		cfg.Provider.TimeoutMS = def.Provider.TimeoutMS
	}
	if cfg.Sweep.MaxCandidates == 0 {
		cfg.Sweep.MaxCandidates = def.Sweep.MaxCandidates
	}
	if cfg.Sweep.MaxParallel == 0 {
		cfg.Sweep.MaxParallel = def.Sweep.MaxParallel
	}
	if cfg.Sweep.DefaultStepMinutes == 0 {
		cfg.Sweep.DefaultStepMinutes = def.Sweep.DefaultStepMinutes
	}
	if cfg.Cache.RouteCapacity == 0 {
		cfg.Cache.RouteCapacity = def.Cache.RouteCapacity
	}
	if cfg.Cache.GeocodeCapacity == 0 {
		cfg.Cache.GeocodeCapacity = def.Cache.GeocodeCapacity
	}
}
