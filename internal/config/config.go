// Package config centralizes all application configuration into typed structs.
//
// Defaults come from NewDefaultConfig. Load layers a .env file (if present)
// and SAFEROUTE_* environment variables on top of them, so a bare binary
// starts with sensible settings and deployments only override what differs.
//
// Go Learning Note — Typed Configuration:
// Using typed structs (not raw strings/maps) gives you compile-time safety
// and IDE autocompletion. Environment variables are parsed exactly once, at
// startup, and a malformed value is a startup error rather than a silent
// fallback to the default.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names recognized by Load.
const (
	EnvPort              = "SAFEROUTE_PORT"
	EnvDataPath          = "SAFEROUTE_DATA_PATH"
	EnvGeohashPrecision  = "SAFEROUTE_GEOHASH_PRECISION"
	EnvRouteOffset       = "SAFEROUTE_ROUTE_OFFSET"
	EnvGeocoderURL       = "SAFEROUTE_GEOCODER_URL"
	EnvGeocoderUserAgent = "SAFEROUTE_GEOCODER_USER_AGENT"
	EnvGeocoderTimeout   = "SAFEROUTE_GEOCODER_TIMEOUT"
	EnvLogLevel          = "SAFEROUTE_LOG_LEVEL"
	EnvLogFile           = "SAFEROUTE_LOG_FILE"
)

// Config is the top-level configuration container.
type Config struct {
	Server    ServerConfig
	Safety    SafetyConfig
	Scoring   ScoringConfig
	Routing   RoutingConfig
	Geocoding GeocodingConfig
	Logging   LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// SafetyConfig locates the reference dataset. GeohashPrecision only controls
// the cell label attached to each reference point; 7 is roughly 150 m cells.
type SafetyConfig struct {
	DataPath         string
	GeohashPrecision int
}

// ScoringConfig holds the weights of the safety formula:
//
//	score = Lighting*lighting + Crowd*crowd + Crime*(1-crime_rate) + Police*(1-police_distance)
//
// The weights must be non-negative and sum to 1 so the score stays in [0,1].
type ScoringConfig struct {
	LightingWeight float64
	CrowdWeight    float64
	CrimeWeight    float64
	PoliceWeight   float64
}

// RoutingConfig controls candidate route generation. OffsetDegrees is the
// constant perturbation applied to build the alternative routes.
type RoutingConfig struct {
	OffsetDegrees float64
}

// GeocodingConfig configures the Nominatim client. Nominatim's usage policy
// requires an identifying User-Agent.
type GeocodingConfig struct {
	Endpoint  string
	UserAgent string
	Timeout   time.Duration
}

// LoggingConfig selects the log level and, optionally, a rotated log file.
// An empty File logs to stdout.
type LoggingConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// NewDefaultConfig returns a Config populated with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Safety: SafetyConfig{
			DataPath:         "data/safety_data.csv",
			GeohashPrecision: 7,
		},
		Scoring: ScoringConfig{
			LightingWeight: 0.4,
			CrowdWeight:    0.3,
			CrimeWeight:    0.2,
			PoliceWeight:   0.1,
		},
		Routing: RoutingConfig{
			OffsetDegrees: 0.01,
		},
		Geocoding: GeocodingConfig{
			Endpoint:  "https://nominatim.openstreetmap.org",
			UserAgent: "safe-route-app",
			Timeout:   10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 7,
			MaxAgeDays: 7,
		},
	}
}

// Load returns the default config with .env and environment overrides applied.
// A missing .env file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := NewDefaultConfig()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// lookupFunc matches os.LookupEnv; tests substitute a map-backed version.
type lookupFunc func(key string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	if v, ok := lookup(EnvPort); ok && v != "" {
		if !strings.Contains(v, ":") {
			v = ":" + v
		}
		c.Server.Port = v
	}
	if v, ok := lookup(EnvDataPath); ok && v != "" {
		c.Safety.DataPath = v
	}
	if v, ok := lookup(EnvGeohashPrecision); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvGeohashPrecision, v, err)
		}
		c.Safety.GeohashPrecision = n
	}
	if v, ok := lookup(EnvRouteOffset); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvRouteOffset, v, err)
		}
		c.Routing.OffsetDegrees = f
	}
	if v, ok := lookup(EnvGeocoderURL); ok && v != "" {
		c.Geocoding.Endpoint = strings.TrimRight(v, "/")
	}
	if v, ok := lookup(EnvGeocoderUserAgent); ok && v != "" {
		c.Geocoding.UserAgent = v
	}
	if v, ok := lookup(EnvGeocoderTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvGeocoderTimeout, v, err)
		}
		c.Geocoding.Timeout = d
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvLogFile); ok {
		c.Logging.File = v
	}
	return nil
}

// Validate checks invariants that cannot be expressed in the types.
func (c *Config) Validate() error {
	s := c.Scoring
	for name, w := range map[string]float64{
		"lighting": s.LightingWeight,
		"crowd":    s.CrowdWeight,
		"crime":    s.CrimeWeight,
		"police":   s.PoliceWeight,
	} {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return fmt.Errorf("scoring weight %s must be a finite non-negative number, got %v", name, w)
		}
	}
	sum := s.LightingWeight + s.CrowdWeight + s.CrimeWeight + s.PoliceWeight
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("scoring weights must sum to 1, got %v", sum)
	}
	if c.Safety.DataPath == "" {
		return errors.New("safety data path required")
	}
	if c.Safety.GeohashPrecision < 1 || c.Safety.GeohashPrecision > 12 {
		return fmt.Errorf("geohash precision must be in [1,12], got %d", c.Safety.GeohashPrecision)
	}
	if o := c.Routing.OffsetDegrees; math.IsNaN(o) || math.IsInf(o, 0) || o < 0 {
		return fmt.Errorf("route offset must be a finite non-negative number, got %v", o)
	}
	if c.Geocoding.Timeout <= 0 {
		return fmt.Errorf("geocoder timeout must be positive, got %v", c.Geocoding.Timeout)
	}
	return nil
}
