// Package config loads engine and service configuration from the
// environment, with code-level defaults. Commands load a .env file first via
// godotenv, so local runs need no exported variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"graphboot/domain/boot"
	"graphboot/domain/core"
)

// Config is the full application configuration.
type Config struct {
	Run      RunConfig
	Data     DataConfig
	Server   ServerConfig
	Database DatabaseConfig
	LogLevel string
}

// RunConfig carries the bootstrap run parameters.
type RunConfig struct {
	Replicates int
	Densities  []float64
	Measure    string
	Transform  string
	Confidence float64
	Seed       int64
	Workers    int
}

// DataConfig locates the residual dataset input.
type DataConfig struct {
	Path   string   // .xlsx or .csv file
	Groups []string // optional explicit group order; empty means all found
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr string
}

// DatabaseConfig holds optional postgres persistence settings. An empty URL
// disables persistence.
type DatabaseConfig struct {
	URL string
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Run: RunConfig{
			Replicates: envInt("BOOT_REPLICATES", 1000),
			Measure:    envStr("BOOT_MEASURE", string(boot.MeasureModularity)),
			Transform:  envStr("BOOT_TRANSFORM", string(boot.TransformReciprocal)),
			Confidence: envFloat("BOOT_CONFIDENCE", 0.95),
			Seed:       int64(envInt("BOOT_SEED", 1)),
			Workers:    envInt("BOOT_WORKERS", 0),
		},
		Data: DataConfig{
			Path:   envStr("BOOT_DATA_PATH", ""),
			Groups: splitList(envStr("BOOT_GROUPS", "")),
		},
		Server: ServerConfig{
			Addr: envStr("BOOT_LISTEN_ADDR", ":8080"),
		},
		Database: DatabaseConfig{
			URL: envStr("DATABASE_URL", ""),
		},
		LogLevel: envStr("LOG_LEVEL", "info"),
	}

	densities, err := parseDensities(envStr("BOOT_DENSITIES", "0.05,0.10,0.15,0.20,0.25"))
	if err != nil {
		return nil, err
	}
	cfg.Run.Densities = densities
	return cfg, nil
}

// BootConfig converts the run section into the domain configuration.
// Validation happens in the domain, not here.
func (c *Config) BootConfig() boot.Config {
	return boot.Config{
		Replicates: c.Run.Replicates,
		Densities:  c.Run.Densities,
		Measure:    boot.Measure(c.Run.Measure),
		Transform:  boot.WeightTransform(c.Run.Transform),
		Confidence: c.Run.Confidence,
		Seed:       core.Seed(c.Run.Seed),
		Workers:    c.Run.Workers,
	}
}

func parseDensities(s string) ([]float64, error) {
	parts := splitList(s)
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, core.NewConfigError("BOOT_DENSITIES", fmt.Sprintf("bad density %q", p))
		}
		out = append(out, v)
	}
	return out, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
