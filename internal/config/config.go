// Package config loads run settings from the environment and the optional
// markets file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingDataDir      = errors.New("DATA_DIR must not be empty")
	ErrMissingOutputDir    = errors.New("OUTPUT_DIR must not be empty")
	ErrInvalidReadRetry    = errors.New("READ_RETRY_SECONDS must be a non-negative integer")
	ErrNoMarkets           = errors.New("at least one market is required")
	ErrMarketMissingName   = errors.New("market name is required")
	ErrMarketMissingFolder = errors.New("market folder is required")
	ErrDuplicateMarket     = errors.New("market name must be unique")
	ErrUnknownMarket       = errors.New("unknown market")
)

// Market is one regional portfolio and the folder holding its exports.
type Market struct {
	Name   string `yaml:"name"`
	Folder string `yaml:"folder"`
}

type marketsFile struct {
	Markets []Market `yaml:"markets"`
}

// DefaultMarkets are used when no markets file is configured.
func DefaultMarkets() []Market {
	return []Market{
		{Name: "gujarati", Folder: "GJ Cac Solver"},
		{Name: "haryanvi", Folder: "HR Cac Solver"},
		{Name: "rajasthani", Folder: "RJ Cac Solver"},
		{Name: "bhojpuri", Folder: "BH Cac Solver"},
	}
}

type Config struct {
	DataDir   string
	OutputDir string
	// ReadRetry bounds how long an unreadable export is retried. 0 disables
	// retries.
	ReadRetry time.Duration
	Markets   []Market
}

// Load reads .env if present, then DATA_DIR, OUTPUT_DIR, READ_RETRY_SECONDS
// and MARKETS_FILE from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DataDir:   envOr("DATA_DIR", "."),
		OutputDir: envOr("OUTPUT_DIR", "output"),
		Markets:   DefaultMarkets(),
	}

	if v := os.Getenv("READ_RETRY_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidReadRetry, v)
		}
		cfg.ReadRetry = time.Duration(n) * time.Second
	}

	if path := os.Getenv("MARKETS_FILE"); path != "" {
		markets, err := LoadMarkets(path)
		if err != nil {
			return nil, err
		}
		cfg.Markets = markets
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadMarkets reads a YAML file of the form:
//
//	markets:
//	  - name: gujarati
//	    folder: GJ Cac Solver
func LoadMarkets(path string) ([]Market, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read markets file: %w", err)
	}
	var f marketsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse markets file: %w", err)
	}
	return f.Markets, nil
}

func (c *Config) Validate() error {
	if c.DataDir == "" {
		return ErrMissingDataDir
	}
	if c.OutputDir == "" {
		return ErrMissingOutputDir
	}
	if c.ReadRetry < 0 {
		return ErrInvalidReadRetry
	}
	if len(c.Markets) == 0 {
		return ErrNoMarkets
	}
	seen := make(map[string]bool, len(c.Markets))
	for i, m := range c.Markets {
		if m.Name == "" {
			return fmt.Errorf("%w: markets[%d]", ErrMarketMissingName, i)
		}
		if m.Folder == "" {
			return fmt.Errorf("%w: %s", ErrMarketMissingFolder, m.Name)
		}
		key := strings.ToLower(m.Name)
		if seen[key] {
			return fmt.Errorf("%w: %s", ErrDuplicateMarket, m.Name)
		}
		seen[key] = true
	}
	return nil
}

// Market looks a market up by name, case-insensitively.
func (c *Config) Market(name string) (Market, error) {
	for _, m := range c.Markets {
		if strings.EqualFold(m.Name, name) {
			return m, nil
		}
	}
	return Market{}, fmt.Errorf("%w: %s", ErrUnknownMarket, name)
}

// MarketDir is the folder holding a market's exports.
func (c *Config) MarketDir(m Market) string {
	return filepath.Join(c.DataDir, m.Folder)
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
