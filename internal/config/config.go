package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"weekly-report/internal/dataset"
	"weekly-report/internal/notify"
	"weekly-report/internal/report"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Report   report.Config
	Webhook  notify.Config
	DataPath string
}

// fileConfig is the optional YAML report configuration. The webhook URL is a
// secret and is only ever read from the environment.
type fileConfig struct {
	TargetSite     string           `yaml:"target_site"`
	Benchmark      *float64         `yaml:"benchmark"`
	SiteFile       string           `yaml:"site_file"`
	FleetFile      string           `yaml:"fleet_file"`
	Contact        string           `yaml:"contact"`
	ActionItems    []string         `yaml:"action_items"`
	Columns        *dataset.Columns `yaml:"columns"`
	WebhookTimeout int              `yaml:"webhook_timeout"`
}

const (
	defaultTargetSite = "LGB8"
	defaultBenchmark  = 0.68
	defaultSiteFile   = "data1.csv"
	defaultFleetFile  = "data2.csv"
	defaultTimeout    = 30
)

// Load loads the configuration from .env files, an optional YAML file and
// environment variables, in increasing order of precedence. configPath may be
// empty, in which case REPORT_CONFIG is consulted.
func Load(configPath string) (*AppConfig, error) {
	// 1. Try to load from the executable's directory
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve data path
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	if configPath == "" {
		configPath = os.Getenv("REPORT_CONFIG")
	}

	return build(dataPath, configPath)
}

func build(dataPath, configPath string) (*AppConfig, error) {
	fc, err := readFile(configPath)
	if err != nil {
		return nil, err
	}

	rc := report.Config{
		TargetSite:  defaultTargetSite,
		Benchmark:   defaultBenchmark,
		SiteFile:    defaultSiteFile,
		FleetFile:   defaultFleetFile,
		Contact:     fc.Contact,
		ActionItems: fc.ActionItems,
		Columns:     dataset.DefaultColumns(),
	}
	if fc.TargetSite != "" {
		rc.TargetSite = fc.TargetSite
	}
	if fc.Benchmark != nil {
		rc.Benchmark = *fc.Benchmark
	}
	if fc.SiteFile != "" {
		rc.SiteFile = fc.SiteFile
	}
	if fc.FleetFile != "" {
		rc.FleetFile = fc.FleetFile
	}
	if fc.Columns != nil {
		rc.Columns = mergeColumns(rc.Columns, *fc.Columns)
	}

	rc.TargetSite = getEnv("TARGET_SITE", rc.TargetSite)
	rc.SiteFile = resolve(dataPath, getEnv("SITE_DATA_FILE", rc.SiteFile))
	rc.FleetFile = resolve(dataPath, getEnv("FLEET_DATA_FILE", rc.FleetFile))

	if rc.Benchmark, err = getEnvFloat("BENCHMARK", rc.Benchmark); err != nil {
		return nil, err
	}

	timeoutSecs := defaultTimeout
	if fc.WebhookTimeout > 0 {
		timeoutSecs = fc.WebhookTimeout
	}
	if v, err := strconv.Atoi(getEnv("WEBHOOK_TIMEOUT_SECONDS", "")); err == nil && v > 0 {
		timeoutSecs = v
	}

	cfg := &AppConfig{
		Report: rc,
		Webhook: notify.Config{
			URL:     getEnv("WEBHOOK_URL", ""),
			Timeout: time.Duration(timeoutSecs) * time.Second,
		},
		DataPath: dataPath,
	}

	log.Debug().
		Str("site", rc.TargetSite).
		Float64("benchmark", rc.Benchmark).
		Str("siteFile", rc.SiteFile).
		Str("fleetFile", rc.FleetFile).
		Bool("webhookConfigured", cfg.Webhook.URL != "").
		Msg("Configuration resolved")

	return cfg, nil
}

func readFile(path string) (fileConfig, error) {
	var fc fileConfig
	if path == "" {
		return fc, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("path", path).Msg("Report config file not found, using defaults")
			return fc, nil
		}
		return fc, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fc, fmt.Errorf("parse config %s: %w", path, err)
	}
	log.Debug().Str("path", path).Msg("Loaded report config file")
	return fc, nil
}

func mergeColumns(base, override dataset.Columns) dataset.Columns {
	if override.Site != "" {
		base.Site = override.Site
	}
	if override.Period != "" {
		base.Period = override.Period
	}
	if override.Performance != "" {
		base.Performance = override.Performance
	}
	if override.Percentile != "" {
		base.Percentile = override.Percentile
	}
	return base
}

func resolve(dataPath, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dataPath, file)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return f, nil
}
