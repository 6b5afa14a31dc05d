package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"WEBHOOK_URL", "WEBHOOK_TIMEOUT_SECONDS", "TARGET_SITE", "BENCHMARK",
		"SITE_DATA_FILE", "FLEET_DATA_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestBuild_Defaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := build(dir, "")
	require.NoError(t, err)

	assert.Equal(t, "LGB8", cfg.Report.TargetSite)
	assert.Equal(t, 0.68, cfg.Report.Benchmark)
	assert.Equal(t, filepath.Join(dir, "data1.csv"), cfg.Report.SiteFile)
	assert.Equal(t, filepath.Join(dir, "data2.csv"), cfg.Report.FleetFile)
	assert.Equal(t, "Site", cfg.Report.Columns.Site)
	assert.Equal(t, "TimeFrame# Text", cfg.Report.Columns.Period)
	assert.Empty(t, cfg.Webhook.URL)
	assert.Equal(t, 30*time.Second, cfg.Webhook.Timeout)
}

func TestBuild_FileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "report.yaml")
	content := `
target_site: ONT2
benchmark: 0.75
fleet_file: /srv/exports/fleet.csv
contact: "#yard-ops"
webhook_timeout: 10
action_items:
  - "• Keep moving."
columns:
  performance: Idle Ratio
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("TARGET_SITE", "SBD1")
	t.Setenv("WEBHOOK_URL", "https://hooks.example.com/x")

	cfg, err := build(dir, path)
	require.NoError(t, err)

	assert.Equal(t, "SBD1", cfg.Report.TargetSite)
	assert.Equal(t, 0.75, cfg.Report.Benchmark)
	assert.Equal(t, "/srv/exports/fleet.csv", cfg.Report.FleetFile)
	assert.Equal(t, filepath.Join(dir, "data1.csv"), cfg.Report.SiteFile)
	assert.Equal(t, "#yard-ops", cfg.Report.Contact)
	assert.Equal(t, []string{"• Keep moving."}, cfg.Report.ActionItems)
	assert.Equal(t, "Idle Ratio", cfg.Report.Columns.Performance)
	assert.Equal(t, "Site", cfg.Report.Columns.Site)
	assert.Equal(t, 10*time.Second, cfg.Webhook.Timeout)
	assert.Equal(t, "https://hooks.example.com/x", cfg.Webhook.URL)
}

func TestBuild_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("BENCHMARK", "0.5")
	t.Setenv("WEBHOOK_TIMEOUT_SECONDS", "5")
	t.Setenv("SITE_DATA_FILE", "site.csv")

	cfg, err := build("/data", "")
	require.NoError(t, err)

	assert.Equal(t, 0.5, cfg.Report.Benchmark)
	assert.Equal(t, 5*time.Second, cfg.Webhook.Timeout)
	assert.Equal(t, filepath.Join("/data", "site.csv"), cfg.Report.SiteFile)
}

func TestBuild_InvalidBenchmark(t *testing.T) {
	clearEnv(t)
	t.Setenv("BENCHMARK", "high")

	_, err := build(t.TempDir(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BENCHMARK")
}

func TestBuild_MissingConfigFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := build(dir, filepath.Join(dir, "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "LGB8", cfg.Report.TargetSite)
}

func TestBuild_MalformedConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "report.yaml")
	require.NoError(t, os.WriteFile(path, []byte("benchmark: [oops"), 0644))

	_, err := build(dir, path)
	require.Error(t, err)
}
