package engine

import (
	"context"
	"path/filepath"
	"testing"

	"weekly-report/internal/dataset"
	"weekly-report/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Deterministic(t *testing.T) {
	cfg := GeneratorConfig{Scenario: "steady", TargetSite: "LGB8", Sites: 5, Weeks: 4, Seed: 42}
	assert.Equal(t, Generate(cfg), Generate(cfg))
}

func TestGenerate_Shape(t *testing.T) {
	tables := Generate(GeneratorConfig{TargetSite: "LGB8", Sites: 6, Weeks: 3, Seed: 1})

	require.Len(t, tables.Fleet, 18)
	require.Len(t, tables.Site, 18)
	assert.Equal(t, "LGB8", tables.Site[0].Site)

	// Fleet is ranked within each week.
	for i := 1; i < len(tables.Fleet); i++ {
		prev, cur := tables.Fleet[i-1], tables.Fleet[i]
		if prev.Week == cur.Week {
			assert.LessOrEqual(t, prev.Performance, cur.Performance)
		}
	}

	for _, r := range tables.Site {
		assert.GreaterOrEqual(t, r.Percentile, 0.0)
		assert.LessOrEqual(t, r.Percentile, 100.0)
		assert.Greater(t, r.Performance, 0.0)
	}
}

func TestGenerate_RegressEndsAboveBenchmark(t *testing.T) {
	tables := Generate(GeneratorConfig{Scenario: "regress", TargetSite: "LGB8", Sites: 3, Weeks: 5, Seed: 7})

	var last Record
	for _, r := range tables.Site {
		if r.Site == "LGB8" {
			last = r
		}
	}
	assert.Equal(t, 5, last.Week)
	assert.InDelta(t, 1.4, last.Performance, 1e-9)
}

func TestRank(t *testing.T) {
	recs := []Record{{Performance: 0.5}, {Performance: 0.9}, {Performance: 0.5}, {Performance: 1.2}}
	rank(recs)

	assert.Equal(t, 100.0, recs[0].Percentile)
	assert.Equal(t, 50.0, recs[1].Percentile)
	assert.Equal(t, 100.0, recs[2].Percentile)
	assert.Equal(t, 25.0, recs[3].Percentile)
}

func TestSave_FeedsReport(t *testing.T) {
	dir := t.TempDir()
	tables := Generate(GeneratorConfig{Scenario: "regress", TargetSite: "LGB8", Sites: 4, Weeks: 3, Seed: 3})
	require.NoError(t, Save(dir, tables))

	cols := dataset.DefaultColumns()
	site, err := dataset.Load(filepath.Join(dir, "data1.csv"), cols.Site, cols.Period, cols.Performance, cols.Percentile)
	require.NoError(t, err)
	assert.Equal(t, 12, site.Len())

	msg := report.NewGenerator(report.Config{
		TargetSite: "LGB8",
		Benchmark:  0.68,
		FleetFile:  filepath.Join(dir, "data2.csv"),
		SiteFile:   filepath.Join(dir, "data1.csv"),
	}).Generate(context.Background())

	assert.Contains(t, msg, "Top Performer (Week 3)")
	assert.Contains(t, msg, "Site: "+tables.Fleet[8].Site)
	assert.Contains(t, msg, "Site Performance: 1.40 🔴")
	assert.Contains(t, msg, "Weekly Deficit: +0.40 (Worse)")
	assert.Contains(t, msg, "Action Items to Improve Performance")
}
