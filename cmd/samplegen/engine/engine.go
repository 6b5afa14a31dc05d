package engine

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"weekly-report/internal/dataset"
)

type GeneratorConfig struct {
	Scenario   string // "steady", "regress" or "improve"; applies to the target site
	TargetSite string
	Sites      int
	Weeks      int
	Seed       int64
}

// Record is one site's figures for one week.
type Record struct {
	Site        string
	Week        int
	Performance float64
	Percentile  float64 // distance from the bottom of the fleet, 0-100
}

// Tables holds both generated exports.
type Tables struct {
	// Fleet is ranked: within each week the best (lowest) performance comes first.
	Fleet []Record
	// Site is the per-site history in site order, then week order.
	Site []Record
}

func (r Record) label() string {
	return fmt.Sprintf("Week %d", r.Week)
}

func Generate(cfg GeneratorConfig) Tables {
	if cfg.Sites < 1 {
		cfg.Sites = 1
	}
	if cfg.Weeks < 1 {
		cfg.Weeks = 1
	}
	if cfg.TargetSite == "" {
		cfg.TargetSite = "LGB8"
	}
	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), 0x5eed))

	names := make([]string, cfg.Sites)
	names[0] = cfg.TargetSite
	for i := 1; i < cfg.Sites; i++ {
		names[i] = fmt.Sprintf("S%03d", i)
	}

	// Each site has a baseline around which it fluctuates week to week
	baseline := make([]float64, cfg.Sites)
	for i := range baseline {
		baseline[i] = 0.4 + rng.Float64()
	}

	byWeek := make([][]Record, cfg.Weeks)
	for w := 0; w < cfg.Weeks; w++ {
		week := w + 1
		for i, name := range names {
			perf := baseline[i] + (rng.Float64()-0.5)*0.2
			if i == 0 {
				progress := float64(w) / float64(max(cfg.Weeks-1, 1))
				switch cfg.Scenario {
				case "regress":
					perf = 0.6 + 0.8*progress
				case "improve":
					perf = 1.4 - 0.9*progress
				}
			}
			perf = math.Max(0.05, math.Round(perf*100)/100)
			byWeek[w] = append(byWeek[w], Record{Site: name, Week: week, Performance: perf})
		}
		rank(byWeek[w])
	}

	var t Tables
	for _, recs := range byWeek {
		ranked := slices.Clone(recs)
		slices.SortStableFunc(ranked, func(a, b Record) int {
			return cmp.Compare(a.Performance, b.Performance)
		})
		t.Fleet = append(t.Fleet, ranked...)
	}
	for i := range names {
		for _, recs := range byWeek {
			t.Site = append(t.Site, recs[i])
		}
	}
	return t
}

// rank fills Percentile as the share of the fleet doing strictly better,
// stored from the bottom: the best site gets 100.
func rank(recs []Record) {
	n := float64(len(recs))
	for i := range recs {
		better := 0
		for _, other := range recs {
			if other.Performance < recs[i].Performance {
				better++
			}
		}
		recs[i].Percentile = math.Round((100-100*float64(better)/n)*10) / 10
	}
}

func Save(outDir string, t Tables) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	cols := dataset.DefaultColumns()

	fleet := [][]string{{cols.Site, cols.Period, cols.Performance}}
	for _, r := range t.Fleet {
		fleet = append(fleet, []string{r.Site, r.label(), formatFloat(r.Performance)})
	}
	if err := writeCSV(filepath.Join(outDir, "data2.csv"), fleet); err != nil {
		return err
	}

	site := [][]string{{cols.Site, cols.Period, cols.Performance, cols.Percentile}}
	for _, r := range t.Site {
		site = append(site, []string{r.Site, r.label(), formatFloat(r.Performance), formatFloat(r.Percentile)})
	}
	return writeCSV(filepath.Join(outDir, "data1.csv"), site)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
