package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"weekly-report/cmd/samplegen/engine"
)

func main() {
	scenario := flag.String("scenario", "steady", "Scenario to generate: steady, regress, improve")
	target := flag.String("site", "LGB8", "Target site that must appear in the site table")
	sites := flag.Int("sites", 12, "Number of sites in the fleet")
	weeks := flag.Int("weeks", 8, "Number of weeks of history")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	outDir := flag.String("out", ".", "Output directory for the CSV tables")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario:   *scenario,
		TargetSite: *target,
		Sites:      *sites,
		Weeks:      *weeks,
		Seed:       *seed,
	}

	fmt.Printf("Generating scenario '%s' (%d sites, %d weeks, target %s) to %s...\n", cfg.Scenario, cfg.Sites, cfg.Weeks, cfg.TargetSite, *outDir)

	tables := engine.Generate(cfg)
	if err := engine.Save(*outDir, tables); err != nil {
		fmt.Printf("Failed to save sample data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}
