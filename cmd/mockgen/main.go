package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"crm-metrics/cmd/mockgen/engine"
)

func main() {
	scenario := flag.String("scenario", "mild", "Scenario to generate: mild, chaos, drift")
	distribution := flag.String("distribution", "uniform", "Handling time distribution: uniform, weibull")
	outDir := flag.String("out", "./cache", "Output directory (the snapshot cache dir)")
	count := flag.Int("count", 500, "Number of activities to generate")
	agents := flag.Int("agents", 12, "Number of agents (the first two act as managers)")
	companies := flag.Int("companies", 40, "Number of customer companies")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "Random seed")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario:     *scenario,
		Distribution: *distribution,
		Count:        *count,
		Agents:       *agents,
		Companies:    *companies,
		Seed:         *seed,
		Now:          time.Now(),
	}

	fmt.Printf("Generating scenario '%s' (Distribution: %s, Count: %d) to %s...\n", cfg.Scenario, cfg.Distribution, cfg.Count, *outDir)

	snap := engine.Generate(cfg)
	if err := engine.Save(context.Background(), *outDir, snap); err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}
