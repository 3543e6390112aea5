// Package main provides the nearly command line gate runner: compare a
// candidate metrics file against a baseline and exit nonzero on regression.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/nearly/internal/gate"
	"github.com/thebtf/nearly/pkg/dispatch"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	baselinePath := flag.String("baseline", "", "Baseline metrics JSON file (required)")
	candidatePath := flag.String("candidate", "", "Candidate metrics JSON file (required)")
	rulesPath := flag.String("rules", "", "Gate rules YAML file (optional)")
	qosName := flag.String("qos", "user-initiated", "Dispatch class for the comparison")
	jsonOut := flag.Bool("json", false, "Print the full report as JSON")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})

	if *baselinePath == "" || *candidatePath == "" {
		log.Fatal().Msg("--baseline and --candidate are required")
	}

	baseline, err := gate.LoadDataset(*baselinePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load baseline")
	}
	candidate, err := gate.LoadDataset(*candidatePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load candidate")
	}

	rules := gate.DefaultRules()
	if *rulesPath != "" {
		rules, err = gate.LoadRules(*rulesPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load rules")
		}
	}

	pool := dispatch.NewPool(dispatch.PoolConfig{Name: "cli"})
	engine := gate.NewEngine(pool, dispatch.ParseQoS(*qosName), rules)

	report, err := engine.Compare(context.Background(), baseline, candidate)
	if err != nil {
		log.Fatal().Err(err).Msg("Comparison failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := pool.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("Pool shutdown error")
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.Fatal().Err(err).Msg("Failed to encode report")
		}
	} else {
		printReport(report)
	}

	if !report.Pass {
		os.Exit(1)
	}
}

// printReport writes a human readable summary, failures first.
func printReport(report *gate.Report) {
	for _, r := range report.Results {
		if r.Pass {
			continue
		}
		fmt.Printf("FAIL  %-30s baseline=%v candidate=%v verdict=%s\n",
			r.Name, r.Baseline, r.Candidate, r.Verdict)
	}
	status := "PASS"
	if !report.Pass {
		status = "FAIL"
	}
	fmt.Printf("%s  %d/%d metrics passed\n", status, report.Passed, report.Total)
}
