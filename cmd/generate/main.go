package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"fbw-backend/internal/config"
	"fbw-backend/internal/database"
	"fbw-backend/internal/llm"
	"fbw-backend/internal/pipeline"
	"fbw-backend/internal/services"
	"fbw-backend/internal/sportsdata"
)

// Command-line trigger for a single generation run. Useful for cron and
// for re-running a day after an upstream failure.
func main() {
	ruleset := flag.String("ruleset", pipeline.RulesetOfficial, "ruleset to run (official or special)")
	day := flag.String("day", time.Now().UTC().Format("2006-01-02"), "target day (YYYY-MM-DD)")
	flag.Parse()

	if *ruleset != pipeline.RulesetOfficial && *ruleset != pipeline.RulesetSpecial {
		fmt.Fprintf(os.Stderr, "unknown ruleset %q\n", *ruleset)
		os.Exit(2)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if err := database.Connect(cfg.GetDSN()); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if err := database.AutoMigrate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	fixtureClient := sportsdata.NewClient(cfg.Football.APIKey, logger)
	generator := llm.NewGeminiGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, logger)
	predictionService := services.NewPredictionService(database.GetDB(), fixtureClient, generator, logger)

	var summary *services.RunSummary
	switch *ruleset {
	case pipeline.RulesetOfficial:
		summary, err = predictionService.RunOfficial(ctx, *day)
	case pipeline.RulesetSpecial:
		summary, err = predictionService.RunSpecial(ctx, *day)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s run for %s: %d picks\n", summary.Ruleset, summary.Day, summary.Total)
	for category, count := range summary.Counts {
		fmt.Printf("  %-16s %d\n", category, count)
	}
	if summary.Warning != "" {
		fmt.Printf("warning: %s\n", summary.Warning)
	}
}
