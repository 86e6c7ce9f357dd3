// Command generate fills in AI descriptions for glossary terms that have
// none. It processes one batch per run unless --continuous is set.
//
// Usage:
//
//	generate [--batch-size N] [--delay 500ms] [--continuous] [--dry-run]
//
// Requires DATABASE_DSN and ANTHROPIC_API_KEY (unless --dry-run).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/ezbjus/bariwikiemerg/internal/adapter/postgres"
	termrepo "github.com/ezbjus/bariwikiemerg/internal/adapter/postgres/term"
	"github.com/ezbjus/bariwikiemerg/internal/config"
	"github.com/ezbjus/bariwikiemerg/internal/service/generator"
)

func main() {
	batchSize := flag.Int("batch-size", 100, "terms per batch")
	delay := flag.Duration("delay", 500*time.Millisecond, "delay between API calls")
	continuous := flag.Bool("continuous", false, "run until all terms are processed")
	dryRun := flag.Bool("dry-run", false, "show status without processing")
	flag.Parse()

	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if !*dryRun && !cfg.Generation.GenerationEnabled() {
		logger.Error("ANTHROPIC_API_KEY is not set")
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	terms := termrepo.New(pool)

	var gen generator.ContentGenerator
	if cfg.Generation.GenerationEnabled() {
		gen = generator.NewAnthropicGenerator(cfg.Generation)
	}
	svc := generator.NewService(logger, terms, gen, cfg.Glossary.HintLimit)

	res, err := svc.RunBatch(ctx, generator.BatchOptions{
		BatchSize:  *batchSize,
		Delay:      *delay,
		Continuous: *continuous,
		DryRun:     *dryRun,
	})
	if err != nil {
		logger.Error("batch run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Total terms:     %d\n", res.Stats.Total)
	fmt.Printf("Published:       %d\n", res.Stats.Published)
	fmt.Printf("Drafts:          %d\n", res.Stats.Drafts)
	if *dryRun {
		fmt.Println("[Dry run - no changes made]")
		return
	}
	fmt.Printf("Processed:       %d\n", res.Processed)
	fmt.Printf("Successful:      %d\n", res.Succeeded)
	fmt.Printf("Failed:          %d\n", res.Failed)
}
