// Package main provides the batch cleaning command for Persian text files.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"virast/internal/batch"
	"virast/internal/cleaner"
	"virast/internal/config"
	"virast/internal/logger"
	"virast/internal/tokenizer"
)

func main() {
	// 1. Define Command-Line Flags
	// ---------------------------
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	inputDir := flag.String("input", "", "Directory containing source .txt files")
	outputDir := flag.String("output", "", "Directory for cleaned output files")
	manifestPath := flag.String("manifest", "", "Path of the processed-files manifest")
	workers := flag.Int("workers", 0, "Number of parallel workers")
	dryRun := flag.Bool("dry-run", false, "Clean and report diffs without writing or deleting anything")

	flag.Parse()

	// 2. Resolve Configuration
	// ------------------------
	cfg := config.Default()

	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}

		cfg = loaded
	}

	if *inputDir != "" {
		cfg.Cleaner.Input.Dir = *inputDir
	}

	if *outputDir != "" {
		cfg.Cleaner.Output.Dir = *outputDir
	}

	if *manifestPath != "" {
		cfg.Cleaner.Manifest = *manifestPath
	}

	if *workers > 0 {
		cfg.Cleaner.Workers = *workers
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Cleaner.Logging.Level)

	log.Info("🚀 Starting virast cleaning run")
	log.Info(fmt.Sprintf("📍 Source: %s (*%s)", cfg.Cleaner.Input.Dir, cfg.Cleaner.Input.Extension))
	log.Info(fmt.Sprintf("🎯 Output: %s (prefix %q)", cfg.Cleaner.Output.Dir, cfg.Cleaner.Output.Prefix))

	// 3. Tokenizer Readiness
	// ----------------------
	tok, degraded, err := tokenizer.Select(cfg.Cleaner.Tokenizer.Mode, cfg.Cleaner.Tokenizer.Fallback)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Tokenizer initialization failed: %v", err))
		os.Exit(1)
	}

	if degraded {
		log.Warn(fmt.Sprintf("⚠️  Tokenizer %q unavailable, degraded to %q", cfg.Cleaner.Tokenizer.Mode, tok.Name()))
	}

	log.Info(fmt.Sprintf("✅ Tokenizer ready: %s", tok.Name()))

	// 4. Batch Run
	// ------------
	coordinator := batch.New(cfg, cleaner.New(tok), log)
	coordinator.DryRun = *dryRun

	if *dryRun {
		log.Warn("⚠️  Dry run: nothing will be written or deleted")
	}

	report, err := coordinator.Run(context.Background())
	if err != nil {
		log.Error(fmt.Sprintf("❌ Batch run failed: %v", err))
		os.Exit(1)
	}

	// 5. Final Report
	// ---------------
	fmt.Println("\n------------------------------------------------")
	fmt.Printf("📊 Summary Report\n")
	fmt.Println("------------------------------------------------")
	fmt.Printf("Run ID: %s\n", report.RunID)
	fmt.Printf("Files Processed: %d\n", report.Processed)
	fmt.Printf("Files Skipped: %d\n", report.Skipped)

	if report.DeleteFailures > 0 {
		fmt.Printf("⚠️  Originals Not Deleted: %d\n", report.DeleteFailures)
	}

	fmt.Printf("Total Duration: %v\n", report.Duration)
	fmt.Println("------------------------------------------------")

	if report.Skipped > 0 {
		os.Exit(1)
	}
}
