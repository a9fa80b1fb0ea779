// Package batch orchestrates the cleaning pipeline over a source
// directory: scan, clean, durable write, diff report, source delete,
// manifest.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"virast/internal/cleaner"
	"virast/internal/config"
	"virast/internal/diff"
	"virast/internal/logger"
	"virast/internal/models"
	"virast/internal/tokenizer"
	"virast/pkg/atomicfile"
)

// Per-file processing errors. Read and write failures skip the file and
// the batch continues; a delete failure still counts the file as
// processed because its output exists.
var (
	ErrSourceRead   = errors.New("source file unreadable")
	ErrOutputWrite  = errors.New("output write failed")
	ErrSourceDelete = errors.New("source delete failed")
)

// Coordinator runs the pipeline across every matching file in the input
// directory.
type Coordinator struct {
	cfg *config.Config
	cl  *cleaner.Cleaner
	log *logger.Logger

	// Out receives per-file confirmations and diff reports.
	Out io.Writer
	// DryRun cleans and reports without writing, deleting, or recording.
	DryRun bool
}

// New creates a coordinator reporting to stdout.
func New(cfg *config.Config, cl *cleaner.Cleaner, log *logger.Logger) *Coordinator {
	return &Coordinator{
		cfg: cfg,
		cl:  cl,
		log: log,
		Out: os.Stdout,
	}
}

// Run processes the batch and returns the run report. Per-file errors are
// recorded and logged, never fatal; only a tokenizer resource failure or
// an unusable input/output directory aborts the run.
func (c *Coordinator) Run(ctx context.Context) (*models.RunReport, error) {
	report := &models.RunReport{
		RunID:   models.NewRunID(),
		Started: time.Now(),
	}
	log := c.log.With("run_id", report.RunID)

	sources, err := c.scanSources()
	if err != nil {
		return nil, err
	}

	if len(sources) == 0 {
		log.Info("no source files found", "dir", c.cfg.Cleaner.Input.Dir, "extension", c.cfg.Cleaner.Input.Extension)
		report.Duration = time.Since(report.Started)

		return report, nil
	}

	if !c.DryRun {
		if err := os.MkdirAll(c.cfg.Cleaner.Output.Dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	records := c.processAll(ctx, sources, log)

	// Manifest order follows the scan order, not worker completion order.
	var processed []string

	for _, rec := range records {
		switch rec.Outcome {
		case models.OutcomeProcessed:
			report.Processed++
		case models.OutcomeDeleteFailed:
			report.Processed++
			report.DeleteFailures++
		case models.OutcomeSkipped:
			report.Skipped++

			if errors.Is(rec.Err, tokenizer.ErrResourceUnavailable) {
				return report, rec.Err
			}
		}

		if rec.Succeeded() {
			processed = append(processed, rec.Source)
		}
	}

	if len(processed) > 0 && !c.DryRun {
		if err := writeManifest(c.cfg.Cleaner.Manifest, processed); err != nil {
			return report, err
		}

		log.Info("manifest saved", "path", c.cfg.Cleaner.Manifest, "entries", len(processed))
	} else if len(processed) == 0 {
		log.Info("no files were processed")
	}

	report.Duration = time.Since(report.Started)

	return report, nil
}

// processAll fans sources out to the configured number of workers. Records
// land at the index of their source so results stay deterministic under
// any interleaving; console output is serialized so diff reports do not
// interleave.
func (c *Coordinator) processAll(ctx context.Context, sources []string, log *logger.Logger) []models.ProcessingRecord {
	workers := c.cfg.Cleaner.Workers
	if workers > len(sources) {
		workers = len(sources)
	}

	records := make([]models.ProcessingRecord, len(sources))
	jobs := make(chan int)

	var outMu sync.Mutex

	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range jobs {
				records[i] = c.processOne(ctx, sources[i], &outMu, log)
			}
		}()
	}

	for i := range sources {
		jobs <- i
	}

	close(jobs)
	wg.Wait()

	return records
}

// processOne runs the full pipeline for a single source file.
func (c *Coordinator) processOne(ctx context.Context, name string, outMu *sync.Mutex, log *logger.Logger) models.ProcessingRecord {
	start := time.Now()
	rec := models.ProcessingRecord{Source: name}

	inPath := filepath.Join(c.cfg.Cleaner.Input.Dir, name)

	raw, err := os.ReadFile(inPath)
	if err != nil {
		rec.Outcome = models.OutcomeSkipped
		rec.Err = fmt.Errorf("%w: %v", ErrSourceRead, err)
		log.Error("skipping unreadable source", "file", name, "error", err)

		return rec
	}

	doc := models.Document{Path: inPath, Name: name, Text: string(raw)}

	cleaned, err := c.cl.Clean(ctx, doc.Text)
	if err != nil {
		rec.Outcome = models.OutcomeSkipped
		rec.Err = err
		log.Error("cleaning failed", "file", name, "error", err)

		return rec
	}

	if c.cfg.Features.StrictVerify {
		if verr := c.cl.Verify(cleaned); verr != nil {
			// The transform is total, so this indicates a rules bug rather
			// than bad input. Keep the output and flag it loudly.
			log.Warn("cleaned text violates contract", "file", name, "error", verr)
		}
	}

	outName := c.cfg.OutputName(name)
	outPath := filepath.Join(c.cfg.Cleaner.Output.Dir, outName)
	rec.Output = outName

	if !c.DryRun {
		// Write-before-delete: the source survives any write failure.
		if err := atomicfile.WriteFile(outPath, []byte(cleaned), 0644); err != nil {
			rec.Outcome = models.OutcomeSkipped
			rec.Err = fmt.Errorf("%w: %v", ErrOutputWrite, err)
			log.Error("output write failed, source kept", "file", name, "error", err)

			return rec
		}
	}

	rec.Checksum = atomicfile.Checksum([]byte(cleaned))

	outMu.Lock()
	fmt.Fprintf(c.Out, "File %q processed and saved as %q\n", name, outPath)

	if c.cfg.Cleaner.Logging.ShowDiff {
		diff.Report(c.Out, diff.Lines(doc.Text, cleaned), c.cfg.Cleaner.Logging.DiffWidth)
	}

	fmt.Fprintf(c.Out, "\n%s\n\n", strings.Repeat("-", 50))
	outMu.Unlock()

	if c.DryRun {
		rec.Outcome = models.OutcomeProcessed
		rec.Duration = time.Since(start)

		return rec
	}

	if err := os.Remove(inPath); err != nil {
		rec.Outcome = models.OutcomeDeleteFailed
		rec.Err = fmt.Errorf("%w: %v", ErrSourceDelete, err)
		log.Error("original not deleted, output kept", "file", name, "error", err)
	} else {
		rec.Outcome = models.OutcomeProcessed
		log.Info("original deleted", "file", name)
	}

	rec.Duration = time.Since(start)

	return rec
}

// scanSources lists matching filenames in the input directory, already
// sorted by os.ReadDir. The manifest is skipped in case it lives among the
// sources, as it historically did.
func (c *Coordinator) scanSources() ([]string, error) {
	entries, err := os.ReadDir(c.cfg.Cleaner.Input.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	manifestName := filepath.Base(c.cfg.Cleaner.Manifest)

	var names []string

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), c.cfg.Cleaner.Input.Extension) {
			continue
		}

		if e.Name() == manifestName {
			continue
		}

		names = append(names, e.Name())
	}

	return names, nil
}

// writeManifest persists the processed source names, one per line,
// overwriting any previous run's manifest.
func writeManifest(path string, names []string) error {
	var sb strings.Builder

	for _, n := range names {
		sb.WriteString(n)
		sb.WriteByte('\n')
	}

	if err := atomicfile.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}
