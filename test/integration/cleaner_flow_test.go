package integration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"virast/internal/batch"
	"virast/internal/cleaner"
	"virast/internal/config"
	"virast/internal/logger"
	"virast/internal/tokenizer"
)

// TestCleanerFlow drives the whole pipeline the way cmd/cleaner does:
// config from YAML, tokenizer selection, batch run, manifest.
func TestCleanerFlow(t *testing.T) {
	root := t.TempDir()
	inputDir := filepath.Join(root, "uneditbooktext")
	outputDir := filepath.Join(root, "editedbooktext")
	manifest := filepath.Join(root, "editedbook_list.txt")

	if err := os.MkdirAll(inputDir, 0755); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	fixture := "آمـــوزش زبان فارسی!\nخط دوم - تمرین_ها؟\n"
	if err := os.WriteFile(filepath.Join(inputDir, "book.txt"), []byte(fixture), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	configYAML := `
cleaner:
  input:
    dir: "` + inputDir + `"
  output:
    dir: "` + outputDir + `"
  manifest: "` + manifest + `"
  tokenizer:
    mode: "unicode"
    fallback: "whitespace"
  logging:
    level: "error"
  workers: 2
features:
  strict_verify: true
`

	configPath := filepath.Join(root, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configYAML), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("config load failed: %v", err)
	}

	tok, degraded, err := tokenizer.Select(cfg.Cleaner.Tokenizer.Mode, cfg.Cleaner.Tokenizer.Fallback)
	if err != nil {
		t.Fatalf("tokenizer selection failed: %v", err)
	}

	if degraded {
		t.Fatal("unicode tokenizer unexpectedly degraded to fallback")
	}

	coordinator := batch.New(cfg, cleaner.New(tok), logger.NewNop())

	var console bytes.Buffer
	coordinator.Out = &console

	report, err := coordinator.Run(context.Background())
	if err != nil {
		t.Fatalf("batch run failed: %v", err)
	}

	if report.Processed != 1 || report.Skipped != 0 {
		t.Fatalf("report = %+v, want exactly one processed file", report)
	}

	if report.RunID == "" {
		t.Error("report has no run ID")
	}

	// Cleaned output: single line, punctuation filtered, tatweel and
	// hyphen and underscore gone.
	got, err := os.ReadFile(filepath.Join(outputDir, "edited_book.txt"))
	if err != nil {
		t.Fatalf("cleaned output missing: %v", err)
	}

	want := "آموزش زبان فارسی خط دوم تمرینها"
	if string(got) != want {
		t.Errorf("cleaned output = %q, want %q", got, want)
	}

	// Source removed after the durable write.
	if _, err := os.Stat(filepath.Join(inputDir, "book.txt")); !os.IsNotExist(err) {
		t.Error("source file was not deleted")
	}

	manifestData, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatalf("manifest missing: %v", err)
	}

	if string(manifestData) != "book.txt\n" {
		t.Errorf("manifest = %q, want book.txt", manifestData)
	}

	// The diff report lands on the console stream.
	out := console.String()
	if !strings.Contains(out, "Differences between original and cleaned text:") {
		t.Errorf("console output missing diff report: %q", out)
	}

	if !strings.Contains(out, `File "book.txt" processed`) {
		t.Errorf("console output missing confirmation: %q", out)
	}
}

// TestCleanerFlow_SecondRunOverwritesManifest runs two batches and checks
// the manifest reflects only the latest run.
func TestCleanerFlow_SecondRunOverwritesManifest(t *testing.T) {
	root := t.TempDir()

	cfg := config.Default()
	cfg.Cleaner.Input.Dir = filepath.Join(root, "in")
	cfg.Cleaner.Output.Dir = filepath.Join(root, "out")
	cfg.Cleaner.Manifest = filepath.Join(root, "manifest.txt")

	if err := os.MkdirAll(cfg.Cleaner.Input.Dir, 0755); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	tok, _, err := tokenizer.Select("unicode", "")
	if err != nil {
		t.Fatalf("tokenizer selection failed: %v", err)
	}

	coordinator := batch.New(cfg, cleaner.New(tok), logger.NewNop())
	coordinator.Out = &bytes.Buffer{}

	write := func(name string) {
		t.Helper()

		if err := os.WriteFile(filepath.Join(cfg.Cleaner.Input.Dir, name), []byte("متن"), 0644); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
	}

	write("first.txt")

	if _, err := coordinator.Run(context.Background()); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	write("second.txt")

	if _, err := coordinator.Run(context.Background()); err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	manifestData, err := os.ReadFile(cfg.Cleaner.Manifest)
	if err != nil {
		t.Fatalf("manifest missing: %v", err)
	}

	// Overwritten per run, not appended across runs.
	if string(manifestData) != "second.txt\n" {
		t.Errorf("manifest = %q, want only the second run's file", manifestData)
	}
}
