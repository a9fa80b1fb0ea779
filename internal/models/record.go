// Package models defines the data types shared across the cleaning pipeline.
package models

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Document is an immutable input read from a source file.
type Document struct {
	// Path is the absolute or relative location the text was read from.
	Path string
	// Name is the base filename, used for manifest entries and output naming.
	Name string
	// Text is the raw UTF-8 content.
	Text string
}

// Outcome classifies the result of processing a single source file.
type Outcome string

const (
	// OutcomeProcessed means the cleaned output was written and the source removed.
	OutcomeProcessed Outcome = "processed"
	// OutcomeSkipped means no output was produced for this source.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeDeleteFailed means the output was written but the source could
	// not be removed. Output correctness is unaffected.
	OutcomeDeleteFailed Outcome = "delete_failed"
)

// ProcessingRecord pairs a source file with its processing outcome.
type ProcessingRecord struct {
	Source   string
	Output   string
	Checksum string
	Outcome  Outcome
	Err      error
	Duration time.Duration
}

// Succeeded reports whether a cleaned output exists for this source.
// A failed delete still counts as success for manifest purposes.
func (r ProcessingRecord) Succeeded() bool {
	return r.Outcome == OutcomeProcessed || r.Outcome == OutcomeDeleteFailed
}

// RunReport summarizes one batch run.
type RunReport struct {
	RunID          string
	Started        time.Time
	Processed      int
	Skipped        int
	DeleteFailures int
	Duration       time.Duration
}

// NewRunID returns a lexicographically sortable identifier for a batch run.
func NewRunID() string {
	return ulid.Make().String()
}
