// Package cleaner normalizes tokenized Persian text into its cleaned form.
//
// The transform is deliberately lossy: all original line structure
// collapses into a single line, and stripped characters can merge adjacent
// letter runs.
package cleaner

import (
	"context"
	"strings"

	"virast/internal/tokenizer"
)

// Cleaner applies the character rules to tokenized text. Safe for
// concurrent use once its tokenizer is loaded.
type Cleaner struct {
	rules Rules
	tok   tokenizer.Tokenizer
}

// New creates a cleaner backed by the given tokenizer and the default
// Persian rules.
func New(tok tokenizer.Tokenizer) *Cleaner {
	return NewWithRules(tok, DefaultRules())
}

// NewWithRules creates a cleaner with a custom character policy.
func NewWithRules(tok tokenizer.Tokenizer, rules Rules) *Cleaner {
	return &Cleaner{rules: rules, tok: tok}
}

// Normalize reassembles tokens with single spaces, applies the character
// rules, and collapses whitespace. Total over any token sequence; an empty
// sequence yields the empty string.
func (c *Cleaner) Normalize(tokens []string) string {
	joined := strings.Join(tokens, " ")
	filtered := c.rules.apply(joined)

	// Collapse whitespace runs to one space and trim the ends.
	return strings.Join(strings.Fields(filtered), " ")
}

// Clean tokenizes text and normalizes the token sequence. Only the
// tokenizer can fail; normalization itself never does.
func (c *Cleaner) Clean(ctx context.Context, text string) (string, error) {
	tokens, err := c.tok.Tokenize(ctx, text)
	if err != nil {
		return "", err
	}

	return c.Normalize(tokens), nil
}

// Verify checks s against the cleaned-text contract.
func (c *Cleaner) Verify(s string) error {
	return c.rules.Verify(s)
}
