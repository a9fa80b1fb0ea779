// Package diff reports line-level differences between original and cleaned
// text. Observability only; nothing downstream consumes the report.
package diff

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Op marks a reported line as removed from the original or added by
// cleaning.
type Op byte

const (
	// Delete marks a line present only in the original.
	Delete Op = '-'
	// Insert marks a line present only in the cleaned text.
	Insert Op = '+'
)

// Entry is one reported difference. N is a running counter over emitted
// entries, not a source line number.
type Entry struct {
	N    int
	Op   Op
	Line string
}

// Lines aligns original and cleaned line-by-line with a longest common
// subsequence and returns only the insertions and deletions. Since the
// cleaner collapses everything to a single line, the cleaned side usually
// has exactly one; if splitting yields no lines at all, the whole cleaned
// text is treated as one line.
func Lines(original, cleaned string) []Entry {
	a := splitLines(original)

	b := splitLines(cleaned)
	if len(b) == 0 {
		b = []string{cleaned}
	}

	entries := editScript(a, b)
	for i := range entries {
		entries[i].N = i + 1
	}

	return entries
}

// splitLines splits on newlines without producing a phantom empty line for
// empty input or a trailing newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}

	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// editScript backtracks a classic LCS table, emitting deletions before
// insertions at each divergence.
func editScript(a, b []string) []Entry {
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}

	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	var entries []Entry

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			entries = append(entries, Entry{Op: Delete, Line: a[i]})
			i++
		default:
			entries = append(entries, Entry{Op: Insert, Line: b[j]})
			j++
		}
	}

	for ; i < len(a); i++ {
		entries = append(entries, Entry{Op: Delete, Line: a[i]})
	}

	for ; j < len(b); j++ {
		entries = append(entries, Entry{Op: Insert, Line: b[j]})
	}

	return entries
}

// Report writes the entries to w. Lines wider than maxWidth display
// columns are truncated; maxWidth 0 disables truncation. Persian text is
// measured in display columns, not bytes.
func Report(w io.Writer, entries []Entry, maxWidth int) {
	fmt.Fprintln(w, "Differences between original and cleaned text:")

	for _, e := range entries {
		line := e.Line
		if maxWidth > 0 && runewidth.StringWidth(line) > maxWidth {
			line = runewidth.Truncate(line, maxWidth, "…")
		}

		fmt.Fprintf(w, "Line %d: %c %s\n", e.N, e.Op, line)
	}
}
