package cleaner

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Cleaned-text contract violations.
var (
	ErrUntrimmed     = errors.New("cleaned text has leading or trailing whitespace")
	ErrBadWhitespace = errors.New("cleaned text contains whitespace other than a single space")
	ErrBannedRune    = errors.New("cleaned text contains a banned character")
)

// Verify checks s against the cleaned-text contract: no stripped runes, no
// characters outside the keep policy, no whitespace other than single
// spaces, no leading or trailing whitespace. Cleaned output always passes;
// Verify exists so tests and the strict_verify feature flag can prove it.
func (ru Rules) Verify(s string) error {
	if s != strings.TrimSpace(s) {
		return ErrUntrimmed
	}

	prevSpace := false

	for _, r := range s {
		if r == ' ' {
			if prevSpace {
				return fmt.Errorf("%w: consecutive spaces", ErrBadWhitespace)
			}

			prevSpace = true

			continue
		}

		prevSpace = false

		if unicode.IsSpace(r) {
			return fmt.Errorf("%w: %q", ErrBadWhitespace, r)
		}

		// Strip takes precedence: underscore is in the keep list but must
		// never appear in output.
		if ru.stripped(r) {
			return fmt.Errorf("%w: %q", ErrBannedRune, r)
		}

		if !ru.kept(r) {
			return fmt.Errorf("%w: %q", ErrBannedRune, r)
		}
	}

	return nil
}
