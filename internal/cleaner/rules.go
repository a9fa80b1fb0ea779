package cleaner

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Rules is the character policy applied after tokenization. The policy is
// a plain data table so it can be audited and tested apart from the
// pipeline: Strip lists runes removed unconditionally wherever they occur;
// everything else survives only if it matches a KeepClasses category or is
// listed in KeepRunes.
type Rules struct {
	Strip       []rune
	KeepClasses []*unicode.RangeTable
	KeepRunes   []rune
}

// DefaultRules returns the Persian cleaning policy.
//
// Strip: tatweel, ASCII hyphen, underscore. Removal is context-free; a
// hyphen inside a word is deleted outright, which can merge adjacent
// letter runs.
//
// Keep: letters of any script, decimal digits, whitespace, period, Persian
// comma, colon. Underscore is listed as kept even though the strip pass
// already removed every occurrence; the two passes are jointly exhaustive
// for it. The word-character class is pinned to Unicode categories L and
// Nd rather than whatever the runtime locale considers a word.
func DefaultRules() Rules {
	return Rules{
		Strip: []rune{tatweel, '-', '_'},
		KeepClasses: []*unicode.RangeTable{
			unicode.L,
			unicode.Nd,
			unicode.White_Space,
		},
		KeepRunes: []rune{'_', '.', persianComma, ':'},
	}
}

const (
	tatweel      = 'ـ' // Arabic elongation character, semantically empty
	persianComma = '،'
)

// stripped reports whether r is removed unconditionally.
func (ru Rules) stripped(r rune) bool {
	for _, s := range ru.Strip {
		if r == s {
			return true
		}
	}

	return false
}

// kept reports whether r survives the punctuation filter.
func (ru Rules) kept(r rune) bool {
	for _, k := range ru.KeepRunes {
		if r == k {
			return true
		}
	}

	for _, rt := range ru.KeepClasses {
		if unicode.Is(rt, r) {
			return true
		}
	}

	return false
}

// apply runs both filter passes over s. Total: any input yields a result,
// never an error.
func (ru Rules) apply(s string) string {
	// transform.Chain buffers internally, so the chain is rebuilt per call
	// to stay safe for concurrent cleaners sharing one Rules value.
	chain := transform.Chain(
		runes.Remove(runes.Predicate(ru.stripped)),
		runes.Remove(runes.Predicate(func(r rune) bool { return !ru.kept(r) })),
	)

	out, _, err := transform.String(chain, s)
	if err != nil {
		// Remove transformers do not fail; invalid UTF-8 is replaced before
		// filtering. Kept as a guard so the transform result is never lost.
		return out
	}

	return out
}
