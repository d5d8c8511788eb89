package engine

import (
	"unicode"
)

// ScriptPredicate reports whether a string contains any character from the
// deployment's target-locale script. The instance scorer uses the absence of
// the local script in a server's self-description as a proxy for "not a known
// community server"; deployments targeting other locales inject their own
// predicate.
type ScriptPredicate func(s string) bool

var japaneseScripts = []*unicode.RangeTable{
	unicode.Hiragana,
	unicode.Katakana,
	unicode.Han,
}

// ContainsJapaneseScript is the default predicate: true if the string
// contains any hiragana, katakana, or kanji.
func ContainsJapaneseScript(s string) bool {
	for _, r := range s {
		// the prolonged sound mark is script "Common" but only appears in
		// Japanese text
		if r == 'ー' {
			return true
		}
		if unicode.In(r, japaneseScripts...) {
			return true
		}
	}
	return false
}
