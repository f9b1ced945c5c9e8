// Package answer checks a learner's free-text answer against the expected translation.
package answer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Arabic code points that Persian keyboards render differently
var persianReplacer = strings.NewReplacer(
	"\u064a", "\u06cc", // Arabic yeh -> Farsi yeh
	"\u0649", "\u06cc", // alef maksura -> Farsi yeh
	"\u0643", "\u06a9", // Arabic kaf -> keheh
	"\u0629", "\u0647", // teh marbuta -> heh
	"\u0623", "\u0627", // alef with hamza above -> alef
	"\u0625", "\u0627", // alef with hamza below -> alef
	"\u0622", "\u0627", // alef with madda -> alef
	"\u200c", " ",      // zero width non-joiner
	"\u0640", "",       // tatweel
)

// alternativeSeparators split an expected translation into accepted variants
const alternativeSeparators = "/,;"

// Normalize folds s into a canonical form for comparison
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = persianReplacer.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Mn, r):
			// harakat and other combining marks
			continue
		case unicode.IsPunct(r):
			continue
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Alternatives returns the normalized accepted answers in expected
func Alternatives(expected string) []string {
	parts := strings.FieldsFunc(expected, func(r rune) bool {
		return strings.ContainsRune(alternativeSeparators, r)
	})

	var out []string
	for _, p := range parts {
		if n := Normalize(p); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Match reports whether given matches any accepted form of expected
func Match(expected, given string) bool {
	g := Normalize(given)
	if g == "" {
		return false
	}
	if g == Normalize(expected) {
		return true
	}
	for _, alt := range Alternatives(expected) {
		if g == alt {
			return true
		}
	}
	return false
}
