// Package textutils holds the text normalisation helpers shared by the parser and the resolver.
package textutils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var ligatures = strings.NewReplacer(
	"œ", "oe", "Œ", "OE",
	"æ", "ae", "Æ", "AE",
	"’", "'", "ʼ", "'",
)

// NFC recomposes accents that PDF extraction frequently emits as base letter + combining mark.
func NFC(s string) string {
	return norm.NFC.String(s)
}

// StripAccents removes combining marks after canonical decomposition.
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize lowercases, strips accents, expands ligatures and collapses whitespace.
// "Érythromycine" and "ERYTHROMYCINE" both become "erythromycine".
func Normalize(s string) string {
	s = ligatures.Replace(s)
	s = StripAccents(s)
	return CollapseSpaces(strings.ToLower(s))
}

// CollapseSpaces trims s and folds every run of Unicode whitespace into one ASCII space.
func CollapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !prevSpace && b.Len() > 0 {
				b.WriteRune(' ')
			}
			prevSpace = true
			continue
		}
		b.WriteRune(r)
		prevSpace = false
	}
	return strings.TrimRight(b.String(), " ")
}

// Lines splits page text into NFC-normalised, trimmed, non-empty lines.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = CollapseSpaces(NFC(l))
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
