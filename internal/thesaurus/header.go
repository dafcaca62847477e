package thesaurus

import (
	"strings"
	"unicode"
)

// IsSubstanceA reports whether line looks like a substance or class header:
// a short upper-case line that is neither a "+" pair line, a "Voir" cross
// reference, nor a bare page number.
func (r *Rules) IsSubstanceA(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "+") {
		return false
	}
	if strings.HasPrefix(line, "Voir") || strings.HasPrefix(line, "voir") {
		return false
	}
	if r.numeric.MatchString(line) {
		return false
	}
	upper := 0
	for _, c := range line {
		if unicode.IsUpper(c) {
			upper++
		}
	}
	if upper < 2 {
		return false
	}
	return r.headerChars.MatchString(line)
}
