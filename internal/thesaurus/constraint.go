package thesaurus

import (
	"strings"
	"unicode"

	"nephila/thesaurus/internal/models"
	"nephila/thesaurus/internal/textutils"
)

const bulletCutset = " \t-–—:•·;,.*>"

// DetectConstraint returns the most severe constraint level named in text.
// The second result is false when no level is present.
func (r *Rules) DetectConstraint(text string) (models.ConstraintLevel, bool) {
	i := r.matchLevel(text)
	if i < 0 {
		return "", false
	}
	return r.levels[i].level, true
}

// SplitConstraint detects the level in a pair body and returns it together
// with the body stripped of that level's tokens. The remaining text has
// leading bullet and dash punctuation removed; an empty string means the
// body carried no risk description.
func (r *Rules) SplitConstraint(body string) (models.ConstraintLevel, string, bool) {
	i := r.matchLevel(body)
	if i < 0 {
		return "", "", false
	}
	rest := body
	for _, re := range r.levels[i].patterns {
		rest = re.ReplaceAllString(rest, " ")
	}
	rest = strings.TrimLeft(textutils.CollapseSpaces(rest), bulletCutset)
	return r.levels[i].level, strings.TrimSpace(rest), true
}

// isLevelOnly reports whether line consists of constraint tokens and
// punctuation only, e.g. a lone "CI" or "Précaution d'emploi :".
func (r *Rules) isLevelOnly(line string) bool {
	if r.matchLevel(line) < 0 {
		return false
	}
	rest := line
	for _, lr := range r.levels {
		for _, re := range lr.patterns {
			rest = re.ReplaceAllString(rest, " ")
		}
	}
	return !strings.ContainsFunc(rest, unicode.IsLetter)
}

func (r *Rules) matchLevel(text string) int {
	for i, lr := range r.levels {
		for _, re := range lr.patterns {
			if re.MatchString(text) {
				return i
			}
		}
	}
	return -1
}

// canonicalLevel maps a table cell such as "Précaution d'emploi\nSurveillance
// clinique" to its level by prefix.
func (r *Rules) canonicalLevel(cell string) (models.ConstraintLevel, bool) {
	lower := strings.ToLower(strings.TrimSpace(cell))
	for _, lp := range r.levelPrefixes {
		if strings.HasPrefix(lower, lp.prefix) {
			return lp.level, true
		}
	}
	return "", false
}
