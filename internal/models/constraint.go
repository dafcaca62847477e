package models

import "strings"

// ConstraintLevel is the severity of an interaction (niveau de contrainte).
// The string values are the canonical labels shared with every downstream consumer,
// byte for byte.
type ConstraintLevel string

const (
	ContreIndication        ConstraintLevel = "Contre-indication"
	AssociationDeconseillee ConstraintLevel = "Association déconseillée"
	PrecautionEmploi        ConstraintLevel = "Précaution d'emploi"
	APrendreEnCompte        ConstraintLevel = "A prendre en compte"
)

// ConstraintLevels lists the canonical levels from most to least severe.
var ConstraintLevels = []ConstraintLevel{
	ContreIndication,
	AssociationDeconseillee,
	PrecautionEmploi,
	APrendreEnCompte,
}

// criticalLevels are compared lowercased; case varies across sources.
var criticalLevels = map[string]bool{
	"contre-indication":        true,
	"association déconseillée": true,
}

// Rank returns 1 for the most severe level up to 4, or 0 for an unknown level.
func (l ConstraintLevel) Rank() int {
	for i, lvl := range ConstraintLevels {
		if lvl == l {
			return i + 1
		}
	}
	return 0
}

// Valid reports whether l is one of the four canonical labels.
func (l ConstraintLevel) Valid() bool {
	return l.Rank() > 0
}

func (l ConstraintLevel) String() string {
	return string(l)
}

// ParseConstraintLevel maps a label in any letter case to its canonical form.
// "à prendre en compte" is accepted as a spelling of APrendreEnCompte.
func ParseConstraintLevel(s string) (ConstraintLevel, bool) {
	lower := strings.ToLower(strings.TrimSpace(s))
	if lower == "à prendre en compte" {
		return APrendreEnCompte, true
	}
	for _, lvl := range ConstraintLevels {
		if strings.ToLower(string(lvl)) == lower {
			return lvl, true
		}
	}
	return "", false
}

// IsCritical reports whether a level label, in any case, is a contraindication
// or a discouraged association.
func IsCritical(level string) bool {
	return criticalLevels[strings.ToLower(strings.TrimSpace(level))]
}
