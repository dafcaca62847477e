// Package thesaurus turns the text and tables of the ANSM interaction
// thesaurus into interaction and class-membership records.
//
// Everything in this package is pure: callers hand in pages, the package
// hands back records. PDF access, persistence and output formatting live
// elsewhere.
package thesaurus

import (
	"regexp"

	"nephila/thesaurus/internal/models"
)

// UnknownSubstance is the substance_a cursor value before any header has
// been seen.
const UnknownSubstance = "UNKNOWN"

// maxContinuationLines bounds how many physical lines a wrapped member list
// may span before it is abandoned.
const maxContinuationLines = 4

// levelRule holds the patterns for one constraint level. Full forms are
// matched case-insensitively, abbreviations only as upper-case whole words.
type levelRule struct {
	level    models.ConstraintLevel
	patterns []*regexp.Regexp
}

// Rules is the compiled rule set shared by every extractor in this package.
// Build it once with NewRules and pass it by pointer; it is safe for
// concurrent use.
type Rules struct {
	levels []levelRule

	headerChars *regexp.Regexp
	numeric     *regexp.Regexp

	memberList    *regexp.Regexp
	inlineMembers *regexp.Regexp
	voirAussi     *regexp.Regexp
	voirSplit     *regexp.Regexp

	substanceKeywords  []string
	constraintKeywords []string
	riskKeywords       []string
	conductKeywords    []string
	levelPrefixes      []levelPrefix
}

type levelPrefix struct {
	prefix string
	level  models.ConstraintLevel
}

// balanced matches text with at most one level of nested parentheses.
const balanced = `(?:[^()]|\([^()]*\))*`

// NewRules compiles the rule set.
func NewRules() *Rules {
	return &Rules{
		// order is severity order: the first rule that matches wins
		levels: []levelRule{
			{
				level: models.ContreIndication,
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`(?i)contre[\s-]*indications?`),
					regexp.MustCompile(`\bCI\b`),
				},
			},
			{
				level: models.AssociationDeconseillee,
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`(?i)associations?\s+d[ée]conseill[ée]es?`),
					regexp.MustCompile(`\bASDEC\b`),
				},
			},
			{
				level: models.PrecautionEmploi,
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`(?i)pr[ée]cautions?\s+d['’]\s*emploi`),
					regexp.MustCompile(`\bPE\b`),
				},
			},
			{
				level: models.APrendreEnCompte,
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`(?i)(?:^|[^\p{L}])[àa]\s+prendre\s+en\s+compte`),
					regexp.MustCompile(`\bAPEC\b`),
				},
			},
		},

		headerChars: regexp.MustCompile(`^[A-ZÀ-ÖØ-ÞŒŸ0-9 ,'’\-/().]{3,80}$`),
		numeric:     regexp.MustCompile(`^[0-9\s./-]+$`),

		memberList:    regexp.MustCompile(`^\((` + balanced + `,` + balanced + `)\)$`),
		inlineMembers: regexp.MustCompile(`^([^()]+?)\s*(\(` + balanced + `,` + balanced + `\))$`),
		voirAussi:     regexp.MustCompile(`(?i)^voir\s+aussi\s*:\s*(.+)$`),
		voirSplit:     regexp.MustCompile(`\s+[-–—]\s+`),

		substanceKeywords:  []string{"substances", "médicaments", "medicaments", "classes"},
		constraintKeywords: []string{"niveau", "contrainte"},
		riskKeywords:       []string{"risque", "nature", "mécanisme", "mecanisme"},
		conductKeywords:    []string{"conduite", "tenir"},
		levelPrefixes: []levelPrefix{
			{"contre-indication", models.ContreIndication},
			{"association déconseillée", models.AssociationDeconseillee},
			{"précaution d'emploi", models.PrecautionEmploi},
			{"précaution d’emploi", models.PrecautionEmploi},
			{"à prendre en compte", models.APrendreEnCompte},
			{"a prendre en compte", models.APrendreEnCompte},
		},
	}
}
