package thesaurus

import (
	"strings"

	"nephila/thesaurus/internal/models"
	"nephila/thesaurus/internal/textutils"
)

// columns maps interaction fields to table column indexes; -1 means the
// column was not identified.
type columns struct {
	substanceB int
	constraint int
	risk       int
	conduct    int
}

// mapColumns inspects a header row. The table is usable only when both the
// substance_b and constraint columns are found.
func (r *Rules) mapColumns(header []string) (columns, bool) {
	cols := columns{substanceB: -1, constraint: -1, risk: -1, conduct: -1}
	for i, cell := range header {
		lower := strings.ToLower(textutils.CollapseSpaces(cell))
		if lower == "" {
			continue
		}
		switch {
		case containsAny(lower, r.substanceKeywords):
			cols.substanceB = i
		case containsAny(lower, r.constraintKeywords):
			cols.constraint = i
		case containsAny(lower, r.riskKeywords):
			cols.risk = i
		case containsAny(lower, r.conductKeywords):
			cols.conduct = i
		}
	}
	return cols, cols.substanceB >= 0 && cols.constraint >= 0
}

// TableResult is what one table contributed.
type TableResult struct {
	Records []models.InteractionRecord
	// Accepted is false when the header row did not identify the required
	// columns; the table is then skipped as a whole.
	Accepted    bool
	SkippedRows int
}

// ExtractTable turns one ruled table into interaction records attributed to
// substanceA. The first row is the header.
func (r *Rules) ExtractTable(table models.Table, substanceA string) TableResult {
	if len(table) < 2 {
		return TableResult{}
	}
	cols, ok := r.mapColumns(table[0])
	if !ok {
		return TableResult{}
	}

	res := TableResult{Accepted: true}
	for _, row := range table[1:] {
		substanceB := strings.TrimSpace(strings.TrimPrefix(cell(row, cols.substanceB), "+"))
		niveau := cell(row, cols.constraint)
		if substanceB == "" || niveau == "" {
			res.SkippedRows++
			continue
		}
		level, ok := r.canonicalLevel(niveau)
		if !ok {
			res.SkippedRows++
			continue
		}
		res.Records = append(res.Records, models.InteractionRecord{
			SubstanceA:       substanceA,
			SubstanceB:       substanceB,
			NiveauContrainte: level,
			NatureRisque:     cell(row, cols.risk),
			ConduiteATenir:   cell(row, cols.conduct),
		})
	}
	return res
}

// pageHeader returns the first substance header among lines, if any.
func (r *Rules) pageHeader(lines []string) (string, bool) {
	for _, l := range lines {
		if r.IsSubstanceA(l) {
			return l, true
		}
	}
	return "", false
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return textutils.CollapseSpaces(textutils.NFC(row[i]))
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
