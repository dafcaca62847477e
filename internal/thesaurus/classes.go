package thesaurus

import (
	"strings"

	"nephila/thesaurus/internal/models"
	"nephila/thesaurus/internal/textutils"
)

// ClassExtractor runs the parenthetical and "Voir aussi" passes over the
// line stream. Feed it every line in document order, then call Finish.
type ClassExtractor struct {
	rules *Rules

	header      string
	afterHeader bool
	pending     []string

	records []models.ClassMembershipRecord
}

// NewClassExtractor returns an extractor with no current header.
func NewClassExtractor(r *Rules) *ClassExtractor {
	return &ClassExtractor{rules: r}
}

// Feed consumes one trimmed line.
func (c *ClassExtractor) Feed(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	if c.pending != nil {
		if c.stopsMemberList(line) {
			// the open parenthesis was never closed; drop it and read line
			// as fresh input
			c.pending = nil
			c.afterHeader = false
		} else {
			c.pending = append(c.pending, line)
			joined := strings.Join(c.pending, " ")
			if depth(joined) <= 0 || len(c.pending) >= maxContinuationLines {
				c.pending = nil
				c.afterHeader = false
				c.members(joined)
			}
			return
		}
	}

	if m := c.rules.voirAussi.FindStringSubmatch(line); m != nil {
		c.crossReferences(m[1])
		return
	}

	if m := c.rules.inlineMembers.FindStringSubmatch(line); m != nil && c.rules.IsSubstanceA(m[1]) {
		c.header = strings.TrimSpace(m[1])
		c.afterHeader = false
		c.members(m[2])
		return
	}

	// a level printed alone belongs to the interaction text, not to a header
	if c.rules.isLevelOnly(line) {
		c.afterHeader = false
		return
	}

	if c.rules.IsSubstanceA(line) {
		c.header = line
		c.afterHeader = true
		return
	}

	if c.afterHeader && strings.HasPrefix(line, "(") {
		if depth(line) > 0 {
			c.pending = []string{line}
			return
		}
		c.afterHeader = false
		c.members(line)
		return
	}

	c.afterHeader = false
}

// stopsMemberList reports whether line cannot continue a wrapped member
// list: a "+" pair line, a cross reference, or a header. Upper-case member
// lines carry a comma or close the list, headers do neither.
func (c *ClassExtractor) stopsMemberList(line string) bool {
	if strings.HasPrefix(line, "+") || c.rules.voirAussi.MatchString(line) {
		return true
	}
	return c.rules.IsSubstanceA(line) && !strings.Contains(line, ",") && depth(line) >= 0
}

// Finish closes a member list still open at end of input.
func (c *ClassExtractor) Finish() {
	if c.pending != nil {
		joined := strings.Join(c.pending, " ")
		c.pending = nil
		c.members(joined)
	}
	c.afterHeader = false
}

// Records returns everything extracted so far.
func (c *ClassExtractor) Records() []models.ClassMembershipRecord {
	return c.records
}

func (c *ClassExtractor) members(text string) {
	if c.header == "" {
		return
	}
	m := c.rules.memberList.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return
	}
	for _, member := range splitTopLevel(m[1]) {
		dci := textutils.Normalize(member)
		if dci == "" {
			continue
		}
		c.records = append(c.records, models.ClassMembershipRecord{
			SubstanceDCI: dci,
			ClasseANSM:   c.header,
			Source:       models.SourceParenthetical,
		})
	}
}

func (c *ClassExtractor) crossReferences(list string) {
	from := ""
	if c.header != "" {
		from = textutils.Normalize(c.header)
	}
	for _, ref := range c.rules.voirSplit.Split(list, -1) {
		ref = strings.TrimRight(strings.TrimSpace(ref), ".;")
		if ref == "" {
			continue
		}
		c.records = append(c.records, models.ClassMembershipRecord{
			SubstanceDCI: from,
			ClasseANSM:   ref,
			Source:       models.SourceVoirAussi,
		})
	}
}

// splitTopLevel splits on commas outside parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	d, start := 0, 0
	for i, ch := range s {
		switch ch {
		case '(':
			d++
		case ')':
			d--
		case ',':
			if d == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}

func depth(s string) int {
	return strings.Count(s, "(") - strings.Count(s, ")")
}
