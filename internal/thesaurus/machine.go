package thesaurus

import (
	"strings"

	"nephila/thesaurus/internal/models"
)

// State is the interaction state machine's position in the text. It is a
// plain value: Advance returns the next State instead of mutating its input.
type State struct {
	SubstanceA string
	SubstanceB string
	PairOpen   bool
	Body       []string

	// Discarded counts lines seen outside any pair that were not headers.
	Discarded int
	// Dropped counts pairs flushed without a detectable constraint level
	// or with an empty substance_b.
	Dropped int
}

// NewState returns the initial state.
func NewState() State {
	return State{SubstanceA: UnknownSubstance}
}

// Advance feeds one line to the machine. It returns the next state and the
// record completed by this line, if any. Lines are expected to be trimmed
// and non-empty (see textutils.Lines).
func Advance(r *Rules, st State, line string) (State, *models.InteractionRecord) {
	line = strings.TrimSpace(line)
	if line == "" {
		return st, nil
	}

	if strings.HasPrefix(line, "+") {
		st, rec := flush(r, st)
		st.SubstanceB = strings.TrimSpace(strings.TrimPrefix(line, "+"))
		st.PairOpen = true
		return st, rec
	}

	// a level printed alone on its line belongs to the open pair even when
	// it is upper case
	if st.PairOpen && r.isLevelOnly(line) {
		st.Body = appendLine(st.Body, line)
		return st, nil
	}

	if r.IsSubstanceA(line) {
		st, rec := flush(r, st)
		st.SubstanceA = line
		return st, rec
	}

	if st.PairOpen {
		st.Body = appendLine(st.Body, line)
		return st, nil
	}

	st.Discarded++
	return st, nil
}

// Finish flushes the open pair at end of input.
func Finish(r *Rules, st State) (State, *models.InteractionRecord) {
	return flush(r, st)
}

func flush(r *Rules, st State) (State, *models.InteractionRecord) {
	if !st.PairOpen {
		return st, nil
	}
	body := strings.Join(st.Body, " ")
	substanceB := st.SubstanceB
	st.SubstanceB = ""
	st.Body = nil
	st.PairOpen = false

	level, rest, ok := r.SplitConstraint(body)
	if !ok || substanceB == "" {
		st.Dropped++
		return st, nil
	}
	return st, &models.InteractionRecord{
		SubstanceA:       st.SubstanceA,
		SubstanceB:       substanceB,
		NiveauContrainte: level,
		NatureRisque:     rest,
	}
}

// appendLine copies on write so a State returned earlier never observes
// later body lines.
func appendLine(body []string, line string) []string {
	out := make([]string, len(body), len(body)+1)
	copy(out, body)
	return append(out, line)
}
