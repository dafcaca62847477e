package thesaurus

import (
	"iter"

	"nephila/thesaurus/internal/logging"
	"nephila/thesaurus/internal/models"
	"nephila/thesaurus/internal/textutils"
)

// Options tune a Parser.
type Options struct {
	// Layout forces a strategy; LayoutAuto (or empty) probes.
	Layout Layout
	// ProbePages is the number of leading pages inspected in auto mode.
	ProbePages int
}

// Stats summarizes what a run skipped.
type Stats struct {
	Pages          int
	Lines          int
	DiscardedLines int
	DroppedPairs   int
	TablesSeen     int
	TablesSkipped  int
	RowsSkipped    int
}

// Result is the output of one parse.
type Result struct {
	Layout       Layout
	Interactions []models.InteractionRecord
	Classes      []models.ClassMembershipRecord
	Stats        Stats
}

// Parser extracts both record kinds from a page sequence in one forward
// pass.
type Parser struct {
	rules  *Rules
	opts   Options
	logger logging.Logger
}

// NewParser builds a Parser. A nil logger falls back to the package default.
func NewParser(rules *Rules, opts Options, logger logging.Logger) *Parser {
	if rules == nil {
		rules = NewRules()
	}
	if opts.Layout == "" {
		opts.Layout = LayoutAuto
	}
	if opts.ProbePages <= 0 {
		opts.ProbePages = DefaultProbePages
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Parser{rules: rules, opts: opts, logger: logger}
}

// Parse consumes pages in order. In auto mode the first ProbePages pages are
// buffered to pick the layout and then replayed, so the sequence is still
// read exactly once.
func (p *Parser) Parse(pages iter.Seq[models.Page]) Result {
	next, stop := iter.Pull(pages)
	defer stop()

	layout := p.opts.Layout
	var buffered []models.Page
	if layout == LayoutAuto {
		for len(buffered) < p.opts.ProbePages {
			pg, ok := next()
			if !ok {
				break
			}
			buffered = append(buffered, pg)
		}
		layout = p.rules.DetectLayout(buffered)
		p.logger.WithFields(
			logging.Field{Key: logging.FieldLayout, Value: string(layout)},
			logging.Field{Key: logging.FieldCount, Value: len(buffered)},
		).Debug("Detected thesaurus layout")
	}

	run := newRun(p.rules, layout)
	for _, pg := range buffered {
		run.page(pg)
	}
	for {
		pg, ok := next()
		if !ok {
			break
		}
		run.page(pg)
	}
	res := run.finish()

	p.logger.WithFields(
		logging.Field{Key: logging.FieldLayout, Value: string(res.Layout)},
		logging.Field{Key: "pages", Value: res.Stats.Pages},
		logging.Field{Key: "interactions", Value: len(res.Interactions)},
		logging.Field{Key: "class_memberships", Value: len(res.Classes)},
		logging.Field{Key: "discarded_lines", Value: res.Stats.DiscardedLines},
		logging.Field{Key: "dropped_pairs", Value: res.Stats.DroppedPairs},
		logging.Field{Key: "tables_skipped", Value: res.Stats.TablesSkipped},
		logging.Field{Key: "rows_skipped", Value: res.Stats.RowsSkipped},
	).Info("Thesaurus parsed")
	return res
}

// ParsePages is Parse over a slice.
func (p *Parser) ParsePages(pages []models.Page) Result {
	return p.Parse(func(yield func(models.Page) bool) {
		for _, pg := range pages {
			if !yield(pg) {
				return
			}
		}
	})
}

// run holds the per-parse mutable state.
type run struct {
	rules   *Rules
	layout  Layout
	state   State
	classes *ClassExtractor
	cursor  string
	res     Result
}

func newRun(r *Rules, layout Layout) *run {
	return &run{
		rules:   r,
		layout:  layout,
		state:   NewState(),
		classes: NewClassExtractor(r),
		cursor:  UnknownSubstance,
		res:     Result{Layout: layout},
	}
}

func (r *run) page(pg models.Page) {
	r.res.Stats.Pages++
	lines := textutils.Lines(pg.Text)
	r.res.Stats.Lines += len(lines)

	for _, l := range lines {
		r.classes.Feed(l)
	}

	if r.layout == LayoutTable {
		r.tables(pg, lines)
		return
	}
	for _, l := range lines {
		var rec *models.InteractionRecord
		r.state, rec = Advance(r.rules, r.state, l)
		if rec != nil {
			r.res.Interactions = append(r.res.Interactions, *rec)
		}
	}
}

func (r *run) tables(pg models.Page, lines []string) {
	if h, ok := r.rules.pageHeader(lines); ok {
		r.cursor = h
	}
	for _, t := range pg.Tables {
		r.res.Stats.TablesSeen++
		tr := r.rules.ExtractTable(t, r.cursor)
		if !tr.Accepted {
			r.res.Stats.TablesSkipped++
			continue
		}
		r.res.Stats.RowsSkipped += tr.SkippedRows
		r.res.Interactions = append(r.res.Interactions, tr.Records...)
	}
}

func (r *run) finish() Result {
	if r.layout != LayoutTable {
		var rec *models.InteractionRecord
		r.state, rec = Finish(r.rules, r.state)
		if rec != nil {
			r.res.Interactions = append(r.res.Interactions, *rec)
		}
		r.res.Stats.DiscardedLines = r.state.Discarded
		r.res.Stats.DroppedPairs = r.state.Dropped
	}
	r.classes.Finish()
	r.res.Classes = r.classes.Records()
	return r.res
}
