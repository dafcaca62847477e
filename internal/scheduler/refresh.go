package scheduler

import (
	"context"
	"fmt"
	"time"

	"nephila/thesaurus/internal/logging"
	"nephila/thesaurus/internal/metrics"
	"nephila/thesaurus/internal/models"
	"nephila/thesaurus/internal/thesaurus"
)

// Fetcher downloads the thesaurus PDF found on a page to dest.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL, dest string) (string, error)
}

// Parser extracts both record streams from a PDF file.
type Parser interface {
	Parse(ctx context.Context, path string) (thesaurus.Result, error)
}

// Loader replaces the raw tables.
type Loader interface {
	LoadInteractions(ctx context.Context, records []models.InteractionRecord) (int, error)
	LoadClasses(ctx context.Context, records []models.ClassMembershipRecord) (int, error)
}

// Summary describes one completed refresh.
type Summary struct {
	PDFURL           string
	Interactions     int
	ClassMemberships int
	Duration         time.Duration
}

// Pipeline chains fetch, parse and load.
type Pipeline struct {
	fetcher Fetcher
	parser  Parser
	loader  Loader
	metrics *metrics.Metrics
	logger  logging.Logger

	PageURL         string
	Dest            string
	MetricsTextfile string
}

// NewPipeline wires a pipeline. fetcher may be nil when only Load is used;
// m may be nil to disable metrics.
func NewPipeline(fetcher Fetcher, parser Parser, loader Loader, m *metrics.Metrics, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Pipeline{fetcher: fetcher, parser: parser, loader: loader, metrics: m, logger: logger}
}

// Refresh downloads the current thesaurus to Dest and reloads the raw layer
// from it.
func (p *Pipeline) Refresh(ctx context.Context) (sum Summary, err error) {
	start := time.Now()
	defer func() { p.observe("refresh", start, err) }()

	if p.fetcher == nil {
		return Summary{}, fmt.Errorf("no fetcher configured")
	}
	pdfURL, err := p.fetcher.Fetch(ctx, p.PageURL, p.Dest)
	if err != nil {
		return Summary{}, fmt.Errorf("fetching thesaurus: %w", err)
	}

	sum, err = p.load(ctx, p.Dest)
	if err != nil {
		return Summary{}, err
	}
	sum.PDFURL = pdfURL
	sum.Duration = time.Since(start)
	return sum, nil
}

// Load parses the PDF at path and replaces the raw tables with its records.
func (p *Pipeline) Load(ctx context.Context, path string) (sum Summary, err error) {
	start := time.Now()
	defer func() { p.observe("load", start, err) }()

	sum, err = p.load(ctx, path)
	if err != nil {
		return Summary{}, err
	}
	sum.Duration = time.Since(start)
	return sum, nil
}

func (p *Pipeline) load(ctx context.Context, path string) (Summary, error) {
	res, err := p.parser.Parse(ctx, path)
	if err != nil {
		return Summary{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if p.metrics != nil {
		p.metrics.ObserveParse(res)
	}

	interactions, err := p.loader.LoadInteractions(ctx, res.Interactions)
	if err != nil {
		return Summary{}, fmt.Errorf("loading interactions: %w", err)
	}
	classes, err := p.loader.LoadClasses(ctx, res.Classes)
	if err != nil {
		return Summary{}, fmt.Errorf("loading class memberships: %w", err)
	}

	return Summary{Interactions: interactions, ClassMemberships: classes}, nil
}

func (p *Pipeline) observe(operation string, start time.Time, err error) {
	if p.metrics == nil {
		return
	}
	p.metrics.ObserveRun(operation, start, err)
	if werr := p.metrics.WriteTextfile(p.MetricsTextfile); werr != nil {
		p.logger.WithError(werr).Warn("Failed to write metrics textfile")
	}
}
