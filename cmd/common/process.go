// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"fmt"
	"time"

	"nephila/thesaurus/internal/common"
	"nephila/thesaurus/internal/container"
	"nephila/thesaurus/internal/logging"
	"nephila/thesaurus/internal/models"
	"nephila/thesaurus/internal/parser"
	"nephila/thesaurus/internal/thesaurus"
	"nephila/thesaurus/internal/validation"
)

// Stream selects which records a conversion writes.
type Stream string

const (
	Interactions Stream = "interactions"
	Classes      Stream = "classes"
)

// Options are the per-run settings of ProcessFile.
type Options struct {
	Input    string
	Output   string
	Format   string
	Validate bool
}

// ProcessFile parses opts.Input with p and writes the selected record stream
// to opts.Output. The whole parse result is returned so callers can report
// statistics.
func ProcessFile(ctx context.Context, p parser.FullParser, stream Stream, opts Options, log logging.Logger) (thesaurus.Result, error) {
	p.SetLogger(log)

	if err := validation.IsValidInputFile(opts.Input); err != nil {
		return thesaurus.Result{}, err
	}
	if opts.Output == "" {
		return thesaurus.Result{}, fmt.Errorf("output file is required")
	}
	if opts.Format == "" {
		opts.Format = common.FormatCSV
	}
	if err := validation.IsValidOutputFormat(opts.Format); err != nil {
		return thesaurus.Result{}, err
	}

	var validate func(string) (bool, error)
	if opts.Validate {
		log.Info("Validating format...")
		validate = p.ValidateFormat
	}

	var res thesaurus.Result
	parse := func(path string) (thesaurus.Result, error) {
		r, err := p.Parse(ctx, path)
		res = r
		return r, err
	}

	var err error
	switch stream {
	case Interactions:
		err = common.Convert(opts.Input, opts.Output, opts.Format,
			func(path string) ([]models.InteractionRecord, error) {
				r, err := parse(path)
				return r.Interactions, err
			}, validate, log)
	case Classes:
		err = common.Convert(opts.Input, opts.Output, opts.Format,
			func(path string) ([]models.ClassMembershipRecord, error) {
				r, err := parse(path)
				return r.Classes, err
			}, validate, log)
	default:
		return thesaurus.Result{}, fmt.Errorf("unknown record stream: %s", stream)
	}
	if err != nil {
		return thesaurus.Result{}, err
	}

	log.Info("Conversion completed successfully!",
		logging.Field{Key: logging.FieldOutputFile, Value: opts.Output},
		logging.Field{Key: "interactions", Value: len(res.Interactions)},
		logging.Field{Key: "class_memberships", Value: len(res.Classes)})
	return res, nil
}

// Export runs ProcessFile with the container's parser and records the run
// in the container's metrics. log.Fatalf is called on failure.
func Export(ctx context.Context, c *container.Container, stream Stream, opts Options, log logging.Logger) {
	start := time.Now()
	res, err := ProcessFile(ctx, c.GetParser(), stream, opts, log)

	m := c.GetMetrics()
	m.ObserveRun(string(stream), start, err)
	if err == nil {
		m.ObserveParse(res)
	}
	if werr := m.WriteTextfile(c.GetConfig().Metrics.Textfile); werr != nil {
		log.WithError(werr).Warn("Failed to write metrics textfile")
	}

	if err != nil {
		log.Fatalf("Error extracting %s: %v", stream, err)
	}
}
