package pdfparser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"nephila/thesaurus/internal/logging"
	"nephila/thesaurus/internal/parser"
	"nephila/thesaurus/internal/parsererror"
	"nephila/thesaurus/internal/thesaurus"
)

var pdfMagic = []byte("%PDF-")

// Adapter wires a PDFExtractor to the thesaurus parser.
type Adapter struct {
	parser.BaseParser
	extractor PDFExtractor
	rules     *thesaurus.Rules
	opts      thesaurus.Options
}

// NewAdapter creates an adapter. A nil extractor means the ledongthuc
// extractor with table detection enabled.
func NewAdapter(logger logging.Logger, extractor PDFExtractor, opts thesaurus.Options) *Adapter {
	base := parser.NewBaseParser(logger)
	if extractor == nil {
		extractor = NewLedongthucExtractor(true, DefaultCellGap, base.GetLogger())
	}
	return &Adapter{
		BaseParser: base,
		extractor:  extractor,
		rules:      thesaurus.NewRules(),
		opts:       opts,
	}
}

// Parse validates and opens the PDF at path and runs both extractors over
// its pages. When ctx ends mid-document the partial result is discarded and
// ctx's error returned.
func (a *Adapter) Parse(ctx context.Context, path string) (thesaurus.Result, error) {
	logger := a.GetLogger().WithField(logging.FieldFile, path)

	ok, err := a.ValidateFormat(path)
	if err != nil {
		return thesaurus.Result{}, err
	}
	if !ok {
		return thesaurus.Result{}, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "PDF",
			Msg:            "missing %PDF- header",
		}
	}

	doc, err := a.extractor.Open(ctx, path)
	if err != nil {
		return thesaurus.Result{}, err
	}
	defer func() {
		if err := doc.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close PDF")
		}
	}()

	logger.Info("Parsing thesaurus PDF", logging.Field{Key: logging.FieldCount, Value: doc.PageCount})

	p := thesaurus.NewParser(a.rules, a.opts, a.GetLogger())
	res := p.Parse(doc.Pages)
	if err := ctx.Err(); err != nil {
		return thesaurus.Result{}, &parsererror.ExtractionError{FilePath: path, Page: res.Stats.Pages, Err: err}
	}
	return res, nil
}

// ConvertInteractions parses inputFile and writes its interaction records to outputFile.
func (a *Adapter) ConvertInteractions(ctx context.Context, inputFile, outputFile string) (thesaurus.Result, error) {
	res, err := a.Parse(ctx, inputFile)
	if err != nil {
		return res, err
	}
	return res, a.WriteInteractionsToCSV(res.Interactions, outputFile)
}

// ConvertClasses parses inputFile and writes its class-membership records to outputFile.
func (a *Adapter) ConvertClasses(ctx context.Context, inputFile, outputFile string) (thesaurus.Result, error) {
	res, err := a.Parse(ctx, inputFile)
	if err != nil {
		return res, err
	}
	return res, a.WriteClassesToCSV(res.Classes, outputFile)
}

// ValidateFormat checks that file starts with the PDF magic bytes.
// A missing file is an error; a file of another format is not.
func (a *Adapter) ValidateFormat(file string) (bool, error) {
	f, err := os.Open(file) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return false, fmt.Errorf("error opening input file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			a.GetLogger().WithError(err).Warn("Failed to close input file",
				logging.Field{Key: logging.FieldFile, Value: file})
		}
	}()

	head := make([]byte, 1024)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, fmt.Errorf("error reading input file: %w", err)
	}
	// some producers emit a few bytes of garbage before the header
	if !bytes.Contains(head[:n], pdfMagic) {
		a.GetLogger().Warn("File is not a PDF", logging.Field{Key: logging.FieldFile, Value: file})
		return false, nil
	}
	return true, nil
}
