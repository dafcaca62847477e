package pdfparser

import (
	"context"
	"fmt"
	"iter"

	"nephila/thesaurus/internal/logging"
	"nephila/thesaurus/internal/models"
	"nephila/thesaurus/internal/parsererror"

	"github.com/ledongthuc/pdf"
)

// Document is an opened PDF: a lazy, forward-only page sequence plus the
// function that releases the underlying file.
type Document struct {
	PageCount int
	Pages     iter.Seq[models.Page]
	Close     func() error
}

// PDFExtractor defines the interface for reading pages out of a PDF file.
// It allows the adapter to be tested without real documents.
type PDFExtractor interface {
	// Open opens the PDF at pdfPath. The returned page sequence stops early
	// once ctx is done.
	Open(ctx context.Context, pdfPath string) (*Document, error)
}

// LedongthucExtractor implements PDFExtractor on top of github.com/ledongthuc/pdf.
type LedongthucExtractor struct {
	detectTables bool
	cellGap      float64
	logger       logging.Logger
}

// NewLedongthucExtractor creates an extractor. When detectTables is set,
// every page is also scanned for ruled tables, splitting cells on horizontal
// gaps wider than cellGap points.
func NewLedongthucExtractor(detectTables bool, cellGap float64, logger logging.Logger) *LedongthucExtractor {
	if cellGap <= 0 {
		cellGap = DefaultCellGap
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &LedongthucExtractor{detectTables: detectTables, cellGap: cellGap, logger: logger}
}

// Open implements PDFExtractor.
func (e *LedongthucExtractor) Open(ctx context.Context, pdfPath string) (doc *Document, err error) {
	// the pdf package panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = &parsererror.ExtractionError{FilePath: pdfPath, Err: fmt.Errorf("%v", r)}
		}
	}()

	f, reader, err := pdf.Open(pdfPath)
	if err != nil {
		return nil, &parsererror.ExtractionError{FilePath: pdfPath, Err: err}
	}

	total := reader.NumPage()
	e.logger.Debug("Opened PDF",
		logging.Field{Key: logging.FieldFile, Value: pdfPath},
		logging.Field{Key: logging.FieldCount, Value: total})

	pages := func(yield func(models.Page) bool) {
		for i := 1; i <= total; i++ {
			if ctx.Err() != nil {
				return
			}
			if !yield(e.page(reader, pdfPath, i)) {
				return
			}
		}
	}

	return &Document{PageCount: total, Pages: pages, Close: f.Close}, nil
}

// page reads one page. Unreadable content yields an empty page, which the
// thesaurus parser treats as zero lines.
func (e *LedongthucExtractor) page(reader *pdf.Reader, pdfPath string, i int) (pg models.Page) {
	pg.Number = i
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("Skipping unreadable page",
				logging.Field{Key: logging.FieldFile, Value: pdfPath},
				logging.Field{Key: logging.FieldPage, Value: i},
				logging.Field{Key: logging.FieldError, Value: fmt.Sprint(r)})
			pg = models.Page{Number: i}
		}
	}()

	p := reader.Page(i)
	if p.V.IsNull() {
		return pg
	}

	text, err := p.GetPlainText(nil)
	if err != nil {
		e.logger.WithError(err).Warn("Failed to extract page text",
			logging.Field{Key: logging.FieldFile, Value: pdfPath},
			logging.Field{Key: logging.FieldPage, Value: i})
	} else {
		pg.Text = text
	}

	if e.detectTables {
		rows, err := p.GetTextByRow()
		if err != nil {
			e.logger.WithError(err).Debug("Failed to read page rows",
				logging.Field{Key: logging.FieldPage, Value: i})
			return pg
		}
		pg.Tables = ReconstructTables(rows, e.cellGap)
	}
	return pg
}

// MockPDFExtractor implements PDFExtractor for testing purposes.
// It serves predefined pages instead of reading a file.
type MockPDFExtractor struct {
	MockPages []models.Page
	MockErr   error

	Closed bool
}

// NewMockPDFExtractor creates a new MockPDFExtractor with the given mock data.
func NewMockPDFExtractor(pages []models.Page, mockErr error) *MockPDFExtractor {
	return &MockPDFExtractor{MockPages: pages, MockErr: mockErr}
}

// Open returns the predefined pages or error.
func (e *MockPDFExtractor) Open(ctx context.Context, pdfPath string) (*Document, error) {
	if e.MockErr != nil {
		return nil, e.MockErr
	}
	pages := func(yield func(models.Page) bool) {
		for _, pg := range e.MockPages {
			if ctx.Err() != nil {
				return
			}
			if !yield(pg) {
				return
			}
		}
	}
	return &Document{
		PageCount: len(e.MockPages),
		Pages:     pages,
		Close: func() error {
			e.Closed = true
			return nil
		},
	}, nil
}
