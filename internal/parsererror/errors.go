// Package parsererror holds the typed errors returned by the thesaurus adapters.
package parsererror

import "fmt"

// ParseError reports a failure to interpret one value.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidFormatError means the input is not the kind of file the parser expects.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// ExtractionError wraps a failure of the PDF text extraction collaborator.
// Page is 1-based; zero means the failure happened before any page was read.
type ExtractionError struct {
	FilePath string
	Page     int
	Err      error
}

func (e *ExtractionError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("text extraction failed for '%s' at page %d: %v", e.FilePath, e.Page, e.Err)
	}
	return fmt.Sprintf("text extraction failed for '%s': %v", e.FilePath, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ValidationError reports a record that breaks an output invariant.
type ValidationError struct {
	Record string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid record %s: %s", e.Record, e.Reason)
}
