package parser

import (
	"context"

	"nephila/thesaurus/internal/logging"
	"nephila/thesaurus/internal/thesaurus"
)

// Parser turns a thesaurus document into records.
type Parser interface {
	// Parse extracts and parses the document at path. Implementations
	// return parsererror types for format and extraction failures.
	Parse(ctx context.Context, path string) (thesaurus.Result, error)
}

// Validator checks that a file has the expected format before parsing.
type Validator interface {
	ValidateFormat(path string) (bool, error)
}

// LoggerConfigurable is implemented by components whose logger can be
// replaced after construction.
type LoggerConfigurable interface {
	SetLogger(logger logging.Logger)
}

// FullParser is what the commands depend on.
type FullParser interface {
	Parser
	Validator
	LoggerConfigurable
}
