// Package parser provides the base parser functionality and common interfaces.
package parser

import (
	"nephila/thesaurus/internal/common"
	"nephila/thesaurus/internal/logging"
	"nephila/thesaurus/internal/models"
)

// BaseParser provides the logger and record writers shared by parser
// adapters. Adapters embed it:
//
//	type Adapter struct {
//		parser.BaseParser
//		// adapter-specific fields
//	}
type BaseParser struct {
	logger logging.Logger
}

// NewBaseParser creates a BaseParser. A nil logger falls back to an
// info/text logrus logger.
func NewBaseParser(logger logging.Logger) BaseParser {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return BaseParser{logger: logger}
}

// SetLogger implements LoggerConfigurable. A nil logger is ignored.
func (b *BaseParser) SetLogger(logger logging.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// GetLogger returns the current logger instance.
func (b *BaseParser) GetLogger() logging.Logger {
	return b.logger
}

// WriteInteractionsToCSV writes interaction records through the common writer.
func (b *BaseParser) WriteInteractionsToCSV(records []models.InteractionRecord, csvFile string) error {
	b.logger.Debug("Writing interactions to CSV using common writer",
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(records)})
	return common.WriteInteractionsToCSV(records, csvFile, b.logger)
}

// WriteClassesToCSV writes class-membership records through the common writer.
func (b *BaseParser) WriteClassesToCSV(records []models.ClassMembershipRecord, csvFile string) error {
	b.logger.Debug("Writing class memberships to CSV using common writer",
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(records)})
	return common.WriteClassesToCSV(records, csvFile, b.logger)
}
