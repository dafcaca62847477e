// Package common provides the record writers and readers shared by the commands.
package common

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"nephila/thesaurus/internal/fileutils"
	"nephila/thesaurus/internal/logging"
	"nephila/thesaurus/internal/models"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"
)

// Delimiter is the CSV field separator used by every writer and reader.
var Delimiter rune = ','

// SetDelimiter changes the CSV delimiter.
func SetDelimiter(delim rune) {
	Delimiter = delim
}

func loggerOrDefault(logger logging.Logger) logging.Logger {
	if logger == nil {
		return logging.GetLogger()
	}
	return logger
}

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
// TCSVRow is the struct type that maps to the CSV columns.
func ReadCSVFile[TCSVRow any](filePath string, logger logging.Logger) ([]TCSVRow, error) {
	logger = loggerOrDefault(logger)
	logger.Debug("Reading CSV file", logging.Field{Key: logging.FieldFile, Value: filePath})

	file, err := os.Open(filePath) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	reader := csv.NewReader(file)
	reader.Comma = Delimiter
	reader.FieldsPerRecord = -1

	var rows []TCSVRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	logger.Debug("Read CSV data",
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return rows, nil
}

// WriteCSVFile writes records to csvFile with a header row, creating parent
// directories as needed. An empty slice still produces the header.
func WriteCSVFile[T any](records []T, csvFile string, logger logging.Logger) error {
	if records == nil {
		records = []T{}
	}
	logger = loggerOrDefault(logger)

	if err := ensureDir(csvFile); err != nil {
		return err
	}

	file, err := os.Create(csvFile) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := EncodeCSV(file, records); err != nil {
		return err
	}

	logger.Info("Wrote CSV file",
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(records)},
		logging.Field{Key: logging.FieldDelimiter, Value: string(Delimiter)})
	return nil
}

// EncodeCSV writes records with a header row to w using Delimiter.
func EncodeCSV[T any](w io.Writer, records []T) error {
	if records == nil {
		records = []T{}
	}
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = Delimiter

	if err := gocsv.MarshalCSV(records, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// EncodeRecords writes records to w as CSV or YAML.
func EncodeRecords[T any](w io.Writer, records []T, format string) error {
	switch format {
	case FormatCSV, "":
		return EncodeCSV(w, records)
	case FormatYAML:
		if records == nil {
			records = []T{}
		}
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("error encoding YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteInteractionsToCSV writes interaction records in the raw-table column layout.
func WriteInteractionsToCSV(records []models.InteractionRecord, csvFile string, logger logging.Logger) error {
	return WriteCSVFile(records, csvFile, logger)
}

// WriteClassesToCSV writes class-membership records in the raw-table column layout.
func WriteClassesToCSV(records []models.ClassMembershipRecord, csvFile string, logger logging.Logger) error {
	return WriteCSVFile(records, csvFile, logger)
}

// WriteYAMLFile marshals v as YAML to path.
func WriteYAMLFile(v any, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("error marshaling YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("error writing YAML file: %w", err)
	}
	return nil
}

// Output formats.
const (
	FormatCSV  = "csv"
	FormatYAML = "yaml"
)

// WriteRecords writes records to path as CSV or YAML.
func WriteRecords[T any](records []T, path, format string, logger logging.Logger) error {
	switch format {
	case FormatCSV, "":
		return WriteCSVFile(records, path, logger)
	case FormatYAML:
		if records == nil {
			records = []T{}
		}
		return WriteYAMLFile(records, path)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// Convert validates inputFile, parses it and writes the resulting records
// to outputFile in format.
func Convert[T any](
	inputFile string,
	outputFile string,
	format string,
	parseFunc func(string) ([]T, error),
	validateFunc func(string) (bool, error),
	logger logging.Logger,
) error {
	logger = loggerOrDefault(logger)
	logger.Info("Converting file",
		logging.Field{Key: logging.FieldInputFile, Value: inputFile},
		logging.Field{Key: logging.FieldOutputFile, Value: outputFile},
		logging.Field{Key: "format", Value: format})

	if !fileutils.FileExists(inputFile) {
		return fmt.Errorf("input file does not exist: %s", inputFile)
	}

	if validateFunc != nil {
		isValid, err := validateFunc(inputFile)
		if err != nil {
			return fmt.Errorf("error validating file format: %w", err)
		}
		if !isValid {
			return fmt.Errorf("invalid file format: %s", inputFile)
		}
	}

	records, err := parseFunc(inputFile)
	if err != nil {
		return fmt.Errorf("error parsing file: %w", err)
	}

	if err := WriteRecords(records, outputFile, format, logger); err != nil {
		return fmt.Errorf("error writing records: %w", err)
	}
	return nil
}

func ensureDir(path string) error {
	if err := fileutils.EnsureParentDir(path); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	return nil
}
