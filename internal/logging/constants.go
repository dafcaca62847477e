package logging

// Standard field names, so log lines can be filtered the same way across commands.
const (
	FieldFile       = "file_path"
	FieldParser     = "parser"
	FieldLayout     = "layout"
	FieldPage       = "page"
	FieldOperation  = "operation"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldSource     = "source"
	FieldURL        = "url"
	FieldLoadID     = "load_id"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldDelimiter  = "delimiter"
)
