package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)
	chdirTemp(t)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.Equal(t, "auto", config.Parser.Layout)
	assert.Equal(t, 5, config.Parser.ProbePages)
	assert.True(t, config.PDF.DetectTables)
	assert.Equal(t, 12.0, config.PDF.CellGap)
	assert.Equal(t, "data/raw/thesaurus.db", config.Store.Path)
	assert.Equal(t, DefaultPageURL, config.Fetch.PageURL)
	assert.Equal(t, DefaultBaseURL, config.Fetch.BaseURL)
	assert.Equal(t, "data/bronze/ansm/thesaurus.pdf", config.Fetch.Dest)
	assert.Equal(t, 120, config.Fetch.TimeoutSeconds)
	assert.Equal(t, DefaultUserAgent, config.Fetch.UserAgent)
	assert.Equal(t, "06:00;18:00", config.Schedule.Times)
	assert.Empty(t, config.Metrics.Textfile)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)
	chdirTemp(t)

	testEnvVars := map[string]string{
		"THESAURUS_LOG_LEVEL":          "debug",
		"THESAURUS_LOG_FORMAT":         "json",
		"THESAURUS_CSV_DELIMITER":      ";",
		"THESAURUS_PARSER_LAYOUT":      "table",
		"THESAURUS_PARSER_PROBE_PAGES": "2",
		"THESAURUS_PDF_DETECT_TABLES":  "false",
		"THESAURUS_STORE_PATH":         "/tmp/raw.db",
		"THESAURUS_METRICS_TEXTFILE":   "/var/lib/node_exporter/thesaurus.prom",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, ";", config.CSV.Delimiter)
	assert.Equal(t, "table", config.Parser.Layout)
	assert.Equal(t, 2, config.Parser.ProbePages)
	assert.False(t, config.PDF.DetectTables)
	assert.Equal(t, "/tmp/raw.db", config.Store.Path)
	assert.Equal(t, "/var/lib/node_exporter/thesaurus.prom", config.Metrics.Textfile)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)
	dir := chdirTemp(t)

	configContent := `
log:
  level: "warn"
  format: "json"
csv:
  delimiter: "|"
parser:
  layout: "text"
pdf:
  cell_gap: 8.5
fetch:
  timeout_seconds: 30
schedule:
  times: "07:30"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configContent), 0600))

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "|", config.CSV.Delimiter)
	assert.Equal(t, "text", config.Parser.Layout)
	assert.Equal(t, 8.5, config.PDF.CellGap)
	assert.Equal(t, 30, config.Fetch.TimeoutSeconds)
	assert.Equal(t, "07:30", config.Schedule.Times)
	assert.Equal(t, 5, config.Parser.ProbePages)
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	clearTestEnvVars(t)
	dir := chdirTemp(t)

	configContent := `
log:
  level: "warn"
csv:
  delimiter: "|"
fetch:
  timeout_seconds: 30
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configContent), 0600))

	t.Setenv("THESAURUS_LOG_LEVEL", "error")
	t.Setenv("THESAURUS_FETCH_TIMEOUT_SECONDS", "45")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level)
	assert.Equal(t, "|", config.CSV.Delimiter)
	assert.Equal(t, 45, config.Fetch.TimeoutSeconds)
}

func TestInitializeConfig_InvalidEnvironment(t *testing.T) {
	clearTestEnvVars(t)
	chdirTemp(t)
	t.Setenv("THESAURUS_PARSER_LAYOUT", "pdfplumber")

	_, err := InitializeConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid parser layout")
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{
			name:         "invalid log level",
			modifyConfig: func(c *Config) { c.Log.Level = "invalid" },
			expectError:  "invalid log level",
		},
		{
			name:         "invalid log format",
			modifyConfig: func(c *Config) { c.Log.Format = "invalid" },
			expectError:  "invalid log format",
		},
		{
			name:         "invalid CSV delimiter",
			modifyConfig: func(c *Config) { c.CSV.Delimiter = "abc" },
			expectError:  "CSV delimiter must be a single character",
		},
		{
			name:         "empty CSV delimiter",
			modifyConfig: func(c *Config) { c.CSV.Delimiter = "" },
			expectError:  "CSV delimiter must be a single character",
		},
		{
			name:         "unknown layout",
			modifyConfig: func(c *Config) { c.Parser.Layout = "ocr" },
			expectError:  "invalid parser layout",
		},
		{
			name:         "non-positive probe pages",
			modifyConfig: func(c *Config) { c.Parser.ProbePages = 0 },
			expectError:  "parser.probe_pages must be positive",
		},
		{
			name:         "non-positive cell gap",
			modifyConfig: func(c *Config) { c.PDF.CellGap = 0 },
			expectError:  "pdf.cell_gap must be positive",
		},
		{
			name:         "timeout out of range",
			modifyConfig: func(c *Config) { c.Fetch.TimeoutSeconds = 0 },
			expectError:  "fetch.timeout_seconds must be between 1 and 3600",
		},
		{
			name:         "empty schedule",
			modifyConfig: func(c *Config) { c.Schedule.Times = " " },
			expectError:  "schedule.times must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := defaultConfig(t)
			require.NoError(t, validateConfig(config))

			tt.modifyConfig(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestValidateConfig_MultiByteDelimiter(t *testing.T) {
	config := defaultConfig(t)
	config.CSV.Delimiter = "§"
	assert.NoError(t, validateConfig(config))
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	config := defaultConfig(t)
	config.Log.Level = "debug"
	config.Log.Format = "json"

	logger := ConfigureLoggingFromConfig(config)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	config.Log.Level = "nonsense"
	config.Log.Format = "text"
	logger = ConfigureLoggingFromConfig(config)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("THESAURUS_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnv("THESAURUS_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("THESAURUS_TEST_UNSET_VALUE", "fallback"))
}

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	v := viper.New()
	setDefaults(v)
	var c Config
	require.NoError(t, v.Unmarshal(&c))
	return &c
}

// chdirTemp moves the test into an empty directory so no stray config.yaml is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func clearTestEnvVars(t *testing.T) {
	envVars := []string{
		"THESAURUS_LOG_LEVEL",
		"THESAURUS_LOG_FORMAT",
		"THESAURUS_CSV_DELIMITER",
		"THESAURUS_PARSER_LAYOUT",
		"THESAURUS_PARSER_PROBE_PAGES",
		"THESAURUS_PDF_DETECT_TABLES",
		"THESAURUS_PDF_CELL_GAP",
		"THESAURUS_STORE_PATH",
		"THESAURUS_FETCH_PAGE_URL",
		"THESAURUS_FETCH_BASE_URL",
		"THESAURUS_FETCH_DEST",
		"THESAURUS_FETCH_TIMEOUT_SECONDS",
		"THESAURUS_FETCH_USER_AGENT",
		"THESAURUS_SCHEDULE_TIMES",
		"THESAURUS_METRICS_TEXTFILE",
	}
	for _, envVar := range envVars {
		// t.Setenv restores the previous value after the test
		t.Setenv(envVar, "")
		require.NoError(t, os.Unsetenv(envVar))
	}
}
