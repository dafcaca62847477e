// Package root contains the root command for the application
package root

import (
	"fmt"
	"strings"

	"nephila/thesaurus/internal/common"
	"nephila/thesaurus/internal/config"
	"nephila/thesaurus/internal/container"
	"nephila/thesaurus/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input    string
	Output   string
	Validate bool
	Layout   string
	Format   string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.GetLogger()

	// AppConfig is the configuration loaded before any command runs
	AppConfig *config.Config

	appContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "thesaurus",
		Short: "A CLI tool to extract the ANSM drug interaction thesaurus.",
		Long: `thesaurus extracts the interaction records and the class memberships of the
ANSM "Thésaurus des interactions médicamenteuses" PDF, exports them to CSV or YAML,
loads them into a raw SQLite layer and answers interaction lookups against it.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to thesaurus!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initialize()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appContainer == nil {
				return
			}
			if err := appContainer.Close(); err != nil {
				Log.WithError(err).Warn("Failed to release resources")
			}
		},
	}

	// SharedFlags holds the values of the persistent flags
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
	Cmd.PersistentFlags().BoolVarP(&SharedFlags.Validate, "validate", "v", false, "Validate file format before conversion")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Layout, "layout", "", "Force the interaction layout (auto, text, table)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Format, "format", "f", "csv", "Output format (csv, yaml)")
}

// initialize loads the configuration, applies flag overrides and builds
// the container shared by every subcommand.
func initialize() error {
	config.LoadEnv()

	cfg, err := config.InitializeConfig()
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	if SharedFlags.Layout != "" {
		cfg.Parser.Layout = strings.ToLower(SharedFlags.Layout)
	}
	AppConfig = cfg

	common.SetDelimiter([]rune(cfg.CSV.Delimiter)[0])

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("error initializing application: %w", err)
	}
	appContainer = c
	Log = c.GetLogger()
	logging.SetDefault(Log)

	Log.Debug("Configuration loaded",
		logging.Field{Key: logging.FieldLayout, Value: cfg.Parser.Layout},
		logging.Field{Key: logging.FieldDelimiter, Value: cfg.CSV.Delimiter})
	return nil
}

// GetContainer returns the container built before the running command.
func GetContainer() *container.Container {
	return appContainer
}

// SetContainer replaces the container, for tests driving subcommands
// directly.
func SetContainer(c *container.Container) {
	appContainer = c
	if c != nil {
		Log = c.GetLogger()
	}
}
