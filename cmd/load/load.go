// Package load handles loading the thesaurus into the raw layer
package load

import (
	"nephila/thesaurus/cmd/root"
	"nephila/thesaurus/internal/logging"
	"nephila/thesaurus/internal/validation"

	"github.com/spf13/cobra"
)

// Cmd represents the load command
var Cmd = &cobra.Command{
	Use:   "load",
	Short: "Parse the thesaurus PDF and replace the raw tables",
	Long: `Parse the ANSM thesaurus PDF and bulk load both record streams into the raw
SQLite layer. Each load replaces the previous content of the tables.`,
	Example: "  thesaurus load -i data/bronze/ansm/thesaurus.pdf",
	Run:     loadFunc,
}

func loadFunc(cmd *cobra.Command, args []string) {
	logger := root.Log
	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Fatal("Container not initialized")
		return
	}

	input := root.SharedFlags.Input
	if input == "" {
		input = appContainer.GetConfig().Fetch.Dest
	}
	if err := validation.IsValidInputFile(input); err != nil {
		logger.Fatalf("Invalid input: %v", err)
		return
	}

	pipeline, err := appContainer.GetPipeline()
	if err != nil {
		logger.Fatalf("Error opening raw store: %v", err)
		return
	}

	sum, err := pipeline.Load(cmd.Context(), input)
	if err != nil {
		logger.Fatalf("Error loading thesaurus: %v", err)
		return
	}

	logger.Info("Thesaurus loaded",
		logging.Field{Key: logging.FieldInputFile, Value: input},
		logging.Field{Key: "interactions", Value: sum.Interactions},
		logging.Field{Key: "class_memberships", Value: sum.ClassMemberships},
		logging.Field{Key: logging.FieldDuration, Value: sum.Duration.String()})
}
