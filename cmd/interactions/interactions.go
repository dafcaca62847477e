// Package interactions handles the interaction export command
package interactions

import (
	"nephila/thesaurus/cmd/common"
	"nephila/thesaurus/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the interactions command
var Cmd = &cobra.Command{
	Use:   "interactions",
	Short: "Extract interaction records from the thesaurus PDF",
	Long: `Extract every (substance_a, substance_b, niveau_contrainte, nature_risque,
conduite_a_tenir) record of the ANSM thesaurus PDF and write them to CSV or YAML.`,
	Example: "  thesaurus interactions -i thesaurus.pdf -o interactions.csv",
	Run:     interactionsFunc,
}

func interactionsFunc(cmd *cobra.Command, args []string) {
	logger := root.Log
	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Fatal("Container not initialized")
		return
	}

	common.Export(cmd.Context(), appContainer, common.Interactions, common.Options{
		Input:    root.SharedFlags.Input,
		Output:   root.SharedFlags.Output,
		Format:   root.SharedFlags.Format,
		Validate: root.SharedFlags.Validate,
	}, logger)
}
