// Package classes handles the class-membership export command
package classes

import (
	"nephila/thesaurus/cmd/common"
	"nephila/thesaurus/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the classes command
var Cmd = &cobra.Command{
	Use:   "classes",
	Short: "Extract substance class memberships from the thesaurus PDF",
	Long: `Extract the (substance_dci, classe_ansm, source) records of the ANSM thesaurus:
parenthetical member lists under class headers and "Voir aussi" cross references.`,
	Example: "  thesaurus classes -i thesaurus.pdf -o classes.csv",
	Run:     classesFunc,
}

func classesFunc(cmd *cobra.Command, args []string) {
	logger := root.Log
	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Fatal("Container not initialized")
		return
	}

	common.Export(cmd.Context(), appContainer, common.Classes, common.Options{
		Input:    root.SharedFlags.Input,
		Output:   root.SharedFlags.Output,
		Format:   root.SharedFlags.Format,
		Validate: root.SharedFlags.Validate,
	}, logger)
}
