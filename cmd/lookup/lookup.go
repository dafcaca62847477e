// Package lookup handles interaction queries against the raw layer
package lookup

import (
	"context"
	"fmt"
	"io"

	"nephila/thesaurus/cmd/root"
	"nephila/thesaurus/internal/common"
	"nephila/thesaurus/internal/logging"
	"nephila/thesaurus/internal/models"
	"nephila/thesaurus/internal/store"

	"github.com/spf13/cobra"
)

// Cmd represents the lookup command
var Cmd = &cobra.Command{
	Use:   "lookup SUBSTANCE [SUBSTANCE]",
	Short: "Look up interactions in the raw layer",
	Long: `With one substance, list its interaction classes and every interaction
involving it. With two substances, list the interactions between them, most severe
first (at most 10). Names are matched without regard to case or accents.`,
	Example: `  thesaurus lookup warfarine
  thesaurus lookup warfarine amiodarone --format yaml`,
	Args: cobra.RangeArgs(1, 2),
	Run:  lookupFunc,
}

func lookupFunc(cmd *cobra.Command, args []string) {
	logger := root.Log
	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Fatal("Container not initialized")
		return
	}

	st, err := appContainer.GetStore()
	if err != nil {
		logger.Fatalf("Error opening raw store: %v", err)
		return
	}

	if err := Lookup(cmd.Context(), st, args, root.SharedFlags.Format, cmd.OutOrStdout(), logger); err != nil {
		logger.Fatalf("Error looking up interactions: %v", err)
	}
}

// Lookup resolves one or two substances against st and writes the matching
// interactions to w.
func Lookup(ctx context.Context, st *store.Store, substances []string, format string, w io.Writer, logger logging.Logger) error {
	var (
		found []models.InteractionRecord
		err   error
	)
	switch len(substances) {
	case 1:
		classes, err := st.ResolveClasses(ctx, substances[0])
		if err != nil {
			return err
		}
		logger.Info("Resolved classes",
			logging.Field{Key: "substance", Value: substances[0]},
			logging.Field{Key: "classes", Value: classes})
		found, err = st.InteractionsFor(ctx, substances[0])
		if err != nil {
			return err
		}
	case 2:
		found, err = st.FindInteractions(ctx, substances[0], substances[1])
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("expected one or two substances, got %d", len(substances))
	}

	critical := 0
	for _, r := range found {
		if models.IsCritical(string(r.NiveauContrainte)) {
			critical++
		}
	}
	if critical > 0 {
		logger.Warn("Critical interactions found",
			logging.Field{Key: logging.FieldCount, Value: critical})
	}
	if len(found) == 0 {
		logger.Info("No interaction found")
	}

	return common.EncodeRecords(w, found, format)
}
