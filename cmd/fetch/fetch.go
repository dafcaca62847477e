// Package fetch handles downloading the thesaurus from the ANSM site
package fetch

import (
	"nephila/thesaurus/cmd/root"
	"nephila/thesaurus/internal/logging"

	"github.com/spf13/cobra"
)

var pageURL string

// Cmd represents the fetch command
var Cmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the current thesaurus PDF from the ANSM site",
	Long: `Scrape the ANSM thesaurus page for the PDF link and download the file.
The destination defaults to fetch.dest from the configuration.`,
	Example: "  thesaurus fetch -o data/bronze/ansm/thesaurus.pdf",
	Run:     fetchFunc,
}

func init() {
	Cmd.Flags().StringVar(&pageURL, "page-url", "", "ANSM page listing the thesaurus (defaults to fetch.page_url)")
}

func fetchFunc(cmd *cobra.Command, args []string) {
	logger := root.Log
	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Fatal("Container not initialized")
		return
	}
	cfg := appContainer.GetConfig()

	page := pageURL
	if page == "" {
		page = cfg.Fetch.PageURL
	}
	dest := root.SharedFlags.Output
	if dest == "" {
		dest = cfg.Fetch.Dest
	}

	pdfURL, err := appContainer.GetDownloader().Fetch(cmd.Context(), page, dest)
	if err != nil {
		logger.Fatalf("Error fetching thesaurus: %v", err)
		return
	}

	logger.Info("Thesaurus downloaded",
		logging.Field{Key: logging.FieldURL, Value: pdfURL},
		logging.Field{Key: logging.FieldOutputFile, Value: dest})
}
