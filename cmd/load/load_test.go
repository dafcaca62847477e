package load

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"nephila/thesaurus/cmd/root"
	"nephila/thesaurus/internal/config"
	"nephila/thesaurus/internal/container"
	"nephila/thesaurus/internal/logging"
	"nephila/thesaurus/internal/models"
	"nephila/thesaurus/internal/pdfparser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCommand(t *testing.T) {
	dir := t.TempDir()
	log := logging.NewMockLogger()
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Parser.Layout = "auto"
	cfg.Parser.ProbePages = 5
	cfg.Fetch.TimeoutSeconds = 5
	cfg.Store.Path = filepath.Join(dir, "raw", "thesaurus.db")
	cfg.Fetch.Dest = filepath.Join(dir, "thesaurus.pdf")
	require.NoError(t, os.WriteFile(cfg.Fetch.Dest, []byte("%PDF-1.7"), 0600))

	pages := []models.Page{{Number: 1, Text: `ANTIVITAMINES K
(acenocoumarol, fluindione, warfarine)
+ AMIODARONE
Association DECONSEILLEE
Augmentation de l'effet de l'antivitamine K et du risque hémorragique.`}}
	c, err := container.NewContainer(cfg,
		container.WithLogger(log),
		container.WithExtractor(pdfparser.NewMockPDFExtractor(pages, nil)))
	require.NoError(t, err)
	root.SetContainer(c)
	savedLog := root.Log
	root.Log = log
	t.Cleanup(func() {
		root.SetContainer(nil)
		root.Log = savedLog
		_ = c.Close()
	})

	// no --input: falls back to fetch.dest
	saved := root.SharedFlags
	root.SharedFlags = root.CommonFlags{}
	t.Cleanup(func() { root.SharedFlags = saved })

	Cmd.SetContext(context.Background())
	loadFunc(Cmd, nil)
	require.True(t, log.HasEntry("INFO", "Thesaurus loaded"))

	st, err := c.GetStore()
	require.NoError(t, err)
	interactions, classes, err := st.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, interactions)
	assert.Equal(t, 3, classes)
}
