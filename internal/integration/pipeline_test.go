package integration

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"nephila/thesaurus/internal/common"
	"nephila/thesaurus/internal/logging"
	"nephila/thesaurus/internal/models"
	"nephila/thesaurus/internal/pdfparser"
	"nephila/thesaurus/internal/store"
	"nephila/thesaurus/internal/thesaurus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var thesaurusPages = []models.Page{
	{Number: 1, Text: `Thésaurus des interactions médicamenteuses
ANTIVITAMINES K
(acenocoumarol, fluindione, warfarine)
+ AMIODARONE
Association DECONSEILLEE
Augmentation de l'effet de l'antivitamine K et du risque hémorragique.
+ MILLEPERTUIS
CONTRE-INDICATION
Diminution des concentrations plasmatiques de l'antivitamine K.`},
	{Number: 2, Text: `ÉRYTHROMYCINE
+ SIMVASTATINE
CONTRE-INDICATION
Risque majoré d'effets indésirables concentration-dépendants.
Voir aussi : macrolides (sauf spiramycine)`},
}

func parseFixture(t *testing.T, logger logging.Logger) thesaurus.Result {
	t.Helper()
	input := filepath.Join(t.TempDir(), "thesaurus.pdf")
	require.NoError(t, os.WriteFile(input, []byte("%PDF-1.7"), 0600))

	adapter := pdfparser.NewAdapter(logger, pdfparser.NewMockPDFExtractor(thesaurusPages, nil),
		thesaurus.Options{Layout: thesaurus.LayoutText})
	res, err := adapter.Parse(context.Background(), input)
	require.NoError(t, err)
	return res
}

func readHeader(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	header, err := csv.NewReader(f).Read()
	require.NoError(t, err)
	return header
}

// TestExportColumns checks the CSV header of both record streams.
func TestExportColumns(t *testing.T) {
	logger := logging.NewMockLogger()
	res := parseFixture(t, logger)
	dir := t.TempDir()

	interactionsPath := filepath.Join(dir, "interactions.csv")
	classesPath := filepath.Join(dir, "classes.csv")
	require.NoError(t, common.WriteInteractionsToCSV(res.Interactions, interactionsPath, logger))
	require.NoError(t, common.WriteClassesToCSV(res.Classes, classesPath, logger))

	assert.Equal(t,
		[]string{"substance_a", "substance_b", "niveau_contrainte", "nature_risque", "conduite_a_tenir"},
		readHeader(t, interactionsPath))
	assert.Equal(t,
		[]string{"substance_dci", "classe_ansm", "source"},
		readHeader(t, classesPath))
}

// TestParseLoadResolve runs a thesaurus through CSV export, back into the raw
// store, and resolves interactions through the class memberships.
func TestParseLoadResolve(t *testing.T) {
	ctx := context.Background()
	logger := logging.NewMockLogger()
	res := parseFixture(t, logger)
	require.Len(t, res.Interactions, 3)

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "interactions.csv")
	require.NoError(t, common.WriteInteractionsToCSV(res.Interactions, csvPath, logger))
	exported, err := common.ReadCSVFile[models.InteractionRecord](csvPath, logger)
	require.NoError(t, err)
	assert.Equal(t, res.Interactions, exported)

	st, err := store.NewStore(filepath.Join(dir, "raw", "thesaurus.db"), logger)
	require.NoError(t, err)
	defer st.Close()

	n, err := st.LoadInteractions(ctx, exported)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	_, err = st.LoadClasses(ctx, res.Classes)
	require.NoError(t, err)

	classes, err := st.ResolveClasses(ctx, "warfarine")
	require.NoError(t, err)
	assert.Equal(t, []string{"ANTIVITAMINES K"}, classes)

	found, err := st.FindInteractions(ctx, "Millepertuis", "warfarine")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, models.ContreIndication, found[0].NiveauContrainte)
	assert.True(t, models.IsCritical(string(found[0].NiveauContrainte)))

	found, err = st.FindInteractions(ctx, "simvastatine", "erythromycine")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "ÉRYTHROMYCINE", found[0].SubstanceA)

	found, err = st.FindInteractions(ctx, "paracetamol", "warfarine")
	require.NoError(t, err)
	assert.Empty(t, found)
}
