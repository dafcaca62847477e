package thesaurus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nephila/thesaurus/internal/logging"
	"nephila/thesaurus/internal/models"
)

func newTestParser(opts Options) (*Parser, *logging.MockLogger) {
	logger := logging.NewMockLogger()
	return NewParser(NewRules(), opts, logger), logger
}

func TestParseCrossPageContinuity(t *testing.T) {
	p, _ := newTestParser(Options{})

	single := p.ParsePages([]models.Page{{
		Number: 1,
		Text:   "AMIODARONE\n+ WARFARINE\nContre-indication : risque hémorragique accru.",
	}})
	split := p.ParsePages([]models.Page{
		{Number: 1, Text: "AMIODARONE\n+ WARFARINE"},
		{Number: 2, Text: "Contre-indication : risque hémorragique accru."},
	})

	require.Len(t, single.Interactions, 1)
	assert.Equal(t, single.Interactions, split.Interactions)
	assert.Equal(t, LayoutText, split.Layout)
	assert.Equal(t, 2, split.Stats.Pages)
}

func TestParseToleratesEmptyPages(t *testing.T) {
	p, _ := newTestParser(Options{})
	res := p.ParsePages([]models.Page{
		{Number: 1},
		{Number: 2, Text: "AMIODARONE\n+ WARFARINE"},
		{Number: 3, Text: "   \n\n"},
		{Number: 4, Text: "CI"},
	})

	require.Len(t, res.Interactions, 1)
	assert.Equal(t, models.ContreIndication, res.Interactions[0].NiveauContrainte)
	assert.Empty(t, res.Interactions[0].NatureRisque)
}

func TestParseRunsBothPasses(t *testing.T) {
	p, _ := newTestParser(Options{Layout: LayoutText})
	res := p.ParsePages([]models.Page{{
		Number: 1,
		Text: "DIURETIQUES\n" +
			"(acetazolamide, furosemide)\n" +
			"Voir aussi : hypokaliémiants\n" +
			"+ LITHIUM\n" +
			"Association déconseillée\n" +
			"Augmentation de la lithémie.",
	}})

	require.Len(t, res.Interactions, 1)
	assert.Equal(t, "DIURETIQUES", res.Interactions[0].SubstanceA)
	assert.Equal(t, "LITHIUM", res.Interactions[0].SubstanceB)
	assert.Equal(t, "Augmentation de la lithémie.", res.Interactions[0].NatureRisque)

	require.Len(t, res.Classes, 3)
	assert.Equal(t, models.SourceParenthetical, res.Classes[0].Source)
	assert.Equal(t, models.SourceVoirAussi, res.Classes[2].Source)
	assert.Equal(t, "diuretiques", res.Classes[2].SubstanceDCI)

	// the member list and the cross reference are noise for the pair machine
	assert.Equal(t, 2, res.Stats.DiscardedLines)
}

func TestParseAutoDetectsTableLayout(t *testing.T) {
	p, _ := newTestParser(Options{ProbePages: 2})
	res := p.ParsePages([]models.Page{
		{Number: 1, Text: "Thésaurus des interactions"},
		{
			Number: 2,
			Text:   "AMIODARONE\n+ IGNORED\nContre-indication",
			Tables: []models.Table{
				{{"Substances", "Niveau", "Risque", "Conduite à tenir"}, {"WARFARINE", "Contre-indication", "Hémorragie", "Ne pas associer"}},
				{{"Colonne", "Autre"}, {"x", "y"}},
			},
		},
		{
			Number: 3,
			Text:   "ATORVASTATINE",
			Tables: []models.Table{
				{{"Médicaments", "Niveau"}, {"CICLOSPORINE", "Association déconseillée"}},
			},
		},
	})

	assert.Equal(t, LayoutTable, res.Layout)
	require.Len(t, res.Interactions, 2)
	assert.Equal(t, "AMIODARONE", res.Interactions[0].SubstanceA)
	assert.Equal(t, "Ne pas associer", res.Interactions[0].ConduiteATenir)
	assert.Equal(t, "ATORVASTATINE", res.Interactions[1].SubstanceA)
	assert.Equal(t, 3, res.Stats.TablesSeen)
	assert.Equal(t, 1, res.Stats.TablesSkipped)
}

func TestParseProbeMissesLateTables(t *testing.T) {
	p, _ := newTestParser(Options{ProbePages: 1})
	res := p.ParsePages([]models.Page{
		{Number: 1, Text: "AMIODARONE\n+ WARFARINE\nCI"},
		{Number: 2, Tables: []models.Table{{{"Substances", "Niveau"}, {"X", "Contre-indication"}}}},
	})

	assert.Equal(t, LayoutText, res.Layout)
	require.Len(t, res.Interactions, 1)
	assert.Equal(t, "WARFARINE", res.Interactions[0].SubstanceB)
}

func TestParseForcedTableLayoutStillExtractsClasses(t *testing.T) {
	p, _ := newTestParser(Options{Layout: LayoutTable})
	res := p.ParsePages([]models.Page{{
		Number: 1,
		Text:   "MACROLIDES\n(clarithromycine, erythromycine)\n+ WARFARINE\nContre-indication",
	}})

	assert.Equal(t, LayoutTable, res.Layout)
	assert.Empty(t, res.Interactions)
	assert.Len(t, res.Classes, 2)
}

func TestParseReadsSequenceOnce(t *testing.T) {
	p, _ := newTestParser(Options{ProbePages: 3})
	calls := 0
	seq := func(yield func(models.Page) bool) {
		pages := []models.Page{
			{Number: 1, Text: "AMIODARONE"},
			{Number: 2, Text: "+ WARFARINE"},
			{Number: 3, Text: "Contre-indication"},
			{Number: 4, Text: "+ DIGOXINE"},
			{Number: 5, Text: "Précaution d'emploi"},
		}
		calls++
		for _, pg := range pages {
			if !yield(pg) {
				return
			}
		}
	}

	res := p.Parse(seq)
	assert.Equal(t, 1, calls)
	assert.Len(t, res.Interactions, 2)
	assert.Equal(t, 5, res.Stats.Pages)
}

func TestParseLogsSummaryOnce(t *testing.T) {
	p, logger := newTestParser(Options{Layout: LayoutText})
	p.ParsePages([]models.Page{{Text: "AMIODARONE\n+ WARFARINE\nsans niveau"}})

	assert.True(t, logger.HasEntry("INFO", "Thesaurus parsed"))
	dropped, ok := logger.FieldValue("Thesaurus parsed", "dropped_pairs")
	require.True(t, ok)
	assert.Equal(t, 1, dropped)

	count := 0
	for _, e := range logger.Entries() {
		if e.Message == "Thesaurus parsed" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestParseLayout(t *testing.T) {
	for in, want := range map[string]Layout{"": LayoutAuto, "AUTO": LayoutAuto, "text": LayoutText, " table ": LayoutTable} {
		got, err := ParseLayout(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseLayout("pdfplumber")
	assert.Error(t, err)
}
