package pdfparser

import (
	"testing"

	"nephila/thesaurus/internal/models"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// row builds a pdf.Row from (x, text) pairs; each word is 6pt per rune wide.
func row(y int64, cells ...any) *pdf.Row {
	r := &pdf.Row{Position: y}
	for i := 0; i < len(cells); i += 2 {
		x := cells[i].(float64)
		s := cells[i+1].(string)
		r.Content = append(r.Content, pdf.Text{X: x, Y: float64(y), W: float64(len([]rune(s))) * 6, FontSize: 10, S: s})
	}
	return r
}

func TestReconstructTables(t *testing.T) {
	rows := pdf.Rows{
		row(800, 50.0, "AMIODARONE"),
		row(780, 50.0, "Substances", 200.0, "Niveau", 320.0, "Conduite"),
		row(770, 320.0, "à tenir"),
		row(760, 50.0, "WARFARINE", 200.0, "Contre-indication", 320.0, "Ne pas associer"),
		row(750, 50.0, "DIGOXINE", 200.0, "Précaution", 264.0, "d'emploi"),
		row(740, 320.0, "Surveillance ECG"),
		row(720, 50.0, "Texte libre après le tableau"),
	}

	tables := ReconstructTables(rows, 12)

	require.Len(t, tables, 1)
	assert.Equal(t, models.Table{
		{"Substances", "Niveau", "Conduite à tenir"},
		{"WARFARINE", "Contre-indication", "Ne pas associer"},
		{"DIGOXINE", "Précaution d'emploi", "Surveillance ECG"},
	}, tables[0])
}

func TestReconstructTablesMergesCloseRuns(t *testing.T) {
	rows := pdf.Rows{
		row(780, 50.0, "Subst", 80.0, "ances", 200.0, "Niveau"),
		row(760, 50.0, "LITHIUM", 200.0, "CI"),
	}

	tables := ReconstructTables(rows, 12)
	require.Len(t, tables, 1)
	assert.Equal(t, []string{"Substances", "Niveau"}, tables[0][0])
}

func TestReconstructTablesIgnoresSingleRowBlocks(t *testing.T) {
	rows := pdf.Rows{
		row(780, 50.0, "Page", 400.0, "12"),
		row(760, 50.0, "Texte courant"),
		nil,
	}
	assert.Empty(t, ReconstructTables(rows, 0))
}
