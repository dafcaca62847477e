package validation_test

import (
	"os"
	"path/filepath"
	"testing"

	"nephila/thesaurus/internal/models"
	"nephila/thesaurus/internal/parsererror"
	"nephila/thesaurus/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidInputFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "thesaurus.pdf")
	require.NoError(t, os.WriteFile(testFile, []byte("%PDF-1.7"), 0600))

	tests := []struct {
		name        string
		path        string
		errContains string
	}{
		{name: "existing file", path: testFile},
		{name: "directory", path: tmpDir, errContains: "not a regular file"},
		{name: "missing file", path: filepath.Join(tmpDir, "missing.pdf"), errContains: "path does not exist"},
		{name: "empty path", path: " ", errContains: "input file path is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.IsValidInputFile(tt.path)
			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestIsValidOutputFormat(t *testing.T) {
	assert.NoError(t, validation.IsValidOutputFormat("csv"))
	assert.NoError(t, validation.IsValidOutputFormat("yaml"))
	assert.Error(t, validation.IsValidOutputFormat("json"))
}

func TestValidateInteraction(t *testing.T) {
	valid := models.InteractionRecord{
		SubstanceA:       "AMIODARONE",
		SubstanceB:       "WARFARINE",
		NiveauContrainte: models.ContreIndication,
	}
	assert.NoError(t, validation.ValidateInteraction(valid))

	tests := []struct {
		name   string
		modify func(*models.InteractionRecord)
		reason string
	}{
		{"missing substance_a", func(r *models.InteractionRecord) { r.SubstanceA = "" }, "substance_a is empty"},
		{"missing substance_b", func(r *models.InteractionRecord) { r.SubstanceB = "  " }, "substance_b is empty"},
		{"missing level", func(r *models.InteractionRecord) { r.NiveauContrainte = "" }, "not a canonical level"},
		{"non canonical level", func(r *models.InteractionRecord) { r.NiveauContrainte = "CONTRE-INDICATION" }, "not a canonical level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.modify(&r)
			err := validation.ValidateInteraction(r)

			var verr *parsererror.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Reason, tt.reason)
		})
	}
}

func TestValidateClassMembership(t *testing.T) {
	assert.NoError(t, validation.ValidateClassMembership(models.ClassMembershipRecord{
		SubstanceDCI: "warfarine", ClasseANSM: "ANTIVITAMINES K", Source: models.SourceParenthetical,
	}))
	assert.NoError(t, validation.ValidateClassMembership(models.ClassMembershipRecord{
		ClasseANSM: "hyperkaliémiants", Source: models.SourceVoirAussi,
	}))

	assert.Error(t, validation.ValidateClassMembership(models.ClassMembershipRecord{
		ClasseANSM: "ANTIVITAMINES K", Source: models.SourceParenthetical,
	}))
	assert.Error(t, validation.ValidateClassMembership(models.ClassMembershipRecord{
		SubstanceDCI: "warfarine", Source: models.SourceParenthetical,
	}))
	assert.Error(t, validation.ValidateClassMembership(models.ClassMembershipRecord{
		SubstanceDCI: "warfarine", ClasseANSM: "X", Source: "ocr",
	}))
}
