package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalLabelsAreExact(t *testing.T) {
	assert.Equal(t, "Contre-indication", string(ContreIndication))
	assert.Equal(t, "Association déconseillée", string(AssociationDeconseillee))
	assert.Equal(t, "Précaution d'emploi", string(PrecautionEmploi))
	assert.Equal(t, "A prendre en compte", string(APrendreEnCompte))
}

func TestRankOrdersBySeverity(t *testing.T) {
	assert.Equal(t, 1, ContreIndication.Rank())
	assert.Equal(t, 2, AssociationDeconseillee.Rank())
	assert.Equal(t, 3, PrecautionEmploi.Rank())
	assert.Equal(t, 4, APrendreEnCompte.Rank())
	assert.Equal(t, 0, ConstraintLevel("CONTRE-INDICATION").Rank())
	assert.False(t, ConstraintLevel("").Valid())
}

func TestParseConstraintLevel(t *testing.T) {
	tests := []struct {
		in   string
		want ConstraintLevel
		ok   bool
	}{
		{"CONTRE-INDICATION", ContreIndication, true},
		{" association déconseillée ", AssociationDeconseillee, true},
		{"précaution d'emploi", PrecautionEmploi, true},
		{"à prendre en compte", APrendreEnCompte, true},
		{"A PRENDRE EN COMPTE", APrendreEnCompte, true},
		{"CI", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseConstraintLevel(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsCritical(t *testing.T) {
	assert.True(t, IsCritical("CONTRE-INDICATION"))
	assert.True(t, IsCritical("Association déconseillée"))
	assert.False(t, IsCritical("Précaution d'emploi"))
	assert.False(t, IsCritical("A prendre en compte"))
	assert.False(t, IsCritical(""))
}
