package thesaurus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSubstanceA(t *testing.T) {
	r := NewRules()

	headers := []string{
		"AMIODARONE",
		"INHIBITEURS DE L'ECA",
		"ANTICOAGULANTS ORAUX (AVK)",
		"ÉRYTHROMYCINE",
		"ANTIVITAMINES K",
		"ACIDE ACETYLSALICYLIQUE",
		"SODIUM (BICARBONATE DE)",
		"  ESTROGENES NON CONTRACEPTIFS  ",
	}
	for _, line := range headers {
		t.Run("header "+line, func(t *testing.T) {
			assert.True(t, r.IsSubstanceA(line))
		})
	}

	notHeaders := []string{
		"+ WARFARINE",
		"Voir aussi rubrique X",
		"voir aussi : anticoagulants oraux",
		"2",
		"183",
		"12/240",
		"risque de saignement accru",
		"AB",
		"Contre-indication",
		"ANSM - Mise à jour : septembre 2023",
		"",
	}
	for _, line := range notHeaders {
		t.Run("not header "+line, func(t *testing.T) {
			assert.False(t, r.IsSubstanceA(line))
		})
	}
}

func TestIsSubstanceALengthBounds(t *testing.T) {
	r := NewRules()
	long := ""
	for len(long) <= 80 {
		long += "ABCDEFGHIJ"
	}
	assert.False(t, r.IsSubstanceA(long))
	assert.True(t, r.IsSubstanceA(long[:80]))
}
