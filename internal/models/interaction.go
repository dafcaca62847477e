package models

// InteractionRecord is one substance pair of the ANSM Thésaurus with its severity.
// NatureRisque and ConduiteATenir are empty when absent; ConduiteATenir is only
// ever filled by the table layout.
type InteractionRecord struct {
	SubstanceA       string          `csv:"substance_a" json:"substance_a" yaml:"substance_a"`
	SubstanceB       string          `csv:"substance_b" json:"substance_b" yaml:"substance_b"`
	NiveauContrainte ConstraintLevel `csv:"niveau_contrainte" json:"niveau_contrainte" yaml:"niveau_contrainte"`
	NatureRisque     string          `csv:"nature_risque" json:"nature_risque,omitempty" yaml:"nature_risque,omitempty"`
	ConduiteATenir   string          `csv:"conduite_a_tenir" json:"conduite_a_tenir,omitempty" yaml:"conduite_a_tenir,omitempty"`
}

// MembershipSource tells where a class membership came from.
type MembershipSource string

const (
	SourceParenthetical MembershipSource = "parenthetical"
	SourceVoirAussi     MembershipSource = "voir_aussi"
)

// ClassMembershipRecord maps a substance name to a class the thesaurus indexes by.
// For SourceVoirAussi records SubstanceDCI is the normalized referencing header and
// ClasseANSM the referenced class: a directed hint, not an equivalence.
type ClassMembershipRecord struct {
	SubstanceDCI string           `csv:"substance_dci" json:"substance_dci" yaml:"substance_dci"`
	ClasseANSM   string           `csv:"classe_ansm" json:"classe_ansm" yaml:"classe_ansm"`
	Source       MembershipSource `csv:"source" json:"source" yaml:"source"`
}
