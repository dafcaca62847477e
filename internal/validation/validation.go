// Package validation checks command inputs and record invariants before
// records reach the raw layer.
package validation

import (
	"fmt"
	"os"
	"strings"

	"nephila/thesaurus/internal/models"
	"nephila/thesaurus/internal/parsererror"
)

// IsValidInputFile checks that path exists and is a regular file.
func IsValidInputFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("input file path is empty")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is not a regular file", path)
	}
	return nil
}

// IsValidOutputFormat checks if the given format is supported.
func IsValidOutputFormat(format string) error {
	switch format {
	case "csv", "yaml":
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s. Supported formats are 'csv', 'yaml'", format)
	}
}

// ValidateInteraction enforces the record invariants: both substances
// present and a canonical constraint level.
func ValidateInteraction(r models.InteractionRecord) error {
	switch {
	case strings.TrimSpace(r.SubstanceA) == "":
		return &parsererror.ValidationError{Record: describeInteraction(r), Reason: "substance_a is empty"}
	case strings.TrimSpace(r.SubstanceB) == "":
		return &parsererror.ValidationError{Record: describeInteraction(r), Reason: "substance_b is empty"}
	case !r.NiveauContrainte.Valid():
		return &parsererror.ValidationError{
			Record: describeInteraction(r),
			Reason: fmt.Sprintf("niveau_contrainte %q is not a canonical level", r.NiveauContrainte),
		}
	}
	return nil
}

// ValidateClassMembership checks a membership record. A cross reference may
// have no referencing header; a parenthetical member may not.
func ValidateClassMembership(r models.ClassMembershipRecord) error {
	desc := fmt.Sprintf("%s -> %s", r.SubstanceDCI, r.ClasseANSM)
	if strings.TrimSpace(r.ClasseANSM) == "" {
		return &parsererror.ValidationError{Record: desc, Reason: "classe_ansm is empty"}
	}
	switch r.Source {
	case models.SourceParenthetical:
		if strings.TrimSpace(r.SubstanceDCI) == "" {
			return &parsererror.ValidationError{Record: desc, Reason: "substance_dci is empty"}
		}
	case models.SourceVoirAussi:
	default:
		return &parsererror.ValidationError{Record: desc, Reason: fmt.Sprintf("unknown source %q", r.Source)}
	}
	return nil
}

func describeInteraction(r models.InteractionRecord) string {
	return fmt.Sprintf("%s + %s", r.SubstanceA, r.SubstanceB)
}
