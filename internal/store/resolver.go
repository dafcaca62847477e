package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"nephila/thesaurus/internal/logging"
	"nephila/thesaurus/internal/models"
	"nephila/thesaurus/internal/textutils"
)

// MaxInteractions bounds the result of FindInteractions.
const MaxInteractions = 10

// ResolveClasses returns the interaction classes a substance belongs to,
// according to the parenthetical member lists of the thesaurus. When no
// class is known the substance itself is returned.
func (s *Store) ResolveClasses(ctx context.Context, substance string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT classe_ansm
		FROM raw_ansm_substance_class
		WHERE source = ? AND substance_dci = ?
		ORDER BY classe_ansm`,
		string(models.SourceParenthetical), textutils.Normalize(substance))
	if err != nil {
		return nil, fmt.Errorf("resolving classes of %s: %w", substance, err)
	}
	defer rows.Close()

	var classes []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scanning class: %w", err)
		}
		classes = append(classes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating classes: %w", err)
	}

	if len(classes) == 0 {
		return []string{substance}, nil
	}
	s.logger.Debug("Resolved substance classes",
		logging.Field{Key: "substance", Value: substance},
		logging.Field{Key: logging.FieldCount, Value: len(classes)})
	return classes, nil
}

// FindInteractions returns the interactions between two substances, most
// severe first. Each side matches the substance name or any of its classes,
// in either column order, by accent and case insensitive substring.
func (s *Store) FindInteractions(ctx context.Context, a, b string) ([]models.InteractionRecord, error) {
	namesA, err := s.searchNames(ctx, a)
	if err != nil {
		return nil, err
	}
	namesB, err := s.searchNames(ctx, b)
	if err != nil {
		return nil, err
	}

	var (
		conds []string
		args  []any
	)
	for _, na := range namesA {
		for _, nb := range namesB {
			pa, pb := likePattern(na), likePattern(nb)
			conds = append(conds,
				`(substance_a_norm LIKE ? ESCAPE '\' AND substance_b_norm LIKE ? ESCAPE '\')`,
				`(substance_a_norm LIKE ? ESCAPE '\' AND substance_b_norm LIKE ? ESCAPE '\')`)
			args = append(args, pa, pb, pb, pa)
		}
	}

	query := `
		SELECT substance_a, substance_b, niveau_contrainte, nature_risque, conduite_a_tenir
		FROM raw_ansm_interaction
		WHERE ` + strings.Join(conds, " OR ") + `
		ORDER BY severity_rank, id
		LIMIT ?`
	args = append(args, MaxInteractions)

	return s.queryInteractions(ctx, query, args...)
}

// InteractionsFor returns every interaction involving the substance or one
// of its classes, most severe first.
func (s *Store) InteractionsFor(ctx context.Context, substance string) ([]models.InteractionRecord, error) {
	names, err := s.searchNames(ctx, substance)
	if err != nil {
		return nil, err
	}

	var (
		conds []string
		args  []any
	)
	for _, n := range names {
		p := likePattern(n)
		conds = append(conds, `substance_a_norm LIKE ? ESCAPE '\' OR substance_b_norm LIKE ? ESCAPE '\'`)
		args = append(args, p, p)
	}

	query := `
		SELECT substance_a, substance_b, niveau_contrainte, nature_risque, conduite_a_tenir
		FROM raw_ansm_interaction
		WHERE ` + strings.Join(conds, " OR ") + `
		ORDER BY severity_rank, id`

	return s.queryInteractions(ctx, query, args...)
}

// searchNames returns the normalized, deduplicated names a substance is
// searched under: itself plus its classes.
func (s *Store) searchNames(ctx context.Context, substance string) ([]string, error) {
	classes, err := s.ResolveClasses(ctx, substance)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(classes)+1)
	var names []string
	for _, n := range append([]string{substance}, classes...) {
		norm := textutils.Normalize(n)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		names = append(names, norm)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("substance name is empty")
	}
	return names, nil
}

func (s *Store) queryInteractions(ctx context.Context, query string, args ...any) ([]models.InteractionRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying interactions: %w", err)
	}
	defer rows.Close()

	var out []models.InteractionRecord
	for rows.Next() {
		var (
			r               models.InteractionRecord
			level           string
			nature, conduct sql.NullString
		)
		if err := rows.Scan(&r.SubstanceA, &r.SubstanceB, &level, &nature, &conduct); err != nil {
			return nil, fmt.Errorf("scanning interaction: %w", err)
		}
		r.NiveauContrainte = models.ConstraintLevel(level)
		r.NatureRisque = nature.String
		r.ConduiteATenir = conduct.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating interactions: %w", err)
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
