package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"nephila/thesaurus/internal/logging"
	"nephila/thesaurus/internal/models"
	"nephila/thesaurus/internal/textutils"
	"nephila/thesaurus/internal/validation"
)

// LoadInfo describes one bulk load.
type LoadInfo struct {
	LoadID   string
	Table    string
	RowCount int
	LoadedAt time.Time
}

// now is replaced in tests.
var now = time.Now

// LoadInteractions replaces the content of the raw interaction table with
// records. Every record is validated before anything is written; an empty
// slice leaves the table untouched and returns 0.
func (s *Store) LoadInteractions(ctx context.Context, records []models.InteractionRecord) (int, error) {
	logger := s.logger.WithField("table", InteractionTable)
	if len(records) == 0 {
		logger.Warn("No interaction records to load")
		return 0, nil
	}
	for i, r := range records {
		if err := validation.ValidateInteraction(r); err != nil {
			return 0, fmt.Errorf("interaction record %d: %w", i, err)
		}
	}

	loadID := uuid.NewString()
	loadedAt := now().UTC()
	start := time.Now()

	err := s.replace(ctx, InteractionTable, loadID, loadedAt, len(records), func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO raw_ansm_interaction (
				load_id, loaded_at, substance_a, substance_b, niveau_contrainte,
				nature_risque, conduite_a_tenir, substance_a_norm, substance_b_norm, severity_rank
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()

		for _, r := range records {
			if _, err := stmt.ExecContext(ctx,
				loadID, loadedAt,
				r.SubstanceA, r.SubstanceB, string(r.NiveauContrainte),
				nullString(r.NatureRisque), nullString(r.ConduiteATenir),
				textutils.Normalize(r.SubstanceA), textutils.Normalize(r.SubstanceB),
				r.NiveauContrainte.Rank(),
			); err != nil {
				return fmt.Errorf("inserting %s + %s: %w", r.SubstanceA, r.SubstanceB, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info("Loaded interaction records",
		logging.Field{Key: logging.FieldLoadID, Value: loadID},
		logging.Field{Key: logging.FieldCount, Value: len(records)},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
	return len(records), nil
}

// LoadClasses replaces the content of the raw class-membership table with
// records, with the same rules as LoadInteractions.
func (s *Store) LoadClasses(ctx context.Context, records []models.ClassMembershipRecord) (int, error) {
	logger := s.logger.WithField("table", ClassTable)
	if len(records) == 0 {
		logger.Warn("No class membership records to load")
		return 0, nil
	}
	for i, r := range records {
		if err := validation.ValidateClassMembership(r); err != nil {
			return 0, fmt.Errorf("class membership record %d: %w", i, err)
		}
	}

	loadID := uuid.NewString()
	loadedAt := now().UTC()
	start := time.Now()

	err := s.replace(ctx, ClassTable, loadID, loadedAt, len(records), func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO raw_ansm_substance_class (
				load_id, loaded_at, substance_dci, classe_ansm, source, classe_ansm_norm
			) VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()

		for _, r := range records {
			if _, err := stmt.ExecContext(ctx,
				loadID, loadedAt,
				nullString(r.SubstanceDCI), r.ClasseANSM, string(r.Source),
				textutils.Normalize(r.ClasseANSM),
			); err != nil {
				return fmt.Errorf("inserting %s -> %s: %w", r.SubstanceDCI, r.ClasseANSM, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info("Loaded class membership records",
		logging.Field{Key: logging.FieldLoadID, Value: loadID},
		logging.Field{Key: logging.FieldCount, Value: len(records)},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
	return len(records), nil
}

// replace empties table, runs insert and records the load, all in one
// transaction.
func (s *Store) replace(ctx context.Context, table, loadID string, loadedAt time.Time, rows int, insert func(*sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.logger.WithError(rbErr).Warn("Failed to roll back load")
			}
		}
	}()

	// table is one of the package constants
	if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clearing %s: %w", table, err)
	}
	if err = insert(tx); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO raw_load_log (load_id, table_name, row_count, loaded_at) VALUES (?, ?, ?, ?)`,
		loadID, table, rows, loadedAt,
	); err != nil {
		return fmt.Errorf("recording load: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing load: %w", err)
	}
	return nil
}

// LastLoad returns the most recent load into table. The second result is
// false when the table was never loaded.
func (s *Store) LastLoad(ctx context.Context, table string) (LoadInfo, bool, error) {
	var info LoadInfo
	err := s.db.QueryRowContext(ctx, `
		SELECT load_id, table_name, row_count, loaded_at
		FROM raw_load_log
		WHERE table_name = ?
		ORDER BY loaded_at DESC
		LIMIT 1`, table).Scan(&info.LoadID, &info.Table, &info.RowCount, &info.LoadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return LoadInfo{}, false, nil
	}
	if err != nil {
		return LoadInfo{}, false, fmt.Errorf("querying last load: %w", err)
	}
	return info, true, nil
}

// Counts returns the number of rows in both raw tables.
func (s *Store) Counts(ctx context.Context) (interactions, classes int, err error) {
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM raw_ansm_interaction").Scan(&interactions); err != nil {
		return 0, 0, fmt.Errorf("counting interactions: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM raw_ansm_substance_class").Scan(&classes); err != nil {
		return 0, 0, fmt.Errorf("counting class memberships: %w", err)
	}
	return interactions, classes, nil
}
