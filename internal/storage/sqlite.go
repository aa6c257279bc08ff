package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/meur/teamforge/internal/models"
)

// Store handles all database operations
type Store struct {
	db *sql.DB
}

// New creates a new Store with SQLite
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// --- Investments ---

// UpsertInvestment creates or replaces the investment record of a unit
func (s *Store) UpsertInvestment(inv *models.UserCharacterInvestment) error {
	if err := inv.Validate(); err != nil {
		return err
	}
	inv.UpdatedAt = time.Now().UTC()

	_, err := s.db.Exec(`
		INSERT INTO investments (unit_id, ownership, eidolon, light_cone_id, superimposition, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(unit_id) DO UPDATE SET
			ownership = excluded.ownership,
			eidolon = excluded.eidolon,
			light_cone_id = excluded.light_cone_id,
			superimposition = excluded.superimposition,
			updated_at = excluded.updated_at
	`, inv.UnitID, inv.Ownership, inv.Eidolon, inv.LightConeID, inv.Superimposition, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert investment %s: %w", inv.UnitID, err)
	}
	return nil
}

// BulkUpsertInvestments writes several investments in a transaction
func (s *Store) BulkUpsertInvestments(invs []models.UserCharacterInvestment) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO investments (unit_id, ownership, eidolon, light_cone_id, superimposition, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := range invs {
		inv := &invs[i]
		if err := inv.Validate(); err != nil {
			return fmt.Errorf("investment %d: %w", i, err)
		}
		inv.UpdatedAt = now
		if _, err := stmt.Exec(inv.UnitID, inv.Ownership, inv.Eidolon, inv.LightConeID, inv.Superimposition, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetInvestment returns the investment of a unit, or nil if none is stored
func (s *Store) GetInvestment(unitID string) (*models.UserCharacterInvestment, error) {
	var inv models.UserCharacterInvestment
	err := s.db.QueryRow(`
		SELECT unit_id, ownership, eidolon, light_cone_id, superimposition, updated_at
		FROM investments WHERE unit_id = ?
	`, unitID).Scan(&inv.UnitID, &inv.Ownership, &inv.Eidolon, &inv.LightConeID, &inv.Superimposition, &inv.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListInvestments returns every stored investment ordered by unit id
func (s *Store) ListInvestments() ([]models.UserCharacterInvestment, error) {
	rows, err := s.db.Query(`
		SELECT unit_id, ownership, eidolon, light_cone_id, superimposition, updated_at
		FROM investments ORDER BY unit_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invs []models.UserCharacterInvestment
	for rows.Next() {
		var inv models.UserCharacterInvestment
		if err := rows.Scan(&inv.UnitID, &inv.Ownership, &inv.Eidolon, &inv.LightConeID, &inv.Superimposition, &inv.UpdatedAt); err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}

// DeleteInvestment removes a unit from the roster. It reports whether a row existed.
func (s *Store) DeleteInvestment(unitID string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM investments WHERE unit_id = ?`, unitID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// LoadRoster snapshots every investment into a models.Roster
func (s *Store) LoadRoster() (models.Roster, error) {
	invs, err := s.ListInvestments()
	if err != nil {
		return nil, err
	}
	roster := make(models.Roster, len(invs))
	for _, inv := range invs {
		roster[inv.UnitID] = inv
	}
	return roster, nil
}
