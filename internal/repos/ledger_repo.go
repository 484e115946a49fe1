package repos

import (
	"fmt"

	"movierental/internal/domain"

	"github.com/jmoiron/sqlx"
)

// LedgerRepo appends to the ledger table. Entries ride on the caller's
// transaction and are never updated or deleted.
type LedgerRepo struct{ db *sqlx.DB }

func NewLedgerRepo(db *sqlx.DB) *LedgerRepo { return &LedgerRepo{db: db} }

func (r *LedgerRepo) Append(e sqlx.Execer, entry domain.LedgerEntry) error {
	_, err := e.Exec(`
	  INSERT INTO ledger(id, reason, amount, user_id, movie_id, created_at)
	  VALUES(?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Reason, entry.Amount, entry.UserID, entry.MovieID, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// ---------- Admin listing ----------

func (r *LedgerRepo) ListLatest(limit int) ([]domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.LedgerEntry
	err := r.db.Select(&out, `
	  SELECT id, reason, amount, user_id, movie_id, created_at
	  FROM ledger
	  ORDER BY datetime(created_at) DESC
	  LIMIT ?
	`, limit)
	return out, err
}

func (r *LedgerRepo) ListByMovie(movieID string) ([]domain.LedgerEntry, error) {
	var out []domain.LedgerEntry
	err := r.db.Select(&out, `
	  SELECT id, reason, amount, user_id, movie_id, created_at
	  FROM ledger
	  WHERE movie_id = ?
	  ORDER BY datetime(created_at)
	`, movieID)
	return out, err
}
