package repos

import (
	"movierental/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ChangeLogRepo stores per-field audit rows for admin movie edits.
type ChangeLogRepo struct{ db *sqlx.DB }

func NewChangeLogRepo(db *sqlx.DB) *ChangeLogRepo { return &ChangeLogRepo{db: db} }

func (r *ChangeLogRepo) Insert(changes []domain.MovieChange) error {
	if len(changes) == 0 {
		return nil
	}
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, ch := range changes {
		if _, err := tx.Exec(`
		  INSERT INTO movie_logs(id, movie_id, user_id, field, old_value, new_value, created_at)
		  VALUES(?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		`, uuid.NewString(), ch.MovieID, ch.UserID, ch.Field, ch.OldValue, ch.NewValue); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type ChangeRow struct {
	MovieID   string `db:"movie_id"`
	UserID    string `db:"user_id"`
	Field     string `db:"field"`
	OldValue  string `db:"old_value"`
	NewValue  string `db:"new_value"`
	CreatedAt string `db:"created_at"`
}

func (r *ChangeLogRepo) ListByMovie(movieID string) ([]ChangeRow, error) {
	var out []ChangeRow
	err := r.db.Select(&out, `
	  SELECT movie_id, user_id, field, old_value, new_value, created_at
	  FROM movie_logs
	  WHERE movie_id = ?
	  ORDER BY datetime(created_at)
	`, movieID)
	return out, err
}
