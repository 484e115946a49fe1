package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"movierental/internal/domain"

	"github.com/jmoiron/sqlx"
)

type RentalRepo struct{ db *sqlx.DB }

func NewRentalRepo(db *sqlx.DB) *RentalRepo { return &RentalRepo{db: db} }

// OpenFor returns the open rental (returned_at still NULL) for a (movie, user)
// pair, or nil when there is none. There is at most one by schema.
func (r *RentalRepo) OpenFor(q sqlx.Queryer, movieID, userID string) (*domain.Rental, error) {
	var rent domain.Rental
	err := sqlx.Get(q, &rent, `
	  SELECT id, movie_id, user_id, created_at, expected_return_date, returned_at
	  FROM rentals
	  WHERE movie_id = ? AND user_id = ? AND returned_at IS NULL
	`, movieID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query open rental: %w", err)
	}
	return &rent, nil
}

func (r *RentalRepo) Create(e sqlx.Execer, rent domain.Rental) error {
	_, err := e.Exec(`
	  INSERT INTO rentals(id, movie_id, user_id, created_at, expected_return_date)
	  VALUES(?, ?, ?, ?, ?)
	`, rent.ID, rent.MovieID, rent.UserID, rent.CreatedAt, rent.ExpectedReturnDate)
	if err != nil {
		return fmt.Errorf("insert rental: %w", err)
	}
	return nil
}

// Close stamps returned_at, ending the loan.
func (r *RentalRepo) Close(e sqlx.Execer, id, returnedAt string) error {
	res, err := e.Exec(`UPDATE rentals SET returned_at=? WHERE id=? AND returned_at IS NULL`, returnedAt, id)
	if err != nil {
		return fmt.Errorf("close rental: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("rental %s already closed", id)
	}
	return nil
}

// ---------- Admin listing ----------

type RentalRow struct {
	ID                 string         `db:"id"`
	MovieID            string         `db:"movie_id"`
	Title              string         `db:"title"`
	UserID             string         `db:"user_id"`
	CreatedAt          string         `db:"created_at"`
	ExpectedReturnDate string         `db:"expected_return_date"`
	ReturnedAt         sql.NullString `db:"returned_at"`
}

func (r *RentalRepo) ListLatest(limit int) ([]RentalRow, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []RentalRow
	err := r.db.Select(&out, `
	  SELECT rt.id, rt.movie_id, m.title, rt.user_id, rt.created_at, rt.expected_return_date, rt.returned_at
	  FROM rentals rt
	  JOIN movies m ON m.id = rt.movie_id
	  ORDER BY datetime(rt.created_at) DESC
	  LIMIT ?
	`, limit)
	return out, err
}
