package repos

import (
	"fmt"

	"movierental/internal/domain"

	"github.com/jmoiron/sqlx"
)

type MovieRepo struct{ db *sqlx.DB }

func NewMovieRepo(db *sqlx.DB) *MovieRepo { return &MovieRepo{db: db} }

const movieCols = `id, title, stock, availability, sale_price, rental_price,
	  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *MovieRepo) List(limit, offset int) ([]domain.Movie, error) {
	var out []domain.Movie
	err := r.db.Select(&out, `
	  SELECT `+movieCols+`
	  FROM movies
	  ORDER BY LOWER(title)
	  LIMIT ? OFFSET ?
	`, limit, offset)
	return out, err
}

// GetOn reads a movie on q, which may be the base DB or an open transaction.
// Store operations read on their own transaction so the row they check is the
// row they mutate.
func (r *MovieRepo) GetOn(q sqlx.Queryer, id string) (domain.Movie, error) {
	var m domain.Movie
	err := sqlx.Get(q, &m, `SELECT `+movieCols+` FROM movies WHERE id = ?`, id)
	return m, err
}

func (r *MovieRepo) Get(id string) (domain.Movie, error) { return r.GetOn(r.db, id) }

// Decrement takes one unit off stock and drops availability the moment stock
// hits zero. The WHERE guard keeps stock non-negative: zero rows affected
// means there was nothing left to sell (or no such movie).
func (r *MovieRepo) Decrement(e sqlx.Execer, id string) (bool, error) {
	res, err := e.Exec(`
		UPDATE movies
		SET stock = stock - 1,
		    availability = CASE WHEN stock - 1 = 0 THEN 0 ELSE availability END,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock > 0
	`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Increment puts one unit back and restores availability (stock is now >= 1).
func (r *MovieRepo) Increment(e sqlx.Execer, id string) error {
	res, err := e.Exec(`
		UPDATE movies
		SET stock = stock + 1, availability = 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("movie %s not found", id)
	}
	return nil
}

// ---------- Admin CRUD ----------

func (r *MovieRepo) Create(m domain.Movie) error {
	_, err := r.db.Exec(`
	  INSERT INTO movies(id, title, stock, availability, sale_price, rental_price, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, m.ID, m.Title, m.Stock, m.Availability, m.SalePrice, m.RentalPrice)
	return err
}

func (r *MovieRepo) Update(m domain.Movie) error {
	res, err := r.db.Exec(`
	  UPDATE movies
	  SET title=?, stock=?, availability=?, sale_price=?, rental_price=?, updated_at=CURRENT_TIMESTAMP
	  WHERE id=?
	`, m.Title, m.Stock, m.Availability, m.SalePrice, m.RentalPrice, m.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("movie %s not found", m.ID)
	}
	return nil
}

func (r *MovieRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM movies WHERE id=?`, id)
	return err
}
