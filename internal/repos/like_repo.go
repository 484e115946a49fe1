package repos

import "github.com/jmoiron/sqlx"

type LikeRepo struct{ db *sqlx.DB }

func NewLikeRepo(db *sqlx.DB) *LikeRepo { return &LikeRepo{db: db} }

func (r *LikeRepo) Add(movieID, userID string) error {
	_, err := r.db.Exec(`
	  INSERT INTO likes(movie_id, user_id, created_at)
	  VALUES(?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(movie_id, user_id) DO NOTHING
	`, movieID, userID)
	return err
}

func (r *LikeRepo) Remove(movieID, userID string) error {
	_, err := r.db.Exec(`DELETE FROM likes WHERE movie_id=? AND user_id=?`, movieID, userID)
	return err
}

func (r *LikeRepo) Count(movieID string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM likes WHERE movie_id=?`, movieID)
	return n, err
}
