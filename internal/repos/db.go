package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline data if DB is empty (movies)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure users exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Movies
CREATE TABLE IF NOT EXISTS movies(
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  availability INTEGER NOT NULL DEFAULT 1,
  sale_price NUMERIC NOT NULL CHECK (sale_price >= 0),
  rental_price NUMERIC NOT NULL CHECK (rental_price >= 0),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_movies_title ON movies(LOWER(title));

-- Rentals
CREATE TABLE IF NOT EXISTS rentals(
  id TEXT PRIMARY KEY,
  movie_id TEXT NOT NULL REFERENCES movies(id) ON DELETE RESTRICT,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  expected_return_date TEXT NOT NULL,   -- date only, YYYY-MM-DD
  returned_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_rentals_movie ON rentals(movie_id);
CREATE INDEX IF NOT EXISTS idx_rentals_user  ON rentals(user_id);
-- One open rental per (movie, user); backstops the in-transaction check.
CREATE UNIQUE INDEX IF NOT EXISTS idx_rentals_open
  ON rentals(movie_id, user_id) WHERE returned_at IS NULL;

-- Ledger (append-only; no UPDATE or DELETE is ever issued against it)
CREATE TABLE IF NOT EXISTS ledger(
  id TEXT PRIMARY KEY,
  reason TEXT NOT NULL CHECK (reason IN ('PURCHASE','RENTAL','PENALTY')),
  amount NUMERIC NOT NULL,
  user_id TEXT NOT NULL,
  movie_id TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_ledger_movie ON ledger(movie_id);
CREATE INDEX IF NOT EXISTS idx_ledger_user  ON ledger(user_id);

-- Movie change log (admin edits to tracked fields)
CREATE TABLE IF NOT EXISTS movie_logs(
  id TEXT PRIMARY KEY,
  movie_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  field TEXT NOT NULL,
  old_value TEXT,
  new_value TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_movie_logs_movie ON movie_logs(movie_id);

-- Likes
CREATE TABLE IF NOT EXISTS likes(
  movie_id TEXT NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (movie_id, user_id)
);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM movies`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo movies")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO movies(id,title,stock,availability,sale_price,rental_price) VALUES
	  ('mv-heat','Heat',4,1,14.99,3.00),
	  ('mv-alien','Alien',2,1,12.50,2.50),
	  ('mv-matrix','The Matrix',1,1,19.99,3.50),
	  ('mv-brazil','Brazil',0,0,9.99,2.00)`)

	return tx.Commit()
}

// seedUsers ensures two USERs and one ADMIN exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-alice", "alice@movierental.test", "Alice", "USER", "Passw0rd!"),
		mk("u-bob", "bob@movierental.test", "Bob", "USER", "Passw0rd!"),
		mk("u-admin", "admin@movierental.test", "Admin", "ADMIN", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
