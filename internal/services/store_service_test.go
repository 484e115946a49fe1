package services_test

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"movierental/internal/domain"
	"movierental/internal/repos"
	"movierental/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	schema := `
	CREATE TABLE movies(
	  id TEXT PRIMARY KEY, title TEXT, stock INTEGER NOT NULL CHECK (stock >= 0),
	  availability INTEGER NOT NULL DEFAULT 1, sale_price NUMERIC, rental_price NUMERIC,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT);
	CREATE TABLE rentals(
	  id TEXT PRIMARY KEY, movie_id TEXT, user_id TEXT,
	  created_at TEXT, expected_return_date TEXT, returned_at TEXT);
	CREATE UNIQUE INDEX idx_rentals_open ON rentals(movie_id, user_id) WHERE returned_at IS NULL;
	CREATE TABLE ledger(
	  id TEXT PRIMARY KEY, reason TEXT, amount NUMERIC,
	  user_id TEXT, movie_id TEXT, created_at TEXT);

	INSERT INTO movies(id,title,stock,availability,sale_price,rental_price) VALUES
	  ('mv-matrix','The Matrix',1,1,19.99,3.00),
	  ('mv-heat','Heat',2,1,14.99,2.50),
	  ('mv-brazil','Brazil',0,0,9.99,2.00);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

func newStore(t *testing.T, db *sqlx.DB) *services.StoreService {
	t.Helper()
	return services.NewStoreService(db,
		repos.NewMovieRepo(db), repos.NewRentalRepo(db), repos.NewLedgerRepo(db))
}

func getMovie(t *testing.T, db *sqlx.DB, id string) domain.Movie {
	t.Helper()
	m, err := repos.NewMovieRepo(db).Get(id)
	if err != nil {
		t.Fatalf("get movie %s: %v", id, err)
	}
	return m
}

func ledgerFor(t *testing.T, db *sqlx.DB, movieID string) []domain.LedgerEntry {
	t.Helper()
	entries, err := repos.NewLedgerRepo(db).ListByMovie(movieID)
	if err != nil {
		t.Fatalf("list ledger: %v", err)
	}
	return entries
}

func TestBuy_NoStockLeavesStateUntouched(t *testing.T) {
	db := memdb(t)
	svc := newStore(t, db)

	out := svc.Buy("mv-brazil", "u-alice")
	if out.Kind != domain.OutcomeNoStock {
		t.Fatalf("want no-stock outcome, got %+v", out)
	}

	m := getMovie(t, db, "mv-brazil")
	if m.Stock != 0 || m.Availability {
		t.Fatalf("state changed on no-stock buy: %+v", m)
	}
	if n := len(ledgerFor(t, db, "mv-brazil")); n != 0 {
		t.Fatalf("ledger written on no-stock buy: %d entries", n)
	}
}

func TestBuy_DecrementsStockAndWritesLedger(t *testing.T) {
	db := memdb(t)
	svc := newStore(t, db)

	out := svc.Buy("mv-heat", "u-alice")
	if out.Kind != domain.OutcomeOK {
		t.Fatalf("want ok, got %+v", out)
	}
	m := getMovie(t, db, "mv-heat")
	if m.Stock != 1 || !m.Availability {
		t.Fatalf("after first buy: %+v", m)
	}

	// Second buy takes the last copy and drops availability.
	if out := svc.Buy("mv-heat", "u-bob"); out.Kind != domain.OutcomeOK {
		t.Fatalf("want ok, got %+v", out)
	}
	m = getMovie(t, db, "mv-heat")
	if m.Stock != 0 || m.Availability {
		t.Fatalf("after last-copy buy: %+v", m)
	}

	entries := ledgerFor(t, db, "mv-heat")
	if len(entries) != 2 {
		t.Fatalf("want 2 ledger entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Reason != domain.ReasonPurchase || e.Amount != 14.99 {
			t.Fatalf("bad ledger entry: %+v", e)
		}
	}
}

func TestBuy_UnknownMovieRejected(t *testing.T) {
	db := memdb(t)
	svc := newStore(t, db)

	out := svc.Buy("mv-nope", "u-alice")
	if out.Kind != domain.OutcomeRejected || out.Message != services.MsgMovieMissing {
		t.Fatalf("want rejected movie-missing, got %+v", out)
	}
}

func TestBuy_RollsBackWhenLedgerWriteFails(t *testing.T) {
	db := memdb(t)
	svc := newStore(t, db)

	// Simulate the store failing mid-transaction, after the decrement.
	if _, err := db.Exec(`DROP TABLE ledger`); err != nil {
		t.Fatal(err)
	}

	out := svc.Buy("mv-matrix", "u-alice")
	if out.Kind != domain.OutcomeFailed {
		t.Fatalf("want failed outcome, got %+v", out)
	}

	m := getMovie(t, db, "mv-matrix")
	if m.Stock != 1 || !m.Availability {
		t.Fatalf("partial write visible after rollback: %+v", m)
	}
}

func TestRent_CreatesOpenRentalWithDueDate(t *testing.T) {
	db := memdb(t)
	svc := newStore(t, db)
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	out := svc.Rent("mv-matrix", "u-alice")
	if out.Kind != domain.OutcomeOK {
		t.Fatalf("want ok, got %+v", out)
	}

	m := getMovie(t, db, "mv-matrix")
	if m.Stock != 0 || m.Availability {
		t.Fatalf("after renting the last copy: %+v", m)
	}

	open, err := repos.NewRentalRepo(db).OpenFor(db, "mv-matrix", "u-alice")
	if err != nil {
		t.Fatal(err)
	}
	if open == nil {
		t.Fatal("no open rental created")
	}
	if open.ExpectedReturnDate != "2026-03-24" {
		t.Fatalf("want due date 2026-03-24 (now+2w), got %s", open.ExpectedReturnDate)
	}

	entries := ledgerFor(t, db, "mv-matrix")
	if len(entries) != 1 || entries[0].Reason != domain.ReasonRental || entries[0].Amount != 3.00 {
		t.Fatalf("bad ledger after rent: %+v", entries)
	}
}

func TestRent_DuplicateRejectedEvenWithoutStock(t *testing.T) {
	db := memdb(t)
	svc := newStore(t, db)

	if out := svc.Rent("mv-matrix", "u-alice"); out.Kind != domain.OutcomeOK {
		t.Fatalf("first rent: %+v", out)
	}

	// Stock is now 0, but the actor already holds the movie: they get the
	// duplicate message, not the no-stock one.
	out := svc.Rent("mv-matrix", "u-alice")
	if out.Kind != domain.OutcomeRejected || out.Message != services.MsgAlreadyRented {
		t.Fatalf("want duplicate rejection, got %+v", out)
	}

	m := getMovie(t, db, "mv-matrix")
	if m.Stock != 0 || m.Availability {
		t.Fatalf("duplicate rent mutated state: %+v", m)
	}
	if n := len(ledgerFor(t, db, "mv-matrix")); n != 1 {
		t.Fatalf("duplicate rent wrote ledger: %d entries", n)
	}
}

func TestRent_NoStockForOtherActor(t *testing.T) {
	db := memdb(t)
	svc := newStore(t, db)

	if out := svc.Rent("mv-matrix", "u-alice"); out.Kind != domain.OutcomeOK {
		t.Fatalf("first rent: %+v", out)
	}
	out := svc.Rent("mv-matrix", "u-bob")
	if out.Kind != domain.OutcomeNoStock {
		t.Fatalf("want no-stock for second actor, got %+v", out)
	}
}

func TestReturn_NoRentalFound(t *testing.T) {
	db := memdb(t)
	svc := newStore(t, db)

	out := svc.Return("mv-matrix", "u-alice")
	if out.Kind != domain.OutcomeRejected || out.Message != services.MsgNoRental {
		t.Fatalf("want not-found rejection, got %+v", out)
	}
	m := getMovie(t, db, "mv-matrix")
	if m.Stock != 1 {
		t.Fatalf("return without rental mutated stock: %+v", m)
	}
}

func TestRentThenReturn_RoundTrip(t *testing.T) {
	db := memdb(t)
	svc := newStore(t, db)
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	if out := svc.Rent("mv-matrix", "u-alice"); out.Kind != domain.OutcomeOK {
		t.Fatalf("rent: %+v", out)
	}

	// Return well before the due date: plain success, no penalty.
	now = now.AddDate(0, 0, 3)
	out := svc.Return("mv-matrix", "u-alice")
	if out.Kind != domain.OutcomeOK {
		t.Fatalf("want plain ok, got %+v", out)
	}

	m := getMovie(t, db, "mv-matrix")
	if m.Stock != 1 || !m.Availability {
		t.Fatalf("round trip did not restore state: %+v", m)
	}

	open, err := repos.NewRentalRepo(db).OpenFor(db, "mv-matrix", "u-alice")
	if err != nil {
		t.Fatal(err)
	}
	if open != nil {
		t.Fatalf("rental still open after return: %+v", open)
	}

	entries := ledgerFor(t, db, "mv-matrix")
	if len(entries) != 1 || entries[0].Reason != domain.ReasonRental {
		t.Fatalf("want exactly one RENTAL entry, got %+v", entries)
	}
}

func TestReturn_OnDueDateIsNotLate(t *testing.T) {
	db := memdb(t)
	svc := newStore(t, db)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	if out := svc.Rent("mv-matrix", "u-alice"); out.Kind != domain.OutcomeOK {
		t.Fatalf("rent: %+v", out)
	}

	// Due 2026-03-24; returning late in the evening of that same day is fine.
	now = time.Date(2026, 3, 24, 23, 0, 0, 0, time.UTC)
	out := svc.Return("mv-matrix", "u-alice")
	if out.Kind != domain.OutcomeOK {
		t.Fatalf("want ok on due date, got %+v", out)
	}
	for _, e := range ledgerFor(t, db, "mv-matrix") {
		if e.Reason == domain.ReasonPenalty {
			t.Fatalf("penalty charged on due date: %+v", e)
		}
	}
}

func TestReturn_LateChargesPenalty(t *testing.T) {
	db := memdb(t)
	svc := newStore(t, db)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	if out := svc.Rent("mv-matrix", "u-alice"); out.Kind != domain.OutcomeOK {
		t.Fatalf("rent: %+v", out)
	}

	// One day past the due date.
	now = time.Date(2026, 3, 25, 0, 30, 0, 0, time.UTC)
	out := svc.Return("mv-matrix", "u-alice")
	if out.Kind != domain.OutcomeWarning || out.Message != services.MsgLatePenalty {
		t.Fatalf("want penalty warning, got %+v", out)
	}

	m := getMovie(t, db, "mv-matrix")
	if m.Stock != 1 || !m.Availability {
		t.Fatalf("late return did not restore stock: %+v", m)
	}

	var penalties []domain.LedgerEntry
	for _, e := range ledgerFor(t, db, "mv-matrix") {
		if e.Reason == domain.ReasonPenalty {
			penalties = append(penalties, e)
		}
	}
	if len(penalties) != 1 || penalties[0].Amount != 5.00 || penalties[0].UserID != "u-alice" {
		t.Fatalf("want one 5.00 penalty for u-alice, got %+v", penalties)
	}
}

func TestReturn_RollsBackWhenLedgerWriteFails(t *testing.T) {
	db := memdb(t)
	svc := newStore(t, db)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	if out := svc.Rent("mv-matrix", "u-alice"); out.Kind != domain.OutcomeOK {
		t.Fatalf("rent: %+v", out)
	}
	if _, err := db.Exec(`DROP TABLE ledger`); err != nil {
		t.Fatal(err)
	}

	// Late return needs a penalty entry; with the ledger gone the whole
	// operation must roll back, leaving the rental open and stock at 0.
	now = now.AddDate(0, 0, 20)
	out := svc.Return("mv-matrix", "u-alice")
	if out.Kind != domain.OutcomeFailed {
		t.Fatalf("want failed outcome, got %+v", out)
	}

	m := getMovie(t, db, "mv-matrix")
	if m.Stock != 0 || m.Availability {
		t.Fatalf("partial write visible after rollback: %+v", m)
	}
	open, err := repos.NewRentalRepo(db).OpenFor(db, "mv-matrix", "u-alice")
	if err != nil {
		t.Fatal(err)
	}
	if open == nil {
		t.Fatal("rental closed despite rollback")
	}
}
