package domain

import "database/sql"

// Ledger entry reasons.
const (
	ReasonPurchase = "PURCHASE"
	ReasonRental   = "RENTAL"
	ReasonPenalty  = "PENALTY"
)

type Movie struct {
	ID           string  `db:"id"`
	Title        string  `db:"title"`
	Stock        int     `db:"stock"`
	Availability bool    `db:"availability"`
	SalePrice    float64 `db:"sale_price"`
	RentalPrice  float64 `db:"rental_price"`
	CreatedAt    string  `db:"created_at"`
	UpdatedAt    string  `db:"updated_at"`
}

type Rental struct {
	ID        string `db:"id"`
	MovieID   string `db:"movie_id"`
	UserID    string `db:"user_id"`
	CreatedAt string `db:"created_at"`
	// Date-only (YYYY-MM-DD); lateness is judged against the calendar day,
	// not the timestamp.
	ExpectedReturnDate string         `db:"expected_return_date"`
	ReturnedAt         sql.NullString `db:"returned_at"`
}

// LedgerEntry is an immutable record of a stock-affecting financial event.
// Rows are only ever inserted, inside the transaction that caused them.
type LedgerEntry struct {
	ID        string  `db:"id"`
	Reason    string  `db:"reason"` // PURCHASE | RENTAL | PENALTY
	Amount    float64 `db:"amount"`
	UserID    string  `db:"user_id"`
	MovieID   string  `db:"movie_id"`
	CreatedAt string  `db:"created_at"`
}

// MovieChange records one field edit on a movie, attributed to the admin who
// made it.
type MovieChange struct {
	MovieID  string `db:"movie_id"`
	UserID   string `db:"user_id"`
	Field    string `db:"field"`
	OldValue string `db:"old_value"`
	NewValue string `db:"new_value"`
}
