package services

import (
	"database/sql"
	"errors"
	"time"

	"movierental/internal/domain"
	"movierental/internal/repos"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Messages surfaced to callers on business outcomes.
const (
	MsgAlreadyRented = "This movie is already rented"
	MsgNoRental      = "Not rental found"
	MsgLatePenalty   = "You were penalized for late return"
	MsgMovieMissing  = "Movie not found"
)

// StoreService executes buy, rent and return as single transactions over the
// movies, rentals and ledger tables. Every precondition (stock, duplicate
// rental, open-rental lookup) is checked inside the same transaction as the
// writes it guards, so concurrent calls cannot oversell the last copy or open
// two rentals for one (user, movie) pair.
type StoreService struct {
	DB      *sqlx.DB
	Movies  *repos.MovieRepo
	Rentals *repos.RentalRepo
	Ledger  *repos.LedgerRepo

	LoanWeeks int     // loan period for rentals
	Penalty   float64 // charged when a rental comes back late

	Now func() time.Time // injectable clock
}

func NewStoreService(db *sqlx.DB, movies *repos.MovieRepo, rentals *repos.RentalRepo, ledger *repos.LedgerRepo) *StoreService {
	return &StoreService{
		DB:        db,
		Movies:    movies,
		Rentals:   rentals,
		Ledger:    ledger,
		LoanWeeks: 2,
		Penalty:   5.0,
		Now:       time.Now,
	}
}

// Buy sells one copy of a movie to the actor: stock goes down by one,
// availability drops when the last copy goes, and a PURCHASE ledger entry is
// written. All of it commits or none of it does.
func (s *StoreService) Buy(movieID, actorID string) domain.Outcome {
	tx, err := s.DB.Beginx()
	if err != nil {
		return domain.Failed()
	}
	defer func() { _ = tx.Rollback() }()

	movie, err := s.Movies.GetOn(tx, movieID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Rejected(MsgMovieMissing)
	}
	if err != nil {
		return domain.Failed()
	}
	if movie.Stock <= 0 {
		return domain.NoStock()
	}

	ok, err := s.Movies.Decrement(tx, movieID)
	if err != nil {
		return domain.Failed()
	}
	if !ok {
		return domain.NoStock()
	}

	if err := s.Ledger.Append(tx, s.entry(domain.ReasonPurchase, movie.SalePrice, actorID, movieID)); err != nil {
		return domain.Failed()
	}

	if err := tx.Commit(); err != nil {
		return domain.Failed()
	}
	return domain.OK()
}

// Rent loans one copy of a movie to the actor for LoanWeeks. An actor cannot
// hold two open rentals for the same movie.
func (s *StoreService) Rent(movieID, actorID string) domain.Outcome {
	tx, err := s.DB.Beginx()
	if err != nil {
		return domain.Failed()
	}
	defer func() { _ = tx.Rollback() }()

	movie, err := s.Movies.GetOn(tx, movieID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Rejected(MsgMovieMissing)
	}
	if err != nil {
		return domain.Failed()
	}

	// Duplicate check comes before the stock check: an actor who already
	// holds this movie is told so even when the shelf is empty.
	open, err := s.Rentals.OpenFor(tx, movieID, actorID)
	if err != nil {
		return domain.Failed()
	}
	if open != nil {
		return domain.Rejected(MsgAlreadyRented)
	}

	if movie.Stock <= 0 {
		return domain.NoStock()
	}

	ok, err := s.Movies.Decrement(tx, movieID)
	if err != nil {
		return domain.Failed()
	}
	if !ok {
		return domain.NoStock()
	}

	if err := s.Ledger.Append(tx, s.entry(domain.ReasonRental, movie.RentalPrice, actorID, movieID)); err != nil {
		return domain.Failed()
	}

	now := s.Now().UTC()
	if err := s.Rentals.Create(tx, domain.Rental{
		ID:                 uuid.NewString(),
		MovieID:            movieID,
		UserID:             actorID,
		CreatedAt:          now.Format(time.RFC3339),
		ExpectedReturnDate: now.AddDate(0, 0, 7*s.LoanWeeks).Format(time.DateOnly),
	}); err != nil {
		return domain.Failed()
	}

	if err := tx.Commit(); err != nil {
		return domain.Failed()
	}
	return domain.OK()
}

// Return closes the actor's open rental: stock goes back up, availability is
// restored, and a PENALTY ledger entry is written if the movie comes back
// after its expected return date. Lateness is a calendar-day comparison, not
// a timestamp one.
func (s *StoreService) Return(movieID, actorID string) domain.Outcome {
	tx, err := s.DB.Beginx()
	if err != nil {
		return domain.Failed()
	}
	defer func() { _ = tx.Rollback() }()

	open, err := s.Rentals.OpenFor(tx, movieID, actorID)
	if err != nil {
		return domain.Failed()
	}
	if open == nil {
		return domain.Rejected(MsgNoRental)
	}

	if err := s.Movies.Increment(tx, movieID); err != nil {
		return domain.Failed()
	}

	now := s.Now().UTC()
	if err := s.Rentals.Close(tx, open.ID, now.Format(time.RFC3339)); err != nil {
		return domain.Failed()
	}

	out := domain.OK()
	due, err := time.ParseInLocation(time.DateOnly, open.ExpectedReturnDate, time.UTC)
	if err != nil {
		return domain.Failed()
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if due.Before(today) {
		if err := s.Ledger.Append(tx, s.entry(domain.ReasonPenalty, s.Penalty, actorID, movieID)); err != nil {
			return domain.Failed()
		}
		out = domain.Warning(MsgLatePenalty)
	}

	if err := tx.Commit(); err != nil {
		return domain.Failed()
	}
	return out
}

func (s *StoreService) entry(reason string, amount float64, actorID, movieID string) domain.LedgerEntry {
	return domain.LedgerEntry{
		ID:        uuid.NewString(),
		Reason:    reason,
		Amount:    amount,
		UserID:    actorID,
		MovieID:   movieID,
		CreatedAt: s.Now().UTC().Format(time.RFC3339),
	}
}
