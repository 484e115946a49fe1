package handlers

import (
	"movierental/internal/config"
	"movierental/internal/repos"
	"movierental/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	MovieHandler *MovieHandler
	AdminHandler *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	movieRepo := repos.NewMovieRepo(db)
	rentalRepo := repos.NewRentalRepo(db)
	ledgerRepo := repos.NewLedgerRepo(db)
	changeRepo := repos.NewChangeLogRepo(db)
	likeRepo := repos.NewLikeRepo(db)

	storeSvc := services.NewStoreService(db, movieRepo, rentalRepo, ledgerRepo)
	storeSvc.LoanWeeks = cfg.LoanWeeks
	storeSvc.Penalty = cfg.Penalty
	catalogSvc := services.NewCatalogService(movieRepo, changeRepo)
	likeSvc := services.NewLikeService(likeRepo)

	return &Deps{
		MovieHandler: &MovieHandler{Catalog: catalogSvc, Store: storeSvc, Likes: likeSvc},
		AdminHandler: &AdminHandler{Catalog: catalogSvc, Ledger: ledgerRepo, Rentals: rentalRepo},
	}
}
