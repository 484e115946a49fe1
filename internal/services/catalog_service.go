package services

import (
	"strconv"

	"movierental/internal/domain"
	"movierental/internal/repos"

	"github.com/google/uuid"
)

// CatalogService covers the admin CRUD surface for movies. Edits to tracked
// fields (title, prices) produce MovieChange audit rows attributed to the
// acting admin.
type CatalogService struct {
	Movies  *repos.MovieRepo
	Changes *repos.ChangeLogRepo
}

func NewCatalogService(movies *repos.MovieRepo, changes *repos.ChangeLogRepo) *CatalogService {
	return &CatalogService{Movies: movies, Changes: changes}
}

func (s *CatalogService) List(limit, offset int) ([]domain.Movie, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.Movies.List(limit, offset)
}

func (s *CatalogService) Get(id string) (domain.Movie, error) {
	return s.Movies.Get(id)
}

func (s *CatalogService) Create(m domain.Movie) (domain.Movie, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.Availability = m.Stock > 0
	if err := s.Movies.Create(m); err != nil {
		return domain.Movie{}, err
	}
	return s.Movies.Get(m.ID)
}

// Update persists an edit and records one change row per tracked field that
// actually changed.
func (s *CatalogService) Update(actorID string, m domain.Movie) (domain.Movie, error) {
	old, err := s.Movies.Get(m.ID)
	if err != nil {
		return domain.Movie{}, err
	}

	m.Availability = m.Stock > 0
	if err := s.Movies.Update(m); err != nil {
		return domain.Movie{}, err
	}

	var changes []domain.MovieChange
	add := func(field, oldV, newV string) {
		if oldV != newV {
			changes = append(changes, domain.MovieChange{
				MovieID: m.ID, UserID: actorID, Field: field, OldValue: oldV, NewValue: newV,
			})
		}
	}
	add("title", old.Title, m.Title)
	add("sale_price", price(old.SalePrice), price(m.SalePrice))
	add("rental_price", price(old.RentalPrice), price(m.RentalPrice))

	if err := s.Changes.Insert(changes); err != nil {
		return domain.Movie{}, err
	}
	return s.Movies.Get(m.ID)
}

func (s *CatalogService) Delete(id string) error {
	return s.Movies.Delete(id)
}

func price(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
