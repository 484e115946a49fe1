package handlers

import (
	"movierental/internal/domain"
	applog "movierental/internal/log"
	"movierental/internal/repos"
	"movierental/internal/services"
	"movierental/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Catalog *services.CatalogService
	Ledger  *repos.LedgerRepo
	Rentals *repos.RentalRepo
}

type moviePayload struct {
	Title       string  `json:"title"`
	Stock       int     `json:"stock"`
	SalePrice   float64 `json:"sale_price"`
	RentalPrice float64 `json:"rental_price"`
}

func (p moviePayload) valid() bool {
	if _, ok := validate.Title(p.Title); !ok {
		return false
	}
	return p.Stock >= 0 && p.SalePrice >= 0 && p.RentalPrice >= 0
}

// GET /api/v1/admin/movies
func (h *AdminHandler) Index(c *fiber.Ctx) error {
	movies, err := h.Catalog.List(100, 0)
	if err != nil {
		applog.Error(c, "admin.movies.list.fail", err, nil)
		return jsonError(c, fiber.StatusBadRequest, "Something went wrong.")
	}
	out := make([]fiber.Map, 0, len(movies))
	for _, m := range movies {
		out = append(out, movieJSON(m))
	}
	return c.JSON(fiber.Map{"movies": out})
}

// POST /api/v1/admin/movies
func (h *AdminHandler) Store(c *fiber.Ctx) error {
	var p moviePayload
	if err := c.BodyParser(&p); err != nil || !p.valid() {
		return jsonError(c, fiber.StatusBadRequest, "invalid movie payload")
	}
	m, err := h.Catalog.Create(domain.Movie{
		Title:       p.Title,
		Stock:       p.Stock,
		SalePrice:   p.SalePrice,
		RentalPrice: p.RentalPrice,
	})
	if err != nil {
		applog.Error(c, "admin.movies.create.fail", err, nil)
		return jsonError(c, fiber.StatusBadRequest, "Something went wrong.")
	}
	applog.Audit(c, "admin.movies.create", map[string]any{"movie_id": m.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"movie": movieJSON(m)})
}

// GET /api/v1/admin/movies/:id
func (h *AdminHandler) Show(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "Movie not found")
	}
	m, err := h.Catalog.Get(id)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "Movie not found")
	}
	return c.JSON(fiber.Map{"movie": movieJSON(m)})
}

// PUT /api/v1/admin/movies/:id
func (h *AdminHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "Movie not found")
	}
	var p moviePayload
	if err := c.BodyParser(&p); err != nil || !p.valid() {
		return jsonError(c, fiber.StatusBadRequest, "invalid movie payload")
	}
	u := currentUser(c)
	m, err := h.Catalog.Update(u.ID, domain.Movie{
		ID:          id,
		Title:       p.Title,
		Stock:       p.Stock,
		SalePrice:   p.SalePrice,
		RentalPrice: p.RentalPrice,
	})
	if err != nil {
		applog.Error(c, "admin.movies.update.fail", err, map[string]any{"movie_id": id})
		return jsonError(c, fiber.StatusBadRequest, "Something went wrong.")
	}
	applog.Audit(c, "admin.movies.update", map[string]any{"movie_id": id})
	return c.JSON(fiber.Map{"movie": movieJSON(m)})
}

// DELETE /api/v1/admin/movies/:id
func (h *AdminHandler) Destroy(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "Movie not found")
	}
	if err := h.Catalog.Delete(id); err != nil {
		applog.Error(c, "admin.movies.delete.fail", err, map[string]any{"movie_id": id})
		return jsonError(c, fiber.StatusBadRequest, "Something went wrong.")
	}
	applog.Audit(c, "admin.movies.delete", map[string]any{"movie_id": id})
	return jsonMessage(c, "deleted")
}

// GET /api/v1/admin/ledger
func (h *AdminHandler) LedgerPage(c *fiber.Ctx) error {
	entries, err := h.Ledger.ListLatest(100)
	if err != nil {
		applog.Error(c, "admin.ledger.list.fail", err, nil)
		return jsonError(c, fiber.StatusBadRequest, "Something went wrong.")
	}
	out := make([]fiber.Map, 0, len(entries))
	for _, e := range entries {
		out = append(out, fiber.Map{
			"id":         e.ID,
			"reason":     e.Reason,
			"amount":     e.Amount,
			"user_id":    e.UserID,
			"movie_id":   e.MovieID,
			"created_at": e.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"entries": out})
}

// GET /api/v1/admin/rentals
func (h *AdminHandler) RentalsPage(c *fiber.Ctx) error {
	rows, err := h.Rentals.ListLatest(100)
	if err != nil {
		applog.Error(c, "admin.rentals.list.fail", err, nil)
		return jsonError(c, fiber.StatusBadRequest, "Something went wrong.")
	}
	out := make([]fiber.Map, 0, len(rows))
	for _, r := range rows {
		row := fiber.Map{
			"id":                   r.ID,
			"movie_id":             r.MovieID,
			"title":                r.Title,
			"user_id":              r.UserID,
			"created_at":           r.CreatedAt,
			"expected_return_date": r.ExpectedReturnDate,
		}
		if r.ReturnedAt.Valid {
			row["returned_at"] = r.ReturnedAt.String
		}
		out = append(out, row)
	}
	return c.JSON(fiber.Map{"rentals": out})
}
