package handlers

import (
	"strconv"

	"movierental/internal/domain"
	applog "movierental/internal/log"
	"movierental/internal/services"
	"movierental/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type MovieHandler struct {
	Catalog *services.CatalogService
	Store   *services.StoreService
	Likes   *services.LikeService
}

// GET /api/v1/movies
func (h *MovieHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	movies, err := h.Catalog.List(limit, offset)
	if err != nil {
		applog.Error(c, "movies.list.fail", err, nil)
		return jsonError(c, fiber.StatusBadRequest, "Something went wrong.")
	}
	out := make([]fiber.Map, 0, len(movies))
	for _, m := range movies {
		out = append(out, movieJSON(m))
	}
	return c.JSON(fiber.Map{"movies": out})
}

// GET /api/v1/movies/:id
func (h *MovieHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "Movie not found")
	}
	m, err := h.Catalog.Get(id)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "Movie not found")
	}
	likes, _ := h.Likes.Count(id)
	body := movieJSON(m)
	body["likes"] = likes
	return c.JSON(fiber.Map{"movie": body})
}

// POST /api/v1/movies/:id/buy
func (h *MovieHandler) Buy(c *fiber.Ctx) error {
	return h.storeOp(c, "movie.buy", h.Store.Buy)
}

// POST /api/v1/movies/:id/rent
func (h *MovieHandler) Rent(c *fiber.Ctx) error {
	return h.storeOp(c, "movie.rent", h.Store.Rent)
}

// POST /api/v1/movies/:id/return
func (h *MovieHandler) Return(c *fiber.Ctx) error {
	return h.storeOp(c, "movie.return", h.Store.Return)
}

// storeOp runs one orchestrator operation for the authenticated actor and
// maps the outcome onto the wire.
func (h *MovieHandler) storeOp(c *fiber.Ctx, action string, op func(movieID, actorID string) domain.Outcome) error {
	u := currentUser(c)
	if u == nil {
		return jsonError(c, fiber.StatusUnauthorized, "Unauthenticated.")
	}
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "Movie not found")
	}

	out := op(id, u.ID)
	switch out.Kind {
	case domain.OutcomeOK, domain.OutcomeWarning:
		applog.Audit(c, action, map[string]any{"movie_id": id, "user_id": u.ID, "message": out.Message})
		return jsonMessage(c, out.Message)
	case domain.OutcomeNoStock, domain.OutcomeRejected:
		applog.Info(c, action+".rejected", map[string]any{"movie_id": id, "user_id": u.ID, "reason": out.Message})
		return jsonError(c, fiber.StatusBadRequest, out.Message)
	default:
		applog.Error(c, action+".fail", nil, map[string]any{"movie_id": id, "user_id": u.ID})
		return jsonError(c, fiber.StatusBadRequest, "Something went wrong.")
	}
}

// POST /api/v1/movies/:id/like
func (h *MovieHandler) Like(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "Movie not found")
	}
	if _, err := h.Catalog.Get(id); err != nil {
		return jsonError(c, fiber.StatusNotFound, "Movie not found")
	}
	if err := h.Likes.Like(id, u.ID); err != nil {
		applog.Error(c, "movie.like.fail", err, map[string]any{"movie_id": id})
		return jsonError(c, fiber.StatusBadRequest, "Something went wrong.")
	}
	return jsonMessage(c, "liked")
}

// DELETE /api/v1/movies/:id/like
func (h *MovieHandler) Unlike(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "Movie not found")
	}
	if err := h.Likes.Unlike(id, u.ID); err != nil {
		applog.Error(c, "movie.unlike.fail", err, map[string]any{"movie_id": id})
		return jsonError(c, fiber.StatusBadRequest, "Something went wrong.")
	}
	return jsonMessage(c, "unliked")
}
