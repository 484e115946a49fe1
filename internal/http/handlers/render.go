package handlers

import (
	"movierental/internal/domain"

	"github.com/gofiber/fiber/v2"
)

func jsonError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func jsonMessage(c *fiber.Ctx, msg string) error {
	if msg == "" {
		msg = "ok"
	}
	return c.JSON(fiber.Map{"message": msg})
}

// currentUser returns the user the authz middleware placed on the context.
func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

// movieJSON is the public shape of a movie.
func movieJSON(m domain.Movie) fiber.Map {
	return fiber.Map{
		"id":           m.ID,
		"title":        m.Title,
		"stock":        m.Stock,
		"availability": m.Availability,
		"sale_price":   m.SalePrice,
		"rental_price": m.RentalPrice,
	}
}
