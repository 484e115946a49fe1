package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"movierental/internal/config"
	"movierental/internal/http/handlers"
	applog "movierental/internal/log"
	"movierental/internal/repos"
	"movierental/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and answer with the generic envelope; internals stay inside.
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Something went wrong."})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
	}))

	// ---------- Routes ----------
	deps := handlers.NewDeps(db, cfg)
	api := app.Group("/api/v1")

	// Auth (login throttled)
	api.Post("/auth/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many attempts. Please try again later."})
		},
	}), authH.Login)
	api.Post("/auth/logout", authH.Logout)

	// Public catalog
	api.Get("/movies", deps.MovieHandler.List)
	api.Get("/movies/:id", deps.MovieHandler.Detail)

	// Store operations & likes (authenticated)
	api.Post("/movies/:id/buy", handlers.RequireUser(authSvc), deps.MovieHandler.Buy)
	api.Post("/movies/:id/rent", handlers.RequireUser(authSvc), deps.MovieHandler.Rent)
	api.Post("/movies/:id/return", handlers.RequireUser(authSvc), deps.MovieHandler.Return)
	api.Post("/movies/:id/like", handlers.RequireUser(authSvc), deps.MovieHandler.Like)
	api.Delete("/movies/:id/like", handlers.RequireUser(authSvc), deps.MovieHandler.Unlike)

	// Admin
	admin := api.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/movies", deps.AdminHandler.Index)
	admin.Post("/movies", deps.AdminHandler.Store)
	admin.Get("/movies/:id", deps.AdminHandler.Show)
	admin.Put("/movies/:id", deps.AdminHandler.Update)
	admin.Delete("/movies/:id", deps.AdminHandler.Destroy)
	admin.Get("/ledger", deps.AdminHandler.LedgerPage)
	admin.Get("/rentals", deps.AdminHandler.RentalsPage)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
