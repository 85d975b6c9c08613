package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/jmoiron/sqlx"

	"draftshop/internal/config"
	applog "draftshop/internal/log"
)

// NewApp builds the fiber app with middlewares and every route mounted.
func NewApp(db *sqlx.DB, cfg config.Config, views fiber.Views) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:       views,
		JSONEncoder: jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder: jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			code := fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok && fe.Code < 500 {
				code = fe.Code
			}
			// Avoid leaking internals
			return c.Status(code).JSON(fiber.Map{"error": "Something went wrong. Please try again."})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{Output: applog.AccessWriter()}))
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/healthz") || strings.HasPrefix(c.Path(), "/media/")
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))

	deps := NewDeps(db)

	app.Get("/media/*", Media(cfg.MediaDir))

	// Pages
	app.Get("/", deps.CategoryHandler.Home)
	app.Get("/category/:id", deps.CategoryHandler.Page)
	app.Get("/product/:variant/:id", deps.ProductHandler.Page)

	// API
	api := app.Group("/api/v1")
	api.Get("/categories", deps.CategoryHandler.List)
	api.Get("/categories/:id", deps.CategoryHandler.Get)
	api.Get("/categories/:id/products", deps.CategoryHandler.Products)
	api.Get("/products/:variant", deps.ProductHandler.List)
	api.Get("/products/:variant/:id", deps.ProductHandler.Get)

	// Admin writes
	admin := RequireAdmin(cfg)
	api.Post("/categories", admin, deps.AdminHandler.CreateCategory)
	api.Post("/products/:variant", admin, deps.AdminHandler.CreateItem)
	api.Put("/products/:variant/:id", admin, deps.AdminHandler.UpdateItem)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
		}
		return notFound(c, "Page not found")
	})

	return app
}
