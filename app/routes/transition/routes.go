package transition

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/routes/auth"
)

// SetupTransitionRoutes registers the academic year transition endpoints.
// The workflow runs calendar preparation, archival, promotion execution,
// new year setup, baseline migration and the final readiness check.
func SetupTransitionRoutes(app *fiber.App, db *sql.DB) {
	api := app.Group("/api/transitions")
	api.Use(auth.AuthMiddleware)

	api.Get("/:id", func(c *fiber.Ctx) error { return GetTransition(c, db) })
	api.Post("/", func(c *fiber.Ctx) error { return PrepareCalendar(c, db) })
	api.Post("/:id/archive", func(c *fiber.Ctx) error { return ArchiveYear(c, db) })
	api.Post("/:id/promotions", func(c *fiber.Ctx) error { return LinkPromotions(c, db) })
	api.Post("/:id/setup", func(c *fiber.Ctx) error { return SetupNewYear(c, db) })
	api.Post("/:id/baselines", func(c *fiber.Ctx) error { return MigrateBaselines(c, db) })
	api.Post("/:id/validate", func(c *fiber.Ctx) error { return ValidateReadiness(c, db) })
}
