package curriculum

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/routes/auth"
)

// SetupCurriculumRoutes registers the curriculum planning endpoints. The
// workflow runs framework review, outcome mapping, scheme creation and the
// final review and approval.
func SetupCurriculumRoutes(app *fiber.App, db *sql.DB) {
	api := app.Group("/api/curriculum")
	api.Use(auth.AuthMiddleware)

	api.Get("/plans", func(c *fiber.Ctx) error { return ListPlans(c, db) })
	api.Get("/plans/:id", func(c *fiber.Ctx) error { return GetPlan(c, db) })
	api.Post("/plans", func(c *fiber.Ctx) error { return ReviewFramework(c, db) })
	api.Post("/plans/:id/outcomes", func(c *fiber.Ctx) error { return MapOutcomes(c, db) })
	api.Post("/plans/:id/scheme", func(c *fiber.Ctx) error { return CreateScheme(c, db) })
	api.Post("/plans/:id/approve", func(c *fiber.Ctx) error { return ApprovePlan(c, db) })
	api.Post("/plans/:id/sendback", func(c *fiber.Ctx) error { return SendBackPlan(c, db) })
}
