package promotions

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/routes/auth"
)

// SetupPromotionRoutes registers the end-of-year promotion endpoints. The
// workflow runs criteria definition, candidate identification, eligibility
// validation, execution and reporting.
func SetupPromotionRoutes(app *fiber.App, db *sql.DB) {
	api := app.Group("/api/promotions")
	api.Use(auth.AuthMiddleware)

	api.Get("/:id", func(c *fiber.Ctx) error { return GetBatch(c, db) })
	api.Get("/:id/decisions", func(c *fiber.Ctx) error { return ListDecisions(c, db) })
	api.Post("/", func(c *fiber.Ctx) error { return DefineCriteria(c, db) })
	api.Post("/:id/candidates", func(c *fiber.Ctx) error { return IdentifyCandidates(c, db) })
	api.Post("/:id/validate", func(c *fiber.Ctx) error { return ValidateEligibility(c, db) })
	api.Post("/:id/execute", func(c *fiber.Ctx) error { return ExecutePromotions(c, db) })
	api.Post("/:id/report", func(c *fiber.Ctx) error { return GenerateReport(c, db) })
}
