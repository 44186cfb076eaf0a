package assessments

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/grading"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/routes/auth"
)

// SetupAssessmentRoutes registers the assessment workflow endpoints.
// The workflow runs plan, item creation, administration, marking and
// grading, then analysis.
func SetupAssessmentRoutes(app *fiber.App, db *sql.DB, resolver *grading.Resolver) {
	api := app.Group("/api/assessments")
	api.Use(auth.AuthMiddleware)

	api.Get("/", func(c *fiber.Ctx) error { return ListAssessments(c, db) })
	api.Get("/:id", func(c *fiber.Ctx) error { return GetAssessment(c, db) })
	api.Post("/", func(c *fiber.Ctx) error { return PlanAssessment(c, db) })
	api.Post("/:id/items", func(c *fiber.Ctx) error { return CreateItems(c, db) })
	api.Post("/:id/administer", func(c *fiber.Ctx) error { return Administer(c, db) })
	api.Post("/:id/results", func(c *fiber.Ctx) error { return RecordResults(c, db) })
	api.Post("/:id/verify", func(c *fiber.Ctx) error { return VerifyAndGrade(c, db, resolver) })
	api.Post("/:id/analyze", func(c *fiber.Ctx) error { return AnalyzeResults(c, db, resolver) })
	api.Get("/:id/statistics", func(c *fiber.Ctx) error { return ResultStatistics(c, db) })
}
