package reports

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/grading"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/routes/auth"
)

// SetupReportRoutes registers the report generation endpoints. The workflow
// runs scope definition, data compilation, report generation, review and
// approval, then distribution.
func SetupReportRoutes(app *fiber.App, db *sql.DB, resolver *grading.Resolver) {
	api := app.Group("/api/reports")
	api.Use(auth.AuthMiddleware)

	api.Get("/:id", func(c *fiber.Ctx) error { return GetRun(c, db) })
	api.Get("/student/:id", func(c *fiber.Ctx) error { return StudentReport(c, db) })
	api.Post("/", func(c *fiber.Ctx) error { return DefineScope(c, db) })
	api.Post("/:id/compile", func(c *fiber.Ctx) error { return CompileData(c, db, resolver) })
	api.Post("/:id/generate", func(c *fiber.Ctx) error { return GenerateReports(c, db) })
	api.Post("/:id/approve", func(c *fiber.Ctx) error { return ApproveReports(c, db) })
	api.Post("/:id/sendback", func(c *fiber.Ctx) error { return SendBackReports(c, db) })
	api.Post("/:id/distribute", func(c *fiber.Ctx) error { return DistributeReports(c, db) })
}
