package workflows

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/routes/auth"
)

// SetupWorkflowRoutes registers read-only endpoints for inspecting workflow
// instances across every workflow type. Mutations stay on the feature routes.
func SetupWorkflowRoutes(app *fiber.App, db *sql.DB) {
	api := app.Group("/api/workflows")
	api.Use(auth.AuthMiddleware)

	api.Get("/", func(c *fiber.Ctx) error { return ListWorkflows(c, db) })
	api.Get("/types", func(c *fiber.Ctx) error { return ListWorkflowTypes(c) })
	api.Get("/stale", func(c *fiber.Ctx) error { return ListStaleWorkflows(c, db) })
	api.Get("/:id", func(c *fiber.Ctx) error { return GetWorkflow(c, db) })
}
