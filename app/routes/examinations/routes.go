package examinations

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/grading"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/routes/auth"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/services"
)

// SetupExaminationRoutes registers the examination cycle endpoints. The
// cycle runs from planning through scheduling, paper submission, logistics,
// administration, marking, verification, moderation and compilation to the
// final approval.
func SetupExaminationRoutes(app *fiber.App, db *sql.DB, uploads *services.UploadStore, resolver *grading.Resolver) {
	api := app.Group("/api/examinations")
	api.Use(auth.AuthMiddleware)

	api.Get("/", func(c *fiber.Ctx) error { return ListCycles(c, db) })
	api.Get("/:id", func(c *fiber.Ctx) error { return GetCycle(c, db) })
	api.Post("/", func(c *fiber.Ctx) error { return PlanCycle(c, db) })
	api.Post("/:id/schedule", func(c *fiber.Ctx) error { return CreateSchedule(c, db) })
	api.Post("/:id/papers", func(c *fiber.Ctx) error { return SubmitPaper(c, db, uploads) })
	api.Post("/:id/logistics", func(c *fiber.Ctx) error { return PrepareLogistics(c, db) })
	api.Post("/:id/administer", func(c *fiber.Ctx) error { return ConductExams(c, db) })
	api.Post("/:id/markers", func(c *fiber.Ctx) error { return AssignMarkers(c, db) })
	api.Post("/:id/marks", func(c *fiber.Ctx) error { return RecordMarks(c, db) })
	api.Post("/:id/verify", func(c *fiber.Ctx) error { return VerifyMarks(c, db) })
	api.Post("/:id/moderate", func(c *fiber.Ctx) error { return ModerateMarks(c, db) })
	api.Post("/:id/compile", func(c *fiber.Ctx) error { return CompileResults(c, db, resolver) })
	api.Post("/:id/approve", func(c *fiber.Ctx) error { return ApproveResults(c, db) })
	api.Post("/:id/reject", func(c *fiber.Ctx) error { return RejectResults(c, db) })

	// Competency evidence gathered while a cycle runs
	api.Post("/competencies", func(c *fiber.Ctx) error { return RecordCompetency(c, db) })
	api.Get("/competencies/student/:id", func(c *fiber.Ctx) error { return StudentCompetencies(c, db) })
}
