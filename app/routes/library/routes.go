package library

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/routes/auth"
)

// SetupLibraryRoutes registers the acquisition workflow and the borrowing
// endpoints. Acquisitions run request, review and approval, cataloging,
// then distribution and tracking.
func SetupLibraryRoutes(app *fiber.App, db *sql.DB) {
	api := app.Group("/api/library")
	api.Use(auth.AuthMiddleware)

	api.Post("/acquisitions", func(c *fiber.Ctx) error { return RequestAcquisition(c, db) })
	api.Get("/acquisitions/:id", func(c *fiber.Ctx) error { return GetAcquisition(c, db) })
	api.Post("/acquisitions/:id/review", func(c *fiber.Ctx) error { return ReviewAcquisition(c, db) })
	api.Post("/acquisitions/:id/catalog", func(c *fiber.Ctx) error { return CatalogBook(c, db) })
	api.Post("/acquisitions/:id/distribute", func(c *fiber.Ctx) error { return DistributeBook(c, db) })

	api.Get("/books", func(c *fiber.Ctx) error { return ListBooks(c, db) })
	api.Post("/loans", func(c *fiber.Ctx) error { return LoanBook(c, db) })
	api.Post("/loans/:id/return", func(c *fiber.Ctx) error { return ReturnBook(c, db) })
	api.Get("/loans/overdue", func(c *fiber.Ctx) error { return OverdueLoans(c, db) })
}
