package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/config"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/database"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/grading"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/routes/assessments"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/routes/auth"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/routes/curriculum"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/routes/examinations"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/routes/library"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/routes/promotions"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/routes/reports"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/routes/transition"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/routes/workflows"
	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/services"
)

func apiErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
		"code":    code,
	})
}

func main() {
	// School calendars run on East Africa Time
	loc, err := time.LoadLocation("Africa/Nairobi")
	if err != nil {
		log.Printf("Warning: Failed to load Africa/Nairobi location, falling back to UTC+3: %v", err)
		time.Local = time.FixedZone("EAT", 3*60*60)
	} else {
		time.Local = loc
	}

	config.Init()
	db := config.GetDB()
	defer db.Close()
	appLogger := config.GetLogger()

	if err := database.RunMigrations(db, appLogger); err != nil {
		appLogger.Fatal("failed to run migrations", zap.Error(err))
	}

	resolver := grading.NewResolver(nil)
	if err := resolver.Reload(db); err != nil {
		appLogger.Warn("no grading scale loaded, marks resolve as ungraded", zap.Error(err))
	}

	uploads, err := services.NewUploadStore(config.AppConfig.UploadPath)
	if err != nil {
		appLogger.Fatal("failed to prepare upload store", zap.Error(err))
	}

	services.StartScheduler(db, appLogger)

	app := fiber.New(fiber.Config{
		ErrorHandler: apiErrorHandler,
	})

	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := db.Ping(); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "database unreachable")
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	auth.SetupAuthRoutes(app)
	assessments.SetupAssessmentRoutes(app, db, resolver)
	examinations.SetupExaminationRoutes(app, db, uploads, resolver)
	promotions.SetupPromotionRoutes(app, db)
	transition.SetupTransitionRoutes(app, db)
	reports.SetupReportRoutes(app, db, resolver)
	library.SetupLibraryRoutes(app, db)
	curriculum.SetupCurriculumRoutes(app, db)
	workflows.SetupWorkflowRoutes(app, db)

	app.Use("*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Resource not found")
	})

	addr := ":" + config.AppConfig.Port
	appLogger.Info("server starting", zap.String("addr", addr))
	log.Fatal(app.Listen(addr))
}
