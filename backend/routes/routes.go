package routes

import (
	"log"

	"stride/backend/config"
	"stride/backend/controllers"
	"stride/backend/middleware"
	"stride/backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, generator services.PlanGenerator, logger *log.Logger) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(cfg)

	// Profile routes
	app.Get("/api/user/profile", authMiddleware, authController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, authController.UpdateProfile)

	// Career quiz routes
	quizController := controllers.NewQuizController(db, cfg, generator, logger)
	quiz := app.Group("/api/career-quiz", authMiddleware)
	quiz.Put("/draft", quizController.SaveDraft)
	quiz.Post("/submit", quizController.SubmitQuiz)
	quiz.Post("/retry-generation", quizController.RetryGeneration)
	quiz.Get("/attempts", quizController.GetAttempts)

	// Career plan routes
	plansController := controllers.NewPlansController(db, cfg)
	app.Get("/api/career-progress/active", authMiddleware, plansController.GetActiveProgress)
	plans := app.Group("/api/career-plans", authMiddleware)
	plans.Get("/", plansController.GetPlans)
	plans.Get("/:id", plansController.GetPlan)
	plans.Delete("/:id", plansController.DeletePlan)
	plans.Patch("/:planId/skills/:skillId", plansController.UpdateSkillStatus)

	// Assessment routes
	assessmentController := controllers.NewAssessmentController(db, cfg)
	assessment := app.Group("/api/assessment", authMiddleware)
	assessment.Post("/start", assessmentController.StartAttempt)
	assessment.Post("/attempts/:id/responses", assessmentController.SubmitResponse)
	assessment.Post("/attempts/:id/responses/bulk", assessmentController.BulkSubmitResponses)
	assessment.Post("/attempts/:id/complete", assessmentController.CompleteAttempt)
	assessment.Get("/attempts/:id/context", assessmentController.GetContext)

	// Skill catalog routes
	skillsController := controllers.NewSkillsController(db, cfg)
	app.Get("/api/skills", authMiddleware, skillsController.GetSkills)
	app.Post("/api/admin/skills", authMiddleware, adminMiddleware, skillsController.CreateSkill)

	// Tasks and notes
	tasksController := controllers.NewTasksController(db, cfg)
	tasks := app.Group("/api/tasks", authMiddleware)
	tasks.Get("/", tasksController.GetTasks)
	tasks.Post("/", tasksController.CreateTask)
	tasks.Put("/:id", tasksController.UpdateTask)
	tasks.Delete("/:id", tasksController.DeleteTask)

	notes := app.Group("/api/notes", authMiddleware)
	notes.Get("/", tasksController.GetNotes)
	notes.Post("/", tasksController.CreateNote)
	notes.Put("/:id", tasksController.UpdateNote)
	notes.Delete("/:id", tasksController.DeleteNote)
}
