package routes

import (
	"madrasa_go/controllers"
	"madrasa_go/middleware"
	"madrasa_go/services"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, healthService *services.HealthService) {
	// Initialize controllers
	authController := &controllers.AuthController{}
	divisionController := &controllers.DivisionController{}
	schoolRoomController := &controllers.SchoolRoomController{}
	studentController := &controllers.StudentController{}
	sessionController := &controllers.SessionController{}
	analyticsController := &controllers.AnalyticsController{}
	recordingController := controllers.NewRecordingController()
	logController := &controllers.LogController{}
	healthController := controllers.NewHealthController(healthService)

	// API group
	api := app.Group("/api")

	// Public routes (no authentication required)
	api.Get("/health", healthController.Health)
	api.Get("/health/details", healthController.HealthDetails)

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)
	auth.Get("/profile", middleware.JWTMiddleware(), authController.GetProfile)
	auth.Put("/password", middleware.JWTMiddleware(), authController.ChangePassword)

	// WebSocket upgrade authenticates via token query parameter, so it must
	// be registered ahead of the JWT-protected group.
	api.Get("/ws", controllers.WebSocketUpgrade(), controllers.HandleWebSocket())

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware())

	// Division management routes
	divisions := protected.Group("/divisions")
	divisions.Get("/", divisionController.GetDivisions)
	divisions.Get("/:id", divisionController.GetDivision)
	divisions.Post("/", divisionController.CreateDivision)
	divisions.Put("/:id", divisionController.UpdateDivision)
	divisions.Patch("/:id/archive", divisionController.ArchiveDivision)
	divisions.Patch("/:id/restore", divisionController.RestoreDivision)
	divisions.Delete("/:id", middleware.RequireOwner(), divisionController.DeleteDivision)

	// School room management routes
	rooms := protected.Group("/school-rooms")
	rooms.Get("/", schoolRoomController.GetSchoolRooms)
	rooms.Get("/:id", schoolRoomController.GetSchoolRoom)
	rooms.Post("/", schoolRoomController.CreateSchoolRoom)
	rooms.Put("/:id", schoolRoomController.UpdateSchoolRoom)
	rooms.Delete("/:id", middleware.RequireOwner(), schoolRoomController.DeleteSchoolRoom)

	// Student management routes
	students := protected.Group("/students")
	students.Get("/", studentController.GetStudents)
	students.Get("/:id", studentController.GetStudent)
	students.Post("/", studentController.CreateStudent)
	students.Put("/:id", studentController.UpdateStudent)
	students.Patch("/:id/archive", studentController.ArchiveStudent)
	students.Patch("/:id/restore", studentController.RestoreStudent)
	students.Delete("/:id", middleware.RequireOwner(), studentController.DeleteStudent)

	// Session management routes
	sessions := protected.Group("/sessions")
	sessions.Get("/", sessionController.GetSessions)
	sessions.Get("/:id", sessionController.GetSession)
	sessions.Post("/", sessionController.CreateSession)
	sessions.Put("/:id", sessionController.UpdateSession)
	sessions.Delete("/:id", middleware.RequireOwner(), sessionController.DeleteSession)

	// Session recording wizard routes
	sessions.Post("/:id/recording", recordingController.BeginRecording)
	sessions.Get("/:id/recording", recordingController.GetRecording)
	sessions.Patch("/:id/recording/attendance", recordingController.RecordAttendance)
	sessions.Patch("/:id/recording/quran", recordingController.RecordRecitation)
	sessions.Patch("/:id/recording/books", recordingController.RecordReading)
	sessions.Post("/:id/recording/next", recordingController.NextStep)
	sessions.Post("/:id/recording/back", recordingController.PreviousStep)
	sessions.Post("/:id/recording/commit", recordingController.CommitRecording)
	sessions.Delete("/:id/recording", recordingController.CancelRecording)

	// Analytics routes
	analytics := protected.Group("/analytics")
	analytics.Get("/", analyticsController.GetAnalytics)
	analytics.Get("/export", analyticsController.ExportAnalytics)

	// Activity log routes (owner only)
	logs := protected.Group("/logs", middleware.RequireOwner())
	logs.Get("/", logController.GetLogs)
	logs.Post("/flush", logController.FlushCachedLogs)
	logs.Get("/archives", logController.GetLogArchives)
	logs.Get("/archives/:id/download", logController.DownloadLogArchive)

	// WebSocket stats
	protected.Get("/ws/stats", controllers.GetWebSocketStats)
}
