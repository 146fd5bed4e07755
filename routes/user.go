package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medibook/appointment-api/controllers"
	"github.com/medibook/appointment-api/middleware"
)

// SetupUserRoutes configures all patient related routes
func SetupUserRoutes(app *fiber.App) {
	users := app.Group("/api/users")

	// Public routes
	users.Post("/register", controllers.RegisterPatient)
	users.Post("/login", controllers.LoginPatient)

	// Protected routes
	users.Get("/me", middleware.Protected(), middleware.RequirePatient(), controllers.GetPatientProfile)
	users.Patch("/me", middleware.Protected(), middleware.RequirePatient(), controllers.UpdatePatientProfile)

	users.Post("/appointments", middleware.Protected(), middleware.RequirePatient(), controllers.BookAppointment)
	users.Get("/appointments", middleware.Protected(), middleware.RequirePatient(), controllers.GetPatientAppointments)
	users.Post("/appointments/:id/cancel", middleware.Protected(), middleware.RequirePatient(), controllers.CancelPatientAppointment)
}
