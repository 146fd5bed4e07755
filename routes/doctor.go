package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medibook/appointment-api/controllers"
	"github.com/medibook/appointment-api/middleware"
)

// SetupDoctorRoutes configures all doctor related routes
func SetupDoctorRoutes(app *fiber.App) {
	doctors := app.Group("/api/doctors")

	// Public directory
	doctors.Get("/", controllers.GetDoctors)
	doctors.Post("/login", controllers.DoctorLogin)

	// Doctor panel
	doctors.Get("/appointments", middleware.Protected(), middleware.RequireDoctor(), controllers.GetDoctorAppointments)
	doctors.Post("/appointments/:id/complete", middleware.Protected(), middleware.RequireDoctor(), controllers.CompleteAppointment)
	doctors.Post("/appointments/:id/cancel", middleware.Protected(), middleware.RequireDoctor(), controllers.CancelDoctorAppointment)
	doctors.Patch("/availability", middleware.Protected(), middleware.RequireDoctor(), controllers.ToggleAvailability)
	doctors.Get("/profile", middleware.Protected(), middleware.RequireDoctor(), controllers.GetDoctorProfile)
	doctors.Put("/profile", middleware.Protected(), middleware.RequireDoctor(), controllers.UpdateDoctorProfile)
	doctors.Get("/dashboard", middleware.Protected(), middleware.RequireDoctor(), controllers.GetDoctorDashboard)

	// Registered last so it doesn't shadow the named routes above
	doctors.Get("/:id", controllers.GetDoctor)
}
