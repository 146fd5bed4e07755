package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medibook/appointment-api/controllers"
	"github.com/medibook/appointment-api/middleware"
)

// SetupAdminRoutes configures all admin panel routes
func SetupAdminRoutes(app *fiber.App) {
	admin := app.Group("/api/admin")

	admin.Post("/login", controllers.AdminLogin)

	admin.Post("/doctors", middleware.Protected(), middleware.RequireAdmin(), controllers.AddDoctor)
	admin.Patch("/doctors/:id/availability", middleware.Protected(), middleware.RequireAdmin(), controllers.AdminChangeAvailability)
	admin.Get("/appointments", middleware.Protected(), middleware.RequireAdmin(), controllers.GetAllAppointments)
	admin.Post("/appointments/:id/cancel", middleware.Protected(), middleware.RequireAdmin(), controllers.AdminCancelAppointment)
	admin.Get("/dashboard", middleware.Protected(), middleware.RequireAdmin(), controllers.GetAdminDashboard)
}
