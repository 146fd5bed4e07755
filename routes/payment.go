package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medibook/appointment-api/controllers"
	"github.com/medibook/appointment-api/middleware"
)

// SetupPaymentRoutes configures the checkout routes
func SetupPaymentRoutes(app *fiber.App) {
	payment := app.Group("/api/payment", middleware.Protected())

	payment.Post("/checkout", middleware.RequirePatient(), controllers.CreateCheckout)
	payment.Post("/confirm", middleware.RequirePatient(), controllers.ConfirmPayment)
	payment.Post("/cancel", middleware.RequirePatient(), controllers.CancelPayment)
	payment.Get("/session/:id", controllers.GetSession)
}
