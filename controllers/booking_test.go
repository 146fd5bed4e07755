package controllers

import (
	"testing"

	"github.com/gofiber/fiber/v2"
)

// bookingApp injects a fake patient identity so the input validation in
// BookAppointment can be exercised without the auth middleware or a database.
func bookingApp() *fiber.App {
	app := fiber.New()
	app.Post("/api/users/appointments", func(c *fiber.Ctx) error {
		c.Locals("userID", uint(1))
		return BookAppointment(c)
	})
	return app
}

func TestBookAppointmentRejectsMissingFields(t *testing.T) {
	app := bookingApp()

	envelope, status := postJSON(t, app, "/api/users/appointments", map[string]interface{}{
		"doctor_id": 0,
	})
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want %d", status, fiber.StatusBadRequest)
	}
	if success, _ := (*envelope)["success"].(bool); success {
		t.Fatal("expected a failure envelope")
	}
	if (*envelope)["message"] == "" {
		t.Fatal("failure envelope must carry a message")
	}
}

func TestBookAppointmentRejectsBadSlotDate(t *testing.T) {
	app := bookingApp()

	_, status := postJSON(t, app, "/api/users/appointments", map[string]interface{}{
		"doctor_id": 3,
		"slot_date": "01/01/2024",
		"slot_time": "10:00",
	})
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want %d", status, fiber.StatusBadRequest)
	}
}

func TestBookAppointmentRejectsBadSlotTime(t *testing.T) {
	app := bookingApp()

	_, status := postJSON(t, app, "/api/users/appointments", map[string]interface{}{
		"doctor_id": 3,
		"slot_date": "2024-01-01",
		"slot_time": "10am",
	})
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want %d", status, fiber.StatusBadRequest)
	}
}
