package controllers

import (
	"fmt"
	"math"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/paymentintent"

	"github.com/medibook/appointment-api/db"
	"github.com/medibook/appointment-api/models"
)

type paymentInput struct {
	AppointmentID   uint   `json:"appointment_id"`
	PaymentIntentID string `json:"payment_intent_id"`
}

// chargeAmountCents converts a fee in major currency units to cents.
func chargeAmountCents(fee float64) int64 {
	return int64(math.Round(fee * 100))
}

// matchesRecordedIntent reports whether the client-supplied payment intent is
// the one recorded when the checkout session was created. An appointment
// without a recorded intent has nothing to confirm against, so any id is
// rejected until a checkout session exists.
func matchesRecordedIntent(appointment *models.Appointment, intentID string) bool {
	return appointment.PaymentIntentID != "" && appointment.PaymentIntentID == intentID
}

// loadOwnAppointment fetches an appointment and verifies it belongs to the caller.
func loadOwnAppointment(c *fiber.Ctx, appointmentID uint) (*models.Appointment, error) {
	userID := c.Locals("userID").(uint)

	var appointment models.Appointment
	if err := db.DB.Where("id = ? AND patient_id = ?", appointmentID, userID).
		First(&appointment).Error; err != nil {
		return nil, err
	}
	return &appointment, nil
}

// CreateCheckout requests a hosted Stripe checkout session for an active
// appointment and returns the redirect URL. The charge amount comes from the
// booking-time fee, not the doctor's current fee.
func CreateCheckout(c *fiber.Ctx) error {
	input := new(paymentInput)
	if err := c.BodyParser(input); err != nil || input.AppointmentID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "appointment_id is required",
		})
	}

	appointment, err := loadOwnAppointment(c, input.AppointmentID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "This appointment not found!",
		})
	}

	if appointment.Status != models.StatusBooked {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": fmt.Sprintf("Appointment cannot be paid in status %s", appointment.Status),
		})
	}

	frontendURL := os.Getenv("FRONTEND_URL")
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String("usd"),
					UnitAmount: stripe.Int64(chargeAmountCents(appointment.BookedFee)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Appointment with %s", appointment.DoctorName)),
						Description: stripe.String(fmt.Sprintf("For %s on %s at %s",
							appointment.DoctorSpeciality, appointment.SlotDate, appointment.SlotTime)),
						Images: stripe.StringSlice([]string{appointment.DoctorImageURL}),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(fmt.Sprintf(
			"%s/appointments/checkout?success=true&appointmentId=%d&session_id={CHECKOUT_SESSION_ID}",
			frontendURL, appointment.ID)),
		CancelURL: stripe.String(frontendURL + "/appointments/checkout?canceled=true"),
	}
	params.AddExpand("payment_intent")

	s, err := session.New(params)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create checkout session: " + err.Error(),
		})
	}

	paymentIntentID := ""
	if s.PaymentIntent != nil {
		paymentIntentID = s.PaymentIntent.ID
		if err := db.DB.Model(appointment).
			Update("payment_intent_id", paymentIntentID).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to record payment intent",
			})
		}
	}

	return c.JSON(fiber.Map{
		"success":           true,
		"url":               s.URL,
		"appointment_id":    appointment.ID,
		"payment_intent_id": paymentIntentID,
	})
}

// ConfirmPayment transitions an appointment to paid. The payment intent is
// verified against Stripe first; the client-supplied id alone is never
// trusted.
func ConfirmPayment(c *fiber.Ctx) error {
	input := new(paymentInput)
	if err := c.BodyParser(input); err != nil || input.AppointmentID == 0 || input.PaymentIntentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "appointment_id and payment_intent_id are required",
		})
	}

	appointment, err := loadOwnAppointment(c, input.AppointmentID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Appointment not found",
		})
	}

	if appointment.Status == models.StatusPaid {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Appointment is already paid",
			"data":    appointment,
		})
	}

	if !matchesRecordedIntent(appointment, input.PaymentIntentID) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Payment intent does not match this appointment's checkout",
		})
	}

	pi, err := paymentintent.Get(input.PaymentIntentID, nil)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to verify payment: " + err.Error(),
		})
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": fmt.Sprintf("Payment has not succeeded (status: %s)", pi.Status),
		})
	}
	if pi.Amount != chargeAmountCents(appointment.BookedFee) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Payment amount does not match the booked fee",
		})
	}

	if err := appointment.UpdateStatus(db.DB, models.StatusPaid); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Appointment confirmed & paid",
		"data":    appointment,
	})
}

// CancelPayment cancels the appointment after an abandoned or failed
// checkout, going through the shared cancellation path so the slot is freed.
func CancelPayment(c *fiber.Ctx) error {
	input := new(paymentInput)
	if err := c.BodyParser(input); err != nil || input.AppointmentID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "appointment_id is required",
		})
	}

	appointment, err := loadOwnAppointment(c, input.AppointmentID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Appointment not found",
		})
	}

	return finishCancellation(c, appointment)
}

// GetSession proxies a Stripe checkout session lookup
func GetSession(c *fiber.Ctx) error {
	s, err := session.Get(c.Params("id"), nil)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Error retrieving session: " + err.Error(),
		})
	}
	return c.JSON(s)
}
