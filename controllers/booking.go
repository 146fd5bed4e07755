package controllers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/medibook/appointment-api/db"
	"github.com/medibook/appointment-api/models"
	"github.com/medibook/appointment-api/utils"
)

var (
	errDoctorNotFound    = errors.New("doctor not found")
	errDoctorUnavailable = errors.New("doctor is not available right now, please try again later")
	errSlotTaken         = errors.New("this slot is already booked")
)

type bookingInput struct {
	DoctorID uint   `json:"doctor_id"`
	SlotDate string `json:"slot_date"`
	SlotTime string `json:"slot_time"`
}

// BookAppointment reserves a slot and writes the ledger record in one
// transaction. The doctor row is locked for the duration so two requests for
// the same slot cannot both pass the membership check.
func BookAppointment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	input := new(bookingInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Cannot parse JSON",
		})
	}

	if input.DoctorID == 0 || input.SlotDate == "" || input.SlotTime == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "doctor_id, slot_date and slot_time are required",
		})
	}
	if _, err := time.Parse("2006-01-02", input.SlotDate); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "slot_date must be in YYYY-MM-DD format",
		})
	}
	if _, err := time.Parse("15:04", input.SlotTime); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "slot_time must be in HH:MM format",
		})
	}

	var patient models.Patient
	if err := db.DB.First(&patient, userID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}

	var appointment models.Appointment
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var doctor models.Doctor
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&doctor, input.DoctorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errDoctorNotFound
			}
			return err
		}

		if !doctor.Available {
			return errDoctorUnavailable
		}
		if !doctor.BookedSlots.Reserve(input.SlotDate, input.SlotTime) {
			return errSlotTaken
		}
		if err := tx.Model(&doctor).Update("booked_slots", doctor.BookedSlots).Error; err != nil {
			return err
		}

		appointment = models.Appointment{
			PatientID:        patient.ID,
			DoctorID:         doctor.ID,
			SlotDate:         input.SlotDate,
			SlotTime:         input.SlotTime,
			Status:           models.StatusBooked,
			BookedFee:        doctor.Fees,
			DoctorName:       doctor.Name,
			DoctorSpeciality: doctor.Speciality,
			DoctorImageURL:   doctor.ImageURL,
			PatientName:      patient.Name,
		}
		return tx.Create(&appointment).Error
	})

	switch {
	case errors.Is(err, errDoctorNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	case errors.Is(err, errDoctorUnavailable):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	case errors.Is(err, errSlotTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": fmt.Sprintf("Sorry, you cannot book %s on %s, it is already booked!", input.SlotTime, input.SlotDate),
		})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to book appointment",
		})
	}

	go sendBookingConfirmation(appointment, patient.Email)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "New appointment has been booked",
		"data":    appointment,
	})
}

// GetPatientAppointments lists the caller's non-canceled appointments, newest first
func GetPatientAppointments(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var appointments []models.Appointment
	if err := db.DB.
		Where("patient_id = ? AND status <> ?", userID, models.StatusCanceled).
		Order("created_at desc").
		Find(&appointments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch appointments",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    appointments,
	})
}

// CancelPatientAppointment cancels one of the caller's own appointments
func CancelPatientAppointment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	appointmentID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid appointment ID",
		})
	}

	var appointment models.Appointment
	if err := db.DB.Where("id = ? AND patient_id = ?", appointmentID, userID).
		First(&appointment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Appointment not found or does not belong to the user",
		})
	}

	return finishCancellation(c, &appointment)
}

// finishCancellation runs the shared cancel path and renders the response.
// Canceling an already-canceled appointment reports success without touching
// the availability map.
func finishCancellation(c *fiber.Ctx, appointment *models.Appointment) error {
	if appointment.Status == models.StatusCanceled {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Appointment is already canceled",
			"data":    appointment,
		})
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		return cancelAppointment(tx, appointment)
	})
	if err != nil {
		status := fiber.StatusInternalServerError
		if appointment.Status == models.StatusCompleted {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Appointment canceled successfully. Slot %s on %s is now available again.",
			appointment.SlotTime, appointment.SlotDate),
		"data": appointment,
	})
}

// cancelAppointment flips the ledger record to canceled and frees the
// doctor's slot. Every cancellation variant (patient, doctor, admin, payment)
// goes through here so the paths cannot drift apart.
func cancelAppointment(tx *gorm.DB, appointment *models.Appointment) error {
	if err := appointment.UpdateStatus(tx, models.StatusCanceled); err != nil {
		return err
	}

	var doctor models.Doctor
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&doctor, appointment.DoctorID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Ledger keeps the record even if the doctor is gone
			return nil
		}
		return err
	}

	doctor.BookedSlots.Release(appointment.SlotDate, appointment.SlotTime)
	return tx.Model(&doctor).Update("booked_slots", doctor.BookedSlots).Error
}

func sendBookingConfirmation(appointment models.Appointment, email string) {
	subject := fmt.Sprintf("Appointment booked with %s", appointment.DoctorName)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your appointment has been booked.</p>
		<ul>
			<li><strong>Doctor:</strong> %s (%s)</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
			<li><strong>Fee:</strong> %.2f</li>
		</ul>
		<p>Best regards,</p>
		<p>Your Appointment Team</p>
	`, appointment.PatientName, appointment.DoctorName, appointment.DoctorSpeciality,
		appointment.SlotDate, appointment.SlotTime, appointment.BookedFee)

	if err := utils.SendEmail(email, subject, body); err != nil {
		log.Printf("Failed to send booking confirmation for appointment %d: %v", appointment.ID, err)
	}
}
