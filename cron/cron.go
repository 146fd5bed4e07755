package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/medibook/appointment-api/db"
	"github.com/medibook/appointment-api/models"
	"github.com/medibook/appointment-api/utils"
)

// StartCronJobs initializes and starts the cron scheduler for appointment reminders
func StartCronJobs() {
	c := cron.New()
	// Run every 30 minutes to catch appointments starting within the next hour
	_, err := c.AddFunc("*/30 * * * *", sendAppointmentReminders)
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduler started for appointment reminders")
}

// sendAppointmentReminders checks for appointments and sends reminders
func sendAppointmentReminders() {
	now := time.Now()
	today := now.Format("2006-01-02")

	var appointments []models.Appointment
	err := db.DB.Preload("Patient").
		Where("slot_date = ? AND status IN ?", today,
			[]models.AppointmentStatus{models.StatusBooked, models.StatusPaid}).
		Find(&appointments).Error
	if err != nil {
		log.Printf("Error fetching appointments for reminders: %v", err)
		return
	}

	for _, appointment := range appointments {
		start, err := slotStart(appointment.SlotDate, appointment.SlotTime, now.Location())
		if err != nil {
			log.Printf("Skipping reminder for appointment %d: %v", appointment.ID, err)
			continue
		}
		if start.Before(now) || start.After(now.Add(time.Hour)) {
			continue
		}

		if err := sendReminderEmail(&appointment); err != nil {
			log.Printf("Failed to send reminder for appointment %d: %v", appointment.ID, err)
			continue
		}
		log.Printf("Sent reminder for appointment %d to %s", appointment.ID, appointment.Patient.Email)
	}
}

// slotStart combines the stored date and time strings into a single instant.
func slotStart(slotDate, slotTime string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", slotDate+" "+slotTime, loc)
}

// sendReminderEmail constructs and sends the reminder email
func sendReminderEmail(appointment *models.Appointment) error {
	subject := fmt.Sprintf("Reminder: Appointment with %s", appointment.DoctorName)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your upcoming appointment.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Doctor:</strong> %s (%s)</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
		</ul>
		<p>Please arrive on time. If you need to cancel, do so as soon as possible.</p>
		<p>Best regards,</p>
		<p>Your Appointment Team</p>
	`, appointment.PatientName, appointment.DoctorName, appointment.DoctorSpeciality,
		appointment.SlotDate, appointment.SlotTime)

	return utils.SendEmail(appointment.Patient.Email, subject, body)
}
