package models

import (
	"fmt"

	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusBooked    AppointmentStatus = "booked"
	StatusPaid      AppointmentStatus = "paid"
	StatusCompleted AppointmentStatus = "completed"
	StatusCanceled  AppointmentStatus = "canceled"
)

// Appointment is the ledger record for a booking. The patient and doctor are
// referenced by id; the fee and display fields are captured once at booking
// time so later profile edits do not rewrite history.
type Appointment struct {
	gorm.Model
	PatientID uint    `json:"patient_id"`
	Patient   Patient `json:"patient,omitempty" gorm:"foreignKey:PatientID"`
	DoctorID  uint    `json:"doctor_id"`
	Doctor    Doctor  `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`

	SlotDate string `json:"slot_date"` // "2006-01-02"
	SlotTime string `json:"slot_time"` // "15:04"

	Status AppointmentStatus `json:"status"`

	// Booking-time snapshot
	BookedFee        float64 `json:"booked_fee"`
	DoctorName       string  `json:"doctor_name"`
	DoctorSpeciality string  `json:"doctor_speciality"`
	DoctorImageURL   string  `json:"doctor_image_url"`
	PatientName      string  `json:"patient_name"`

	PaymentIntentID string `json:"payment_intent_id,omitempty"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusBooked
	}
	return nil
}

// CanTransition reports whether the status machine allows moving to next.
// booked -> paid | completed | canceled; paid -> completed | canceled;
// completed and canceled are terminal.
func (s AppointmentStatus) CanTransition(next AppointmentStatus) bool {
	switch s {
	case StatusBooked:
		return next == StatusPaid || next == StatusCompleted || next == StatusCanceled
	case StatusPaid:
		return next == StatusCompleted || next == StatusCanceled
	default:
		return false
	}
}

// Terminal reports whether no further transitions are allowed.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// UpdateStatus validates the transition and persists the new status.
func (a *Appointment) UpdateStatus(tx *gorm.DB, newStatus AppointmentStatus) error {
	if !a.Status.CanTransition(newStatus) {
		return fmt.Errorf("invalid transition from %s to %s", a.Status, newStatus)
	}

	a.Status = newStatus
	if err := tx.Save(a).Error; err != nil {
		return err
	}
	return nil
}
