package models

import (
	"time"
)

type Patient struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	Name         string        `json:"name"`
	Email        string        `json:"email" gorm:"unique"`
	Password     string        `json:"password,omitempty"`
	Phone        string        `json:"phone"`
	Gender       string        `json:"gender"`
	DateOfBirth  string        `json:"date_of_birth"`
	Address      Address       `json:"address" gorm:"type:jsonb"`
	ImageURL     string        `json:"image_url"`
	Appointments []Appointment `json:"appointments,omitempty" gorm:"foreignKey:PatientID"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
