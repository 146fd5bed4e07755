package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// BookedSlots maps a calendar date ("2006-01-02") to the list of times
// ("15:04") already reserved on that date. Stored as JSONB.
type BookedSlots map[string][]string

type Doctor struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	Name         string        `json:"name"`
	Email        string        `json:"email" gorm:"unique"`
	Password     string        `json:"password,omitempty"`
	ImageURL     string        `json:"image_url"`
	Speciality   string        `json:"speciality"`
	Degree       string        `json:"degree"`
	Experience   string        `json:"experience"`
	About        string        `json:"about"`
	Available    bool          `json:"available" gorm:"default:true"`
	Fees         float64       `json:"fees"`
	Address      Address       `json:"address" gorm:"type:jsonb"`
	BookedSlots  BookedSlots   `json:"booked_slots" gorm:"type:jsonb"`
	Appointments []Appointment `json:"appointments,omitempty" gorm:"foreignKey:DoctorID"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Has reports whether the given time is already reserved on the given date.
func (s BookedSlots) Has(date, slotTime string) bool {
	for _, t := range s[date] {
		if t == slotTime {
			return true
		}
	}
	return false
}

// Reserve marks the slot as booked. It returns false without mutating
// anything when the slot is already taken.
func (s *BookedSlots) Reserve(date, slotTime string) bool {
	if *s == nil {
		*s = BookedSlots{}
	}
	if s.Has(date, slotTime) {
		return false
	}
	(*s)[date] = append((*s)[date], slotTime)
	return true
}

// Release frees a previously reserved slot. Releasing a slot that is not
// reserved is a no-op, so cancellation stays idempotent.
func (s BookedSlots) Release(date, slotTime string) {
	times := s[date]
	for i, t := range times {
		if t == slotTime {
			s[date] = append(times[:i], times[i+1:]...)
			break
		}
	}
	if len(s[date]) == 0 {
		delete(s, date)
	}
}

// Value implements the driver.Valuer interface
func (s BookedSlots) Value() (driver.Value, error) {
	if s == nil {
		s = BookedSlots{}
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil // Return as string for JSONB type
}

// Scan implements the sql.Scanner interface
func (s *BookedSlots) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal BookedSlots: unsupported type %T", value)
	}

	return json.Unmarshal(data, s)
}

// PublicProfile strips credentials before the record leaves the API.
func (d Doctor) PublicProfile() Doctor {
	d.Password = ""
	return d
}
