package controllers

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/medibook/appointment-api/db"
	"github.com/medibook/appointment-api/middleware"
	"github.com/medibook/appointment-api/models"
	"github.com/medibook/appointment-api/redis"
	"github.com/medibook/appointment-api/utils"
)

const doctorsCacheTTL = 5 * time.Minute

// GetDoctors returns the public doctor directory, served from Redis when warm
func GetDoctors(c *fiber.Ctx) error {
	var doctors []models.Doctor
	if redis.GetJSON(redis.DoctorsKey, &doctors) {
		return c.JSON(utils.Response{Success: true, Data: doctors})
	}

	if err := db.DB.Find(&doctors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch doctors",
		})
	}

	// The public listing hides credentials and contact email
	for i := range doctors {
		doctors[i].Password = ""
		doctors[i].Email = ""
	}

	redis.SetJSON(redis.DoctorsKey, doctors, doctorsCacheTTL)

	return c.JSON(utils.Response{Success: true, Data: doctors})
}

// GetDoctor returns a single doctor's public profile
func GetDoctor(c *fiber.Ctx) error {
	id := c.Params("id")

	var doctor models.Doctor
	if err := db.DB.First(&doctor, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Doctor not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Doctor data fetched successfully",
		"data":    doctor.PublicProfile(),
	})
}

// DoctorLogin handles doctor authentication
func DoctorLogin(c *fiber.Ctx) error {
	type LoginInput struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	input := new(LoginInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Cannot parse JSON",
		})
	}

	var doctor models.Doctor
	if db.DB.Where("email = ?", input.Email).First(&doctor).RowsAffected == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Invalid credentials",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(doctor.Password), []byte(input.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Invalid credentials",
		})
	}

	token, err := issueToken(jwt.MapClaims{
		"id":   doctor.ID,
		"role": middleware.RoleDoctor,
	}, 24*time.Hour)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to generate token",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Doctor logged in successfully",
		"data":    doctor.PublicProfile(),
		"token":   token,
	})
}

// GetDoctorAppointments lists appointments for the logged-in doctor
func GetDoctorAppointments(c *fiber.Ctx) error {
	doctorID := c.Locals("userID").(uint)

	var appointments []models.Appointment
	if err := db.DB.Where("doctor_id = ?", doctorID).
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

// CompleteAppointment marks one of the doctor's own appointments completed.
// The availability map is left alone, the time has already passed.
func CompleteAppointment(c *fiber.Ctx) error {
	doctorID := c.Locals("userID").(uint)

	appointmentID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid appointment ID",
		})
	}

	var appointment models.Appointment
	if err := db.DB.First(&appointment, appointmentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Appointment not found",
		})
	}

	if appointment.DoctorID != doctorID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "You can only complete your own appointments",
		})
	}

	if err := appointment.UpdateStatus(db.DB, models.StatusCompleted); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Appointment completed",
		"data":    appointment,
	})
}

// CancelDoctorAppointment cancels one of the doctor's own appointments
func CancelDoctorAppointment(c *fiber.Ctx) error {
	doctorID := c.Locals("userID").(uint)

	appointmentID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid appointment ID",
		})
	}

	var appointment models.Appointment
	if err := db.DB.First(&appointment, appointmentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Appointment not found",
		})
	}

	if appointment.DoctorID != doctorID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "You can only cancel your own appointments",
		})
	}

	return finishCancellation(c, &appointment)
}

// ToggleAvailability flips the doctor's available flag
func ToggleAvailability(c *fiber.Ctx) error {
	doctorID := c.Locals("userID").(uint)
	return toggleDoctorAvailability(c, doctorID)
}

func toggleDoctorAvailability(c *fiber.Ctx, doctorID uint) error {
	var doctor models.Doctor
	if err := db.DB.First(&doctor, doctorID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Doctor not found",
		})
	}

	if err := db.DB.Model(&doctor).Update("available", !doctor.Available).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to change availability",
		})
	}

	redis.Delete(redis.DoctorsKey)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Doctor availability changed successfully",
		"data":    doctor.PublicProfile(),
	})
}

// GetDoctorProfile returns the logged-in doctor's own record
func GetDoctorProfile(c *fiber.Ctx) error {
	doctorID := c.Locals("userID").(uint)

	var doctor models.Doctor
	if err := db.DB.First(&doctor, doctorID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Doctor not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    doctor.PublicProfile(),
	})
}

// UpdateDoctorProfile updates the doctor's public profile, optionally with a
// new image
func UpdateDoctorProfile(c *fiber.Ctx) error {
	doctorID := c.Locals("userID").(uint)

	var doctor models.Doctor
	if err := db.DB.First(&doctor, doctorID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Doctor not found",
		})
	}

	name := c.FormValue("name")
	speciality := c.FormValue("speciality")
	degree := c.FormValue("degree")
	experience := c.FormValue("experience")
	about := c.FormValue("about")
	rawFees := c.FormValue("fees")

	if name == "" || speciality == "" || degree == "" || experience == "" || about == "" || rawFees == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Missing doctor's data",
		})
	}

	fees, err := strconv.ParseFloat(rawFees, 64)
	if err != nil || fees < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid fees value",
		})
	}

	updates := map[string]interface{}{
		"name":       name,
		"speciality": speciality,
		"degree":     degree,
		"experience": experience,
		"about":      about,
		"fees":       fees,
	}

	if rawAddress := c.FormValue("address"); rawAddress != "" {
		var address models.Address
		if err := json.Unmarshal([]byte(rawAddress), &address); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Error parsing address field. Make sure it's valid JSON.",
			})
		}
		updates["address"] = address
	}

	// If a new image was uploaded, push it to Cloudinary
	localPath, hasImage, err := saveUpload(c, "image")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to store uploaded image",
		})
	}
	if hasImage {
		imageURL, err := utils.UploadImage(localPath, "doctors")
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": fmt.Sprintf("Failed to upload image: %v", err),
			})
		}
		updates["image_url"] = imageURL
	}

	if err := db.DB.Model(&doctor).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update doctor",
		})
	}

	redis.Delete(redis.DoctorsKey)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Doctor profile has been successfully updated!",
		"data":    doctor.PublicProfile(),
	})
}

// GetDoctorDashboard summarizes the doctor's bookings: totals, distinct
// patients, earnings from paid or completed appointments and the latest 5.
func GetDoctorDashboard(c *fiber.Ctx) error {
	doctorID := c.Locals("userID").(uint)

	var totalAppointments int64
	db.DB.Model(&models.Appointment{}).
		Where("doctor_id = ?", doctorID).
		Count(&totalAppointments)

	var patientCount int64
	db.DB.Model(&models.Appointment{}).
		Where("doctor_id = ?", doctorID).
		Distinct("patient_id").
		Count(&patientCount)

	var earnings float64
	db.DB.Model(&models.Appointment{}).
		Where("doctor_id = ? AND status IN ?", doctorID,
			[]models.AppointmentStatus{models.StatusPaid, models.StatusCompleted}).
		Select("COALESCE(SUM(booked_fee), 0)").
		Scan(&earnings)

	var latest []models.Appointment
	if err := db.DB.Where("doctor_id = ?", doctorID).
		Order("created_at desc").
		Limit(5).
		Find(&latest).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch dashboard data",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"appointments":        totalAppointments,
			"patients":            patientCount,
			"earnings":            earnings,
			"latest_appointments": latest,
		},
	})
}
