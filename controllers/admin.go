package controllers

import (
	"encoding/json"
	"fmt"
	"os"
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

// AdminLogin compares the submitted credentials against configuration. The
// admin identity is never stored in the database.
func AdminLogin(c *fiber.Ctx) error {
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

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" ||
		input.Email != adminEmail || input.Password != adminPassword {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Email or password is invalid",
		})
	}

	token, err := issueToken(jwt.MapClaims{
		"email": adminEmail,
		"role":  middleware.RoleAdmin,
	}, 24*time.Hour)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to generate token",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Admin successfully logged in",
		"token":   token,
	})
}

// AddDoctor creates a practitioner account with a required profile image
func AddDoctor(c *fiber.Ctx) error {
	name := c.FormValue("name")
	email := c.FormValue("email")
	password := c.FormValue("password")
	speciality := c.FormValue("speciality")
	degree := c.FormValue("degree")
	experience := c.FormValue("experience")
	about := c.FormValue("about")
	rawFees := c.FormValue("fees")

	if name == "" || email == "" || password == "" || speciality == "" ||
		degree == "" || experience == "" || about == "" || rawFees == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Missing required fields",
		})
	}
	if !validEmail(email) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Please enter a valid email",
		})
	}
	if len(password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Password should be at least 6 characters",
		})
	}

	fees, err := strconv.ParseFloat(rawFees, 64)
	if err != nil || fees < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid fees value",
		})
	}

	var address models.Address
	if rawAddress := c.FormValue("address"); rawAddress != "" {
		if err := json.Unmarshal([]byte(rawAddress), &address); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Error parsing address field. Make sure it's valid JSON.",
			})
		}
	}

	var existing models.Doctor
	if db.DB.Where("email = ?", email).First(&existing).RowsAffected > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "A doctor with this email already exists",
		})
	}

	localPath, hasImage, err := saveUpload(c, "image")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to store uploaded image",
		})
	}
	if !hasImage {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Image file is missing",
		})
	}
	imageURL, err := utils.UploadImage(localPath, "doctors")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": fmt.Sprintf("Failed to upload image: %v", err),
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to hash password",
		})
	}

	doctor := models.Doctor{
		Name:        name,
		Email:       email,
		Password:    string(hashedPassword),
		ImageURL:    imageURL,
		Speciality:  speciality,
		Degree:      degree,
		Experience:  experience,
		About:       about,
		Available:   true,
		Fees:        fees,
		Address:     address,
		BookedSlots: models.BookedSlots{},
	}

	if err := db.DB.Create(&doctor).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create doctor: " + err.Error(),
		})
	}

	redis.Delete(redis.DoctorsKey)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "New doctor added to database",
		"data":    doctor.PublicProfile(),
	})
}

// AdminChangeAvailability toggles a doctor's available flag by id
func AdminChangeAvailability(c *fiber.Ctx) error {
	doctorID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid doctor ID",
		})
	}
	return toggleDoctorAvailability(c, uint(doctorID))
}

// GetAllAppointments returns the full ledger for the admin panel
func GetAllAppointments(c *fiber.Ctx) error {
	var appointments []models.Appointment
	if err := db.DB.Order("created_at desc").Find(&appointments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch appointments",
		})
	}

	return c.JSON(utils.Response{Success: true, Data: appointments})
}

// AdminCancelAppointment cancels any appointment, no ownership check
func AdminCancelAppointment(c *fiber.Ctx) error {
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

	return finishCancellation(c, &appointment)
}

// GetAdminDashboard returns platform-wide counts and the latest 5 bookings
func GetAdminDashboard(c *fiber.Ctx) error {
	var doctorCount, patientCount, appointmentCount int64
	db.DB.Model(&models.Doctor{}).Count(&doctorCount)
	db.DB.Model(&models.Patient{}).Count(&patientCount)
	db.DB.Model(&models.Appointment{}).Count(&appointmentCount)

	var latest []models.Appointment
	if err := db.DB.Order("created_at desc").Limit(5).Find(&latest).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch dashboard data",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"doctors":             doctorCount,
			"patients":            patientCount,
			"appointments":        appointmentCount,
			"latest_appointments": latest,
		},
	})
}
