package controllers

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/medibook/appointment-api/db"
	"github.com/medibook/appointment-api/middleware"
	"github.com/medibook/appointment-api/models"
	"github.com/medibook/appointment-api/utils"
)

const uploadDir = "uploads"

// issueToken signs an HS256 token with the given claims and lifetime.
func issueToken(claims jwt.MapClaims, ttl time.Duration) (string, error) {
	claims["exp"] = time.Now().Add(ttl).Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(middleware.Secret())
}

func validEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// saveUpload stores a multipart file under uploads/ and returns the local
// path. ok is false when the request carries no file for the field; a non-nil
// error means a file was supplied but could not be written to disk.
func saveUpload(c *fiber.Ctx, field string) (localPath string, ok bool, err error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", false, nil
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return "", true, err
	}
	localPath = filepath.Join(uploadDir, uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveFile(file, localPath); err != nil {
		return "", true, err
	}
	return localPath, true, nil
}

// RegisterPatient handles patient registration
func RegisterPatient(c *fiber.Ctx) error {
	patient := new(models.Patient)

	if err := c.BodyParser(patient); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Cannot parse JSON",
		})
	}

	// Validate input
	if patient.Email == "" || patient.Password == "" || patient.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Missing required fields",
		})
	}
	if !validEmail(patient.Email) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Please enter a valid email",
		})
	}
	if len(patient.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Password should be at least 6 characters",
		})
	}

	// Check if patient already exists
	var existing models.Patient
	if db.DB.Where("email = ?", patient.Email).First(&existing).RowsAffected > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "This email is already registered, please use another email",
		})
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(patient.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to hash password",
		})
	}
	patient.Password = string(hashedPassword)

	if err := db.DB.Create(&patient).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create user: " + err.Error(),
		})
	}

	token, err := issueToken(jwt.MapClaims{
		"id":   patient.ID,
		"role": middleware.RolePatient,
	}, 24*time.Hour)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to generate token",
		})
	}

	// Remove password from response
	patient.Password = ""

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "New user is added",
		"data":    patient,
		"token":   token,
	})
}

// LoginPatient handles patient authentication
func LoginPatient(c *fiber.Ctx) error {
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

	var patient models.Patient
	if db.DB.Where("email = ?", input.Email).First(&patient).RowsAffected == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Invalid credentials",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(patient.Password), []byte(input.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Invalid credentials",
		})
	}

	token, err := issueToken(jwt.MapClaims{
		"id":   patient.ID,
		"role": middleware.RolePatient,
	}, 24*time.Hour)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to generate token",
		})
	}

	patient.Password = ""

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User logged in successfully",
		"data":    patient,
		"token":   token,
	})
}

// GetPatientProfile returns the current patient's profile
func GetPatientProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var patient models.Patient
	if err := db.DB.First(&patient, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}

	// Don't send password
	patient.Password = ""

	return c.JSON(fiber.Map{
		"success": true,
		"data":    patient,
	})
}

// UpdatePatientProfile updates contact details and, optionally, the profile picture
func UpdatePatientProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var patient models.Patient
	if err := db.DB.First(&patient, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}

	name := c.FormValue("name")
	phone := c.FormValue("phone")
	dob := c.FormValue("date_of_birth")
	gender := c.FormValue("gender")

	if name == "" || phone == "" || dob == "" || gender == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Missing data",
		})
	}

	updates := map[string]interface{}{
		"name":          name,
		"phone":         phone,
		"date_of_birth": dob,
		"gender":        gender,
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

	// If there's an image, upload to Cloudinary first
	localPath, hasImage, err := saveUpload(c, "image")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to store uploaded image",
		})
	}
	if hasImage {
		imageURL, err := utils.UploadImage(localPath, "patients")
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": fmt.Sprintf("Failed to upload image: %v", err),
			})
		}
		updates["image_url"] = imageURL
	}

	if err := db.DB.Model(&patient).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to update user",
		})
	}

	patient.Password = ""

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User info updated successfully",
		"data":    patient,
	})
}
