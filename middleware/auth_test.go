package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func signTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	claims["exp"] = time.Now().Add(time.Hour).Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(Secret())
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func adminTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/admin-only", Protected(), RequireAdmin(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true})
	})
	app.Get("/patient-only", Protected(), RequirePatient(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true})
	})
	return app
}

func TestAdminTokenAccepted(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	app := adminTestApp()

	token := signTestToken(t, jwt.MapClaims{"email": "admin@example.com", "role": RoleAdmin})
	req := httptest.NewRequest("GET", "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}
}

func TestAdminRouteRejectsPatientToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	app := adminTestApp()

	token := signTestToken(t, jwt.MapClaims{"id": 42, "role": RolePatient})
	req := httptest.NewRequest("GET", "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusForbidden)
	}
}

func TestAdminRouteRejectsWrongEmailClaim(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	app := adminTestApp()

	token := signTestToken(t, jwt.MapClaims{"email": "intruder@example.com", "role": RoleAdmin})
	req := httptest.NewRequest("GET", "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusForbidden)
	}
}

func TestMissingTokenRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")
	app := adminTestApp()

	req := httptest.NewRequest("GET", "/admin-only", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusUnauthorized)
	}
}

func TestPatientTokenAccepted(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")
	app := adminTestApp()

	token := signTestToken(t, jwt.MapClaims{"id": 42, "role": RolePatient})
	req := httptest.NewRequest("GET", "/patient-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}
}
