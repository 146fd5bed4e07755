package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/medibook/appointment-api/middleware"
)

func adminLoginApp() *fiber.App {
	app := fiber.New()
	app.Post("/api/admin/login", AdminLogin)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) (*fiber.Map, int) {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var envelope fiber.Map
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return &envelope, resp.StatusCode
}

func TestAdminLoginIssuesAdminToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD", "hunter22")
	app := adminLoginApp()

	envelope, status := postJSON(t, app, "/api/admin/login", map[string]string{
		"email":    "admin@example.com",
		"password": "hunter22",
	})
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, want %d", status, fiber.StatusOK)
	}
	if success, _ := (*envelope)["success"].(bool); !success {
		t.Fatalf("expected success envelope, got %v", *envelope)
	}

	rawToken, _ := (*envelope)["token"].(string)
	if rawToken == "" {
		t.Fatal("expected a token in the response")
	}

	token, err := jwt.Parse(rawToken, func(token *jwt.Token) (interface{}, error) {
		return middleware.Secret(), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["role"] != middleware.RoleAdmin {
		t.Errorf("role claim = %v, want %q", claims["role"], middleware.RoleAdmin)
	}
	if claims["email"] != "admin@example.com" {
		t.Errorf("email claim = %v, want admin@example.com", claims["email"])
	}
	if _, hasPassword := claims["password"]; hasPassword {
		t.Error("token must not embed the admin password")
	}
}

func TestAdminLoginRejectsBadCredentials(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD", "hunter22")
	app := adminLoginApp()

	envelope, status := postJSON(t, app, "/api/admin/login", map[string]string{
		"email":    "admin@example.com",
		"password": "wrong",
	})
	if status != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", status, fiber.StatusUnauthorized)
	}
	if success, _ := (*envelope)["success"].(bool); success {
		t.Fatal("expected a failure envelope")
	}
}

func TestAdminLoginRejectsWhenUnconfigured(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD", "")
	app := adminLoginApp()

	// Empty configured credentials must never authenticate an empty login
	_, status := postJSON(t, app, "/api/admin/login", map[string]string{
		"email":    "",
		"password": "",
	})
	if status != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", status, fiber.StatusUnauthorized)
	}

	// Same when only the email is configured: an empty submitted password
	// would otherwise compare equal to the unset ADMIN_PASSWORD
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	_, status = postJSON(t, app, "/api/admin/login", map[string]string{
		"email":    "admin@example.com",
		"password": "",
	})
	if status != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", status, fiber.StatusUnauthorized)
	}
}
