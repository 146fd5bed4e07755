package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
)

type uploadResult struct {
	path string
	ok   bool
	err  error
}

func uploadApp(result *uploadResult) *fiber.App {
	app := fiber.New()
	app.Post("/upload", func(c *fiber.Ctx) error {
		result.path, result.ok, result.err = saveUpload(c, "image")
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestSaveUploadStoresSuppliedFile(t *testing.T) {
	var result uploadResult
	app := uploadApp(&result)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", "avatar.png")
	if err != nil {
		t.Fatalf("failed to build multipart body: %v", err)
	}
	part.Write([]byte("fake image bytes"))
	writer.Close()

	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if _, err := app.Test(req); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(uploadDir) })

	if result.err != nil {
		t.Fatalf("saveUpload returned error: %v", result.err)
	}
	if !result.ok {
		t.Fatal("a supplied file must be reported as present")
	}
	if _, err := os.Stat(result.path); err != nil {
		t.Errorf("uploaded file was not stored: %v", err)
	}
}

func TestSaveUploadReportsMissingFile(t *testing.T) {
	var result uploadResult
	app := uploadApp(&result)

	req := httptest.NewRequest("POST", "/upload", nil)
	if _, err := app.Test(req); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if result.ok {
		t.Error("a request without a file must not be treated as an upload")
	}
	if result.err != nil {
		t.Errorf("a missing file is not an error, got %v", result.err)
	}
}
