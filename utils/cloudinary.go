package utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// InitCloudinary initializes the Cloudinary client
func InitCloudinary() (*cloudinary.Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(
		os.Getenv("CLOUDINARY_CLOUD_NAME"),
		os.Getenv("CLOUDINARY_API_KEY"),
		os.Getenv("CLOUDINARY_API_SECRET"))
	if err != nil {
		return nil, err
	}
	return cld, nil
}

// UploadImage uploads a local image file to Cloudinary, removes the local
// temp file and returns the secure URL.
func UploadImage(localPath string, folder string) (string, error) {
	cld, err := InitCloudinary()
	if err != nil {
		return "", err
	}

	publicID := uuid.NewString()
	ext := filepath.Ext(localPath)
	if ext == ".pdf" || ext == ".PDF" {
		return "", fmt.Errorf("only image uploads are supported")
	}

	ctx := context.Background()
	resp, err := cld.Upload.Upload(ctx, localPath, uploader.UploadParams{
		PublicID:       publicID,
		Folder:         folder,
		Transformation: "c_thumb,w_200,h_200", // Resize profile pictures
	})
	if err != nil {
		return "", err
	}

	// Local temp file is only needed for the upload
	if err := os.Remove(localPath); err != nil {
		fmt.Println("Warning: failed to remove temp file:", localPath)
	}

	return resp.SecureURL, nil
}
