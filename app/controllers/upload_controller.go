package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/ruangtulis/ruangtulis/internal/pkg/upload"
)

// HandleUploadImage accepts one image file from a multipart form, stores
// it through the configured sink and returns the public URL plus a fresh
// placeholder id the client can insert as [IMAGE:<imageId>].
func HandleUploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "No file was sent",
		})
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if err := upload.Validate(contentType, fileHeader.Size); err != nil {
		message := "The file must be an image"
		if errors.Is(err, upload.ErrTooLarge) {
			message = "File is too large (max 5MB)"
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_failed",
			"message": message,
		})
	}

	filename, err := upload.Filename(fileHeader.Filename)
	if err != nil {
		log.Errorf("[Upload] Failed to generate filename: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "Failed to store the file",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		log.Errorf("[Upload] Failed to open uploaded file: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "Failed to read the file",
		})
	}
	defer src.Close()

	publicURL, err := upload.GetSink().Store(c.Context(), filename, src, fileHeader.Size, contentType)
	if err != nil {
		log.Errorf("[Upload] Failed to store %s: %v", filename, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "Failed to store the file",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "File uploaded",
		"path":     publicURL,
		"filename": filename,
		"imageId":  "img-" + uuid.New().String(),
	})
}
