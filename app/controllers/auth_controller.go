package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ruangtulis/ruangtulis/internal/pkg/adminauth"
)

type adminLoginRequest struct {
	Password string `json:"password"`
}

// HandleAdminLogin exchanges the shared admin secret for the bearer
// credential used on privileged routes. There is no session behind it.
func HandleAdminLogin(c *fiber.Ctx) error {
	var req adminLoginRequest
	if err := c.BodyParser(&req); err != nil || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "Password is required",
		})
	}

	if !adminauth.VerifyPassword(req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "Invalid password",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   adminauth.IssueToken(),
		"message": "Login successful",
	})
}
