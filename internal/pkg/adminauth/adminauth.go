package adminauth

import (
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ruangtulis/ruangtulis/internal/pkg/env"
)

// TokenHeader carries the admin credential on every privileged request.
const TokenHeader = "X-Admin-Token"

var adminSecret string

// Setup loads the shared admin secret from configuration. The process
// cannot run without it.
func Setup() {
	secret := env.GetEnv("ADMIN_SECRET", "")
	if secret == "" {
		panic("FATAL: The ADMIN_SECRET environment variable is not set. The application cannot start without it.")
	}
	adminSecret = secret
}

// VerifyPassword checks a login attempt against the configured secret.
func VerifyPassword(password string) bool {
	return adminSecret != "" && password == adminSecret
}

// IssueToken returns the opaque bearer credential handed out on login.
// It is a base64 encoding embedding the secret itself: no expiry, no
// revocation, no per-admin identity. A single shared-password gate.
func IssueToken() string {
	return base64.StdEncoding.EncodeToString([]byte("admin:" + adminSecret))
}

// VerifyToken decodes a presented credential and compares the embedded
// secret to the configured one. Any decode failure means unauthorized.
func VerifyToken(token string) bool {
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return false
	}
	parts := strings.SplitN(string(decoded), ":", 2)
	if len(parts) != 2 {
		return false
	}
	return VerifyPassword(parts[1])
}

// Middleware rejects requests without a valid admin credential before
// any mutation is attempted.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := strings.TrimSpace(c.Get(TokenHeader))
		if token == "" || !VerifyToken(token) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "unauthorized",
				"message": "Admin authentication required",
			})
		}
		return c.Next()
	}
}
