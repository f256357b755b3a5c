package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ruangtulis/ruangtulis/internal/pkg/env"
	"github.com/ruangtulis/ruangtulis/internal/pkg/upload"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":   "ruangtulis",
			"status": "ok",
		})
	})

	// Locally stored uploads are served as static files. With the S3
	// driver the blob store serves them itself.
	if env.GetEnv("UPLOAD_DRIVER", upload.DriverLocal) == upload.DriverLocal {
		app.Static(
			env.GetEnv("UPLOAD_PUBLIC_BASE", "/uploads/articles"),
			env.GetEnv("UPLOAD_DIR", "public/uploads/articles"),
			fiber.Static{
				CacheDuration: 10 * time.Second,
				MaxAge:        604800, // 7 days
			},
		)
	}
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
