package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ruangtulis/ruangtulis/app/repository"
	"github.com/ruangtulis/ruangtulis/internal/pkg/adminauth"
	"github.com/ruangtulis/ruangtulis/internal/pkg/cache"
	"github.com/ruangtulis/ruangtulis/internal/pkg/env"
	"github.com/ruangtulis/ruangtulis/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	adminauth.Setup()
	if env.GetEnv("ARTICLE_STORE", repository.StoreFile) == repository.StoreRedis {
		cache.SetupCache()
	}
	repository.InitializeFactory()

	// init fiber app
	app := fiber.New(fiber.Config{
		// uploads are capped at 5 MiB; leave headroom for the form envelope
		BodyLimit: 6 * 1024 * 1024,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			"admin": env.GetEnv("METRICS_PASSWORD", "test"),
		},
	}), monitor.New())

	// ROUTER
	router.InstallRouter(app)

	return app
}
