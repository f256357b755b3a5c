package router

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"

	"github.com/ruangtulis/ruangtulis/app/controllers"
	"github.com/ruangtulis/ruangtulis/app/models"
	"github.com/ruangtulis/ruangtulis/app/repository"
	"github.com/ruangtulis/ruangtulis/internal/pkg/adminauth"
	"github.com/ruangtulis/ruangtulis/internal/pkg/env"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api")

	// Public write routes share one limiter. When the redis article store
	// is active, limiter counters live in redis db 1 so they survive
	// restarts; in file mode the in-memory default is used.
	maxReqs, err := strconv.Atoi(env.GetEnv("RATE_LIMIT_MAX", "20"))
	if err != nil {
		maxReqs = 20
	}
	writeLimiter := limiter.New(limiter.Config{
		Max:        maxReqs,
		Expiration: time.Minute,
		Storage:    newLimiterStorage(),
	})

	requireAdmin := adminauth.Middleware()

	articles := api.Group("/articles")
	articles.Get("/", controllers.HandleListPublicArticles)
	articles.Get("/all", requireAdmin, controllers.HandleListAllArticles)
	articles.Post("/submit", writeLimiter, controllers.HandleSubmitArticle)
	articles.Patch("/:id/approve", requireAdmin, controllers.HandleApproveArticle)
	articles.Patch("/:id/reject", requireAdmin, controllers.HandleRejectArticle)
	articles.Patch("/:id", requireAdmin, controllers.HandleUpdateArticle)
	articles.Delete("/:id", requireAdmin, controllers.HandleDeleteArticle)
	articles.Get("/:id", controllers.HandleGetArticle)

	api.Get("/categories", func(c *fiber.Ctx) error {
		return c.JSON(models.ArticleCategories)
	})

	api.Post("/upload", writeLimiter, controllers.HandleUploadImage)
	api.Post("/admin/login", writeLimiter, controllers.HandleAdminLogin)
}

func newLimiterStorage() fiber.Storage {
	if env.GetEnv("ARTICLE_STORE", repository.StoreFile) != repository.StoreRedis {
		return nil // limiter falls back to its in-memory store
	}
	port, err := strconv.Atoi(env.GetEnv("REDIS_PORT", "6379"))
	if err != nil {
		port = 6379
	}
	return redisstorage.New(redisstorage.Config{
		Host:     env.GetEnv("REDIS_HOST", "localhost"),
		Port:     port,
		Password: env.GetEnv("REDIS_PASSWORD", ""),
		Database: 1, // keep limiter counters out of the article keyspace
		Reset:    false,
	})
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
