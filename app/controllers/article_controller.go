package controllers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ruangtulis/ruangtulis/app/models"
	"github.com/ruangtulis/ruangtulis/app/repository"
	"github.com/ruangtulis/ruangtulis/internal/pkg/adminauth"
	"github.com/ruangtulis/ruangtulis/internal/pkg/content"
)

// ExcerptLimit is the teaser length derived from article text on
// submission and edit.
const ExcerptLimit = 150

// ArticleRequest is the payload for article submission and edits.
// Excerpt and Image are optional; the server derives them from the
// content when omitted.
type ArticleRequest struct {
	Title    string `json:"title" validate:"required"`
	Author   string `json:"author" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Content  string `json:"content" validate:"required"`
	Category string `json:"category" validate:"required"`
	Excerpt  string `json:"excerpt"`
	Image    string `json:"image"`
}

var validate = validator.New()

// params resolves the optional fields: excerpt from the decoded text
// with placeholders stripped, featured image from the first inline image.
func (r ArticleRequest) params() repository.ArticleParams {
	env := content.Decode(r.Content)

	excerpt := r.Excerpt
	if excerpt == "" {
		excerpt = content.Excerpt(env.Text, ExcerptLimit)
	}
	image := r.Image
	if image == "" {
		image = content.FirstImagePath(env.Images)
	}

	return repository.ArticleParams{
		Title:    r.Title,
		Author:   r.Author,
		Email:    r.Email,
		Content:  r.Content,
		Category: r.Category,
		Excerpt:  excerpt,
		Image:    image,
	}
}

func parseArticleRequest(c *fiber.Ctx) (*ArticleRequest, error) {
	var req ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "Invalid request body",
		})
	}
	if err := validate.Struct(req); err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_failed",
			"message": "All fields (title, author, email, category, content) are required and the email must be valid",
		})
	}
	if !models.IsAssignableCategory(req.Category) {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_failed",
			"message": "Unknown article category",
		})
	}
	return &req, nil
}

func parseArticleID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return 0, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "Invalid article id",
		})
	}
	return id, nil
}

// HandleSubmitArticle accepts a public article submission. The created
// record always starts out pending moderation.
func HandleSubmitArticle(c *fiber.Ctx) error {
	req, err := parseArticleRequest(c)
	if err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetArticleRepository()
	article, err := repo.Create(c.Context(), req.params())
	if err != nil {
		log.Errorf("[Articles] Failed to store submission: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "Failed to save the article",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Your article has been submitted and is awaiting admin approval",
		"article": article,
	})
}

// HandleListPublicArticles returns all approved articles, newest first.
func HandleListPublicArticles(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetArticleRepository()
	articles, err := repo.List(c.Context(), models.STATUS_APPROVED)
	if err != nil {
		log.Errorf("[Articles] Failed to list articles: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "Failed to load articles",
		})
	}
	return c.JSON(articles)
}

// HandleGetArticle returns a single article. Articles still in moderation
// are only visible with an admin credential; existence is not leaked.
func HandleGetArticle(c *fiber.Ctx) error {
	id, err := parseArticleID(c)
	if err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetArticleRepository()
	article, err := repo.GetByID(c.Context(), id)
	if err != nil {
		log.Errorf("[Articles] Failed to fetch article %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "Failed to load the article",
		})
	}
	if article == nil || (article.Status != models.STATUS_APPROVED && !adminauth.VerifyToken(c.Get(adminauth.TokenHeader))) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "Article not found",
		})
	}
	return c.JSON(article)
}
