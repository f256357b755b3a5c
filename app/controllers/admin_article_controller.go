package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ruangtulis/ruangtulis/app/models"
	"github.com/ruangtulis/ruangtulis/app/repository"
)

// Admin moderation handlers. Authorization is enforced by the adminauth
// middleware installed on these routes; the handlers assume it ran.

// HandleListAllArticles returns every article regardless of status.
func HandleListAllArticles(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetArticleRepository()
	articles, err := repo.List(c.Context(), "")
	if err != nil {
		log.Errorf("[Moderation] Failed to list articles: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "Failed to load articles",
		})
	}
	return c.JSON(articles)
}

// HandleApproveArticle transitions an article to approved. Approving an
// already approved article is a harmless no-op; there is no way back to
// pending.
func HandleApproveArticle(c *fiber.Ctx) error {
	return setArticleStatus(c, models.STATUS_APPROVED, "Article approved")
}

// HandleRejectArticle transitions an article to rejected. A rejected
// article can still be approved later.
func HandleRejectArticle(c *fiber.Ctx) error {
	return setArticleStatus(c, models.STATUS_REJECTED, "Article rejected")
}

func setArticleStatus(c *fiber.Ctx, status, message string) error {
	id, err := parseArticleID(c)
	if err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetArticleRepository()
	article, err := repo.SetStatus(c.Context(), id, status)
	if err != nil {
		log.Errorf("[Moderation] Failed to set status on article %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "Failed to update the article status",
		})
	}
	if article == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "Article not found",
		})
	}

	return c.JSON(fiber.Map{
		"message": message,
		"article": article,
	})
}

// HandleUpdateArticle replaces an article's content fields. The
// moderation status is deliberately left untouched: editing a pending
// article does not approve it, editing an approved one does not unpublish
// it.
func HandleUpdateArticle(c *fiber.Ctx) error {
	id, err := parseArticleID(c)
	if err != nil {
		return err
	}
	req, err := parseArticleRequest(c)
	if err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetArticleRepository()
	article, err := repo.Update(c.Context(), id, req.params())
	if err != nil {
		log.Errorf("[Moderation] Failed to update article %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "Failed to update the article",
		})
	}
	if article == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "Article not found",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Article updated",
		"article": article,
	})
}

// HandleDeleteArticle hard-deletes an article from any state.
func HandleDeleteArticle(c *fiber.Ctx) error {
	id, err := parseArticleID(c)
	if err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetArticleRepository()
	deleted, err := repo.Delete(c.Context(), id)
	if err != nil {
		log.Errorf("[Moderation] Failed to delete article %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "Failed to delete the article",
		})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "Article not found",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Article deleted",
	})
}
