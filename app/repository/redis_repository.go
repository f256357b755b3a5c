package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/ruangtulis/ruangtulis/app/models"
)

const (
	// ArticleKeyPrefix prefixes the per-article hash key: article:<id>
	ArticleKeyPrefix = "article:"
	// ArticlesByDateKey is the sorted set indexing article keys by
	// creation time so listings avoid a full scan.
	ArticlesByDateKey = "articles_by_date"
	// NextArticleIDKey holds the atomic id counter.
	NextArticleIDKey = "next_article_id"
)

// redisArticleRepository stores each article as a hash plus a sorted-set
// index entry. Id allocation is an atomic INCR, so Create is safe under
// concurrent writers. Update and SetStatus are read-modify-write with no
// optimistic locking; last write wins (accepted for single-admin usage).
type redisArticleRepository struct {
	client *redis.Client
}

// NewRedisArticleRepository returns the key-value backed article store.
func NewRedisArticleRepository(client *redis.Client) ArticleRepository {
	return &redisArticleRepository{client: client}
}

func articleKey(id uint64) string {
	return ArticleKeyPrefix + strconv.FormatUint(id, 10)
}

func (r *redisArticleRepository) Create(ctx context.Context, p ArticleParams) (*models.Article, error) {
	id, err := r.client.Incr(ctx, NextArticleIDKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate article id: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	article := &models.Article{
		ID:        uint64(id),
		Title:     p.Title,
		Excerpt:   p.Excerpt,
		Author:    p.Author,
		Email:     p.Email,
		Content:   p.Content,
		Category:  p.Category,
		Image:     p.Image,
		Status:    models.STATUS_PENDING,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Hash write and index insert go through one pipeline so a
	// half-written article never shows up in listings. The score keeps
	// millisecond precision so same-second submissions stay ordered.
	pipe := r.client.Pipeline()
	pipe.HSet(ctx, articleKey(article.ID), articleToHash(article))
	pipe.ZAdd(ctx, ArticlesByDateKey, redis.Z{
		Score:  float64(time.Now().UnixMilli()),
		Member: articleKey(article.ID),
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to store article %d: %w", article.ID, err)
	}

	log.Infof("[ArticleStore] Article added with ID: %d", article.ID)
	return article, nil
}

func (r *redisArticleRepository) List(ctx context.Context, statusFilter string) ([]models.Article, error) {
	keys, err := r.client.ZRevRange(ctx, ArticlesByDateKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read article index: %w", err)
	}
	if len(keys) == 0 {
		return []models.Article{}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(keys))
	for i, key := range keys {
		cmds[i] = pipe.HGetAll(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to fetch articles: %w", err)
	}

	articles := make([]models.Article, 0, len(keys))
	for i, cmd := range cmds {
		fields, err := cmd.Result()
		if err != nil || len(fields) == 0 {
			// Index entry without a hash: stale, skip it.
			continue
		}
		article, err := articleFromHash(fields)
		if err != nil {
			log.Warnf("[ArticleStore] Skipping malformed article at %s: %v", keys[i], err)
			continue
		}
		if statusFilter != "" && article.Status != statusFilter {
			continue
		}
		articles = append(articles, *article)
	}
	return articles, nil
}

func (r *redisArticleRepository) GetByID(ctx context.Context, id uint64) (*models.Article, error) {
	fields, err := r.client.HGetAll(ctx, articleKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch article %d: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return articleFromHash(fields)
}

func (r *redisArticleRepository) Update(ctx context.Context, id uint64, p ArticleParams) (*models.Article, error) {
	article, err := r.GetByID(ctx, id)
	if err != nil || article == nil {
		return nil, err
	}

	article.Title = p.Title
	article.Excerpt = p.Excerpt
	article.Author = p.Author
	article.Email = p.Email
	article.Content = p.Content
	article.Category = p.Category
	if p.Image != "" {
		article.Image = p.Image
	}
	article.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	if err := r.client.HSet(ctx, articleKey(id), articleToHash(article)).Err(); err != nil {
		return nil, fmt.Errorf("failed to update article %d: %w", id, err)
	}

	log.Infof("[ArticleStore] Article updated with ID: %d", id)
	return article, nil
}

func (r *redisArticleRepository) SetStatus(ctx context.Context, id uint64, status string) (*models.Article, error) {
	article, err := r.GetByID(ctx, id)
	if err != nil || article == nil {
		return nil, err
	}

	article.Status = status
	article.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	err = r.client.HSet(ctx, articleKey(id), map[string]interface{}{
		"status":    article.Status,
		"updatedAt": article.UpdatedAt.Format(time.RFC3339),
	}).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to set status on article %d: %w", id, err)
	}

	log.Infof("[ArticleStore] Article status updated for ID: %d. New status: %s", id, status)
	return article, nil
}

func (r *redisArticleRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	if err := r.client.ZRem(ctx, ArticlesByDateKey, articleKey(id)).Err(); err != nil {
		return false, fmt.Errorf("failed to remove article %d from index: %w", id, err)
	}

	// The hash delete is the source of truth for "did it exist".
	deleted, err := r.client.Del(ctx, articleKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete article %d: %w", id, err)
	}
	if deleted > 0 {
		log.Infof("[ArticleStore] Article deleted with ID: %d", id)
		return true, nil
	}
	return false, nil
}

func articleToHash(a *models.Article) map[string]interface{} {
	fields := map[string]interface{}{
		"id":        strconv.FormatUint(a.ID, 10),
		"title":     a.Title,
		"excerpt":   a.Excerpt,
		"author":    a.Author,
		"email":     a.Email,
		"content":   a.Content,
		"category":  a.Category,
		"status":    a.Status,
		"createdAt": a.CreatedAt.Format(time.RFC3339),
		"updatedAt": a.UpdatedAt.Format(time.RFC3339),
	}
	if a.Image != "" {
		fields["image"] = a.Image
	}
	return fields
}

func articleFromHash(fields map[string]string) (*models.Article, error) {
	id, err := strconv.ParseUint(fields["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid article id %q: %w", fields["id"], err)
	}
	createdAt, err := time.Parse(time.RFC3339, fields["createdAt"])
	if err != nil {
		return nil, fmt.Errorf("invalid createdAt on article %d: %w", id, err)
	}
	updatedAt, err := time.Parse(time.RFC3339, fields["updatedAt"])
	if err != nil {
		return nil, fmt.Errorf("invalid updatedAt on article %d: %w", id, err)
	}

	return &models.Article{
		ID:        id,
		Title:     fields["title"],
		Excerpt:   fields["excerpt"],
		Author:    fields["author"],
		Email:     fields["email"],
		Content:   fields["content"],
		Category:  fields["category"],
		Image:     fields["image"],
		Status:    fields["status"],
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}
