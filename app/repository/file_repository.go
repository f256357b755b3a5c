package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ruangtulis/ruangtulis/app/models"
	"github.com/ruangtulis/ruangtulis/internal/pkg/content"
)

const excerptLimit = 150

// fileArticleRepository keeps the whole collection in a single
// pretty-printed JSON array. Every write loads the file, mutates in
// memory and rewrites it wholesale. The mutex serializes writers inside
// this process; across processes the backend assumes a single writer.
type fileArticleRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileArticleRepository returns the flat-file backed article store.
func NewFileArticleRepository(path string) ArticleRepository {
	return &fileArticleRepository{path: path}
}

func (r *fileArticleRepository) Create(ctx context.Context, p ArticleParams) (*models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	articles := r.load()

	// Not an atomic counter like the redis backend: max existing id + 1,
	// only safe under the single-writer assumption.
	var maxID uint64
	for _, a := range articles {
		if a.ID > maxID {
			maxID = a.ID
		}
	}

	now := time.Now().UTC().Truncate(time.Second)
	article := models.Article{
		ID:        maxID + 1,
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

	articles = append(articles, article)
	if err := r.save(articles); err != nil {
		return nil, err
	}

	log.Infof("[ArticleStore] Article added with ID: %d", article.ID)
	return &article, nil
}

func (r *fileArticleRepository) List(ctx context.Context, statusFilter string) ([]models.Article, error) {
	r.mu.Lock()
	articles := r.load()
	r.mu.Unlock()

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].CreatedAt.After(articles[j].CreatedAt)
	})

	if statusFilter == "" {
		return articles, nil
	}
	filtered := make([]models.Article, 0, len(articles))
	for _, a := range articles {
		if a.Status == statusFilter {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

func (r *fileArticleRepository) GetByID(ctx context.Context, id uint64) (*models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.load() {
		if a.ID == id {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fileArticleRepository) Update(ctx context.Context, id uint64, p ArticleParams) (*models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	articles := r.load()
	for i := range articles {
		if articles[i].ID != id {
			continue
		}
		articles[i].Title = p.Title
		articles[i].Excerpt = p.Excerpt
		articles[i].Author = p.Author
		articles[i].Email = p.Email
		articles[i].Content = p.Content
		articles[i].Category = p.Category
		if p.Image != "" {
			articles[i].Image = p.Image
		}
		articles[i].UpdatedAt = time.Now().UTC().Truncate(time.Second)

		if err := r.save(articles); err != nil {
			return nil, err
		}
		log.Infof("[ArticleStore] Article updated with ID: %d", id)
		updated := articles[i]
		return &updated, nil
	}
	return nil, nil
}

func (r *fileArticleRepository) SetStatus(ctx context.Context, id uint64, status string) (*models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	articles := r.load()
	for i := range articles {
		if articles[i].ID != id {
			continue
		}
		articles[i].Status = status
		articles[i].UpdatedAt = time.Now().UTC().Truncate(time.Second)

		if err := r.save(articles); err != nil {
			return nil, err
		}
		log.Infof("[ArticleStore] Article status updated for ID: %d. New status: %s", id, status)
		updated := articles[i]
		return &updated, nil
	}
	return nil, nil
}

func (r *fileArticleRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	articles := r.load()
	for i := range articles {
		if articles[i].ID != id {
			continue
		}
		articles = append(articles[:i], articles[i+1:]...)
		if err := r.save(articles); err != nil {
			return false, err
		}
		log.Infof("[ArticleStore] Article deleted with ID: %d", id)
		return true, nil
	}
	return false, nil
}

// load reads the whole collection. A missing file is an empty collection;
// unreadable or corrupt data is logged and treated as empty as well,
// trading data-loss risk for availability.
func (r *fileArticleRepository) load() []models.Article {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("[ArticleStore] Could not read %s, starting empty: %v", r.path, err)
		}
		return []models.Article{}
	}

	var articles []models.Article
	if err := json.Unmarshal(raw, &articles); err != nil {
		log.Warnf("[ArticleStore] Corrupt article data in %s, starting empty: %v", r.path, err)
		return []models.Article{}
	}

	return migrateLegacy(articles)
}

func (r *fileArticleRepository) save(articles []models.Article) error {
	raw, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode articles: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.WriteFile(r.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.path, err)
	}
	return nil
}

// migrateLegacy normalizes records written before the moderation fields
// existed: such articles were publicly visible, so they become approved,
// and a missing excerpt is derived from the content text. A status that
// is not one of the three moderation states is treated the same as a
// missing one.
func migrateLegacy(articles []models.Article) []models.Article {
	for i := range articles {
		if !models.IsValidStatus(articles[i].Status) {
			articles[i].Status = models.STATUS_APPROVED
		}
		if articles[i].Excerpt == "" && articles[i].Content != "" {
			env := content.Decode(articles[i].Content)
			articles[i].Excerpt = content.Excerpt(env.Text, excerptLimit)
		}
	}
	return articles
}
