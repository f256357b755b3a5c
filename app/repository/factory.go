package repository

import (
	"sync"

	"github.com/ruangtulis/ruangtulis/internal/pkg/cache"
	"github.com/ruangtulis/ruangtulis/internal/pkg/env"
)

const (
	StoreRedis = "redis"
	StoreFile  = "file"
)

// Factory selects the active article store at process start. Call sites
// only ever see the ArticleRepository interface; nothing downstream
// branches on backend identity.
type Factory struct {
	repo ArticleRepository
	once sync.Once
}

// NewFactory creates a new repository factory.
func NewFactory() *Factory {
	return &Factory{}
}

// GetArticleRepository returns the singleton article store instance,
// building it from configuration on first use.
func (f *Factory) GetArticleRepository() ArticleRepository {
	f.once.Do(func() {
		switch env.GetEnv("ARTICLE_STORE", StoreFile) {
		case StoreRedis:
			f.repo = NewRedisArticleRepository(cache.GetClient())
		default:
			f.repo = NewFileArticleRepository(env.GetEnv("ARTICLE_DATA_FILE", "data/articles.json"))
		}
	})
	return f.repo
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory.
func InitializeFactory() {
	factoryOnce.Do(func() {
		globalFactory = NewFactory()
	})
}

// GetGlobalFactory returns the global repository factory instance.
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}
