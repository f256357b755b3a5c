package repository

import (
	"context"

	"github.com/ruangtulis/ruangtulis/app/models"
)

// ArticleParams carries the caller-supplied content fields for Create and
// Update. Image is the optional featured image URL; an empty value means
// "unset" on Create and "leave as-is" on Update.
type ArticleParams struct {
	Title    string
	Author   string
	Email    string
	Content  string
	Category string
	Excerpt  string
	Image    string
}

// ArticleRepository is the persistence contract both backends satisfy
// identically. Lookup methods return (nil, nil) for an unknown id; errors
// are reserved for backend failures.
type ArticleRepository interface {
	// Create allocates a fresh id, stores the article with status pending
	// and CreatedAt == UpdatedAt, and returns the stored record.
	Create(ctx context.Context, p ArticleParams) (*models.Article, error)
	// List returns all articles newest-first by CreatedAt, optionally
	// filtered by status ("" means no filter).
	List(ctx context.Context, statusFilter string) ([]models.Article, error)
	GetByID(ctx context.Context, id uint64) (*models.Article, error)
	// Update replaces the content fields and refreshes UpdatedAt. Status
	// and CreatedAt are never touched.
	Update(ctx context.Context, id uint64, p ArticleParams) (*models.Article, error)
	// SetStatus updates only Status and UpdatedAt.
	SetStatus(ctx context.Context, id uint64, status string) (*models.Article, error)
	// Delete removes the record and reports whether it existed.
	Delete(ctx context.Context, id uint64) (bool, error)
}
