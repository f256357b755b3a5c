package models

import (
	"time"
)

const (
	STATUS_PENDING  = "pending"
	STATUS_APPROVED = "approved"
	STATUS_REJECTED = "rejected"
)

// CATEGORY_ALL is a UI-only filter pseudo-category. It is never assigned
// to a stored article.
const CATEGORY_ALL = "semua"

// Category identifiers, kept in sync with the public essay collection.
var ArticleCategories = []Category{
	{ID: "filsafat-sains", Label: "Filsafat Sains"},
	{ID: "teologi", Label: "Teologi"},
	{ID: "bioetika", Label: "Bioetika"},
	{ID: "logika", Label: "Logika"},
	{ID: "epistemologi", Label: "Epistemologi"},
	{ID: "metafisika", Label: "Metafisika"},
	{ID: "filosofi-agama", Label: "Filosofi Agama"},
	{ID: "pendidikan", Label: "Pendidikan"},
	{ID: CATEGORY_ALL, Label: "Semua"},
}

type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Article is the sole persisted entity: a submitted essay with a
// moderation status. Content may hold a JSON envelope with inline image
// references (see internal/pkg/content) or legacy plain text; the store
// treats it as an opaque string either way.
type Article struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	Author    string    `json:"author"`
	Email     string    `json:"email"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Image     string    `json:"image,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsValidStatus reports whether s is one of the three moderation states.
func IsValidStatus(s string) bool {
	switch s {
	case STATUS_PENDING, STATUS_APPROVED, STATUS_REJECTED:
		return true
	}
	return false
}

// IsAssignableCategory reports whether id names a real category an article
// may carry. The "semua" pseudo-category exists only for filtering.
func IsAssignableCategory(id string) bool {
	for _, c := range ArticleCategories {
		if c.ID == id {
			return id != CATEGORY_ALL
		}
	}
	return false
}
