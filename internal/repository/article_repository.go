package repository

import (
	"context"

	"typoteka/internal/domain/entity"
)

// ListOptions controls an article listing.
type ListOptions struct {
	Limit        int
	Offset       int
	WithComments bool
	// CategoryID restricts the listing to one category when non-zero.
	CategoryID int64
}

// LoadOptions controls which relations are loaded with a single article.
type LoadOptions struct {
	WithComments bool
}

type ArticleRepository interface {
	// List returns one page of articles, newest first, with their categories
	// and, when requested, their comments.
	List(ctx context.Context, opts ListOptions) ([]*entity.Article, error)
	// Count returns the total number of articles, or the number of articles in
	// one category when categoryID is non-zero.
	Count(ctx context.Context, categoryID int64) (int64, error)
	// Get returns (nil, nil) if the article is not found.
	Get(ctx context.Context, id int64, opts LoadOptions) (*entity.Article, error)
	// Search returns articles whose title or full text contains every keyword.
	Search(ctx context.Context, keywords []string) ([]*entity.Article, error)
	// Create persists the article and its category associations atomically
	// and fills in ID and CreatedAt.
	Create(ctx context.Context, article *entity.Article) error
	// Update replaces the article fields and its category associations
	// atomically. Returns false if the article does not exist.
	Update(ctx context.Context, article *entity.Article) (bool, error)
	// Delete removes the article, its comments and its category associations.
	// Categories themselves are kept.
	Delete(ctx context.Context, id int64) (bool, error)
}
