package repository

import (
	"context"

	"typoteka/internal/domain/entity"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]*entity.Category, error)
	// ListWithCount fills ArticleCount on every category, zero included.
	ListWithCount(ctx context.Context) ([]*entity.Category, error)
	// FindByIDs returns the categories that exist among ids. Missing ids are
	// simply absent from the result.
	FindByIDs(ctx context.Context, ids []int64) ([]*entity.Category, error)
	Get(ctx context.Context, id int64) (*entity.Category, error)
	Create(ctx context.Context, category *entity.Category) error
}
