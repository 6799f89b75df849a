package repository

import (
	"context"

	"typoteka/internal/domain/entity"
)

type CommentRepository interface {
	// ListByArticle returns the comments of one article, oldest first.
	ListByArticle(ctx context.Context, articleID int64) ([]*entity.Comment, error)
	Get(ctx context.Context, id int64) (*entity.Comment, error)
	Create(ctx context.Context, comment *entity.Comment) error
	Delete(ctx context.Context, id int64) (bool, error)
}
