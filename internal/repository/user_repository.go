package repository

import (
	"context"

	"typoteka/internal/domain/entity"
)

type UserRepository interface {
	Get(ctx context.Context, id int64) (*entity.User, error)
	// GetByEmail returns (nil, nil) if no user is registered with the email.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
	Count(ctx context.Context) (int64, error)
}
