package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"typoteka/internal/domain/entity"
	"typoteka/internal/repository"
)

type UserRepo struct {
	db DB
}

func NewUserRepo(db DB) repository.UserRepository {
	return &UserRepo{db: db}
}

const userColumns = `id, first_name, last_name, email, password_hash, avatar, role, created_at`

func scanUser(s scanner) (*entity.User, error) {
	var u entity.User
	if err := s.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email,
		&u.PasswordHash, &u.Avatar, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (repo *UserRepo) Get(ctx context.Context, id int64) (*entity.User, error) {
	u, err := scanUser(repo.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return u, nil
}

// GetByEmail matches case-insensitively.
func (repo *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(repo.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByEmail: %w", err)
	}
	return u, nil
}

func (repo *UserRepo) Create(ctx context.Context, user *entity.User) error {
	const query = `
INSERT INTO users (first_name, last_name, email, password_hash, avatar, role)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at`
	err := repo.db.QueryRowContext(ctx, query,
		user.FirstName, user.LastName, user.Email,
		user.PasswordHash, user.Avatar, user.Role,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return n, nil
}
