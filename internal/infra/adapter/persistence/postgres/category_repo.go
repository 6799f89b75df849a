package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"typoteka/internal/domain/entity"
	"typoteka/internal/repository"
)

type CategoryRepo struct {
	db DB
}

func NewCategoryRepo(db DB) repository.CategoryRepository {
	return &CategoryRepo{db: db}
}

func (repo *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	categories, err := repo.query(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return categories, nil
}

func (repo *CategoryRepo) ListWithCount(ctx context.Context) ([]*entity.Category, error) {
	const query = `
SELECT c.id, c.name, COUNT(ac.article_id)
FROM categories c
LEFT JOIN article_categories ac ON ac.category_id = c.id
GROUP BY c.id, c.name
ORDER BY c.id`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListWithCount: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []*entity.Category
	for rows.Next() {
		var c entity.Category
		var count int64
		if err := rows.Scan(&c.ID, &c.Name, &count); err != nil {
			return nil, fmt.Errorf("ListWithCount: Scan: %w", err)
		}
		c.ArticleCount = &count
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (repo *CategoryRepo) FindByIDs(ctx context.Context, ids []int64) ([]*entity.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	marks, args := inClause(ids, 1)
	categories, err := repo.query(ctx, `SELECT id, name FROM categories WHERE id IN (`+marks+`) ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("FindByIDs: %w", err)
	}
	return categories, nil
}

func (repo *CategoryRepo) Get(ctx context.Context, id int64) (*entity.Category, error) {
	var c entity.Category
	err := repo.db.QueryRowContext(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &c, nil
}

func (repo *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	err := repo.db.QueryRowContext(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id`, category.Name).
		Scan(&category.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *CategoryRepo) query(ctx context.Context, query string, args ...interface{}) ([]*entity.Category, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var categories []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("Scan: %w", err)
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}
