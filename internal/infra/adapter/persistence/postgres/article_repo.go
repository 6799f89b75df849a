package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"typoteka/internal/domain/entity"
	"typoteka/internal/pkg/search"
	"typoteka/internal/repository"
)

const articleColumns = `a.id, a.title, a.announce, a.full_text, a.published_at, a.image, a.created_at`

type ArticleRepo struct {
	db           DB
	queryBuilder *ArticleQueryBuilder
}

func NewArticleRepo(db DB) repository.ArticleRepository {
	return &ArticleRepo{
		db:           db,
		queryBuilder: NewArticleQueryBuilder(),
	}
}

func scanArticle(s scanner) (*entity.Article, error) {
	var a entity.Article
	if err := s.Scan(&a.ID, &a.Title, &a.Announce, &a.FullText,
		&a.PublishedAt, &a.Image, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (repo *ArticleRepo) List(ctx context.Context, opts repository.ListOptions) ([]*entity.Article, error) {
	query := `
SELECT ` + articleColumns + `
FROM articles a
ORDER BY a.published_at DESC, a.id DESC
LIMIT $1 OFFSET $2`
	args := []interface{}{opts.Limit, opts.Offset}
	if opts.CategoryID != 0 {
		query = `
SELECT ` + articleColumns + `
FROM articles a
INNER JOIN article_categories ac ON ac.article_id = a.id
WHERE ac.category_id = $3
ORDER BY a.published_at DESC, a.id DESC
LIMIT $1 OFFSET $2`
		args = append(args, opts.CategoryID)
	}

	articles, err := repo.queryArticles(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	if err := repo.loadRelations(ctx, articles, opts.WithComments); err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return articles, nil
}

func (repo *ArticleRepo) Count(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	var err error
	if categoryID == 0 {
		err = repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count)
	} else {
		err = repo.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM article_categories WHERE category_id = $1`, categoryID).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

func (repo *ArticleRepo) Get(ctx context.Context, id int64, opts repository.LoadOptions) (*entity.Article, error) {
	const query = `
SELECT ` + articleColumns + `
FROM articles a
WHERE a.id = $1
LIMIT 1`
	article, err := scanArticle(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	if err := repo.loadRelations(ctx, []*entity.Article{article}, opts.WithComments); err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return article, nil
}

func (repo *ArticleRepo) Search(ctx context.Context, keywords []string) ([]*entity.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, search.DefaultSearchTimeout)
	defer cancel()

	where, args := repo.queryBuilder.BuildWhereClause(keywords, "a")
	query := `
SELECT ` + articleColumns + `
FROM articles a
` + where + `
ORDER BY a.published_at DESC, a.id DESC`

	articles, err := repo.queryArticles(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	if err := repo.loadRelations(ctx, articles, false); err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	return articles, nil
}

func (repo *ArticleRepo) Create(ctx context.Context, article *entity.Article) error {
	const query = `
INSERT INTO articles (title, announce, full_text, published_at, image)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at`

	err := withTx(ctx, repo.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, query,
			article.Title, article.Announce, article.FullText,
			article.PublishedAt, article.Image,
		).Scan(&article.ID, &article.CreatedAt); err != nil {
			return err
		}
		return insertLinks(ctx, tx, entity.LinkCategories(article.ID, article.CategoryIDs()))
	})
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *ArticleRepo) Update(ctx context.Context, article *entity.Article) (bool, error) {
	const query = `
UPDATE articles
SET title = $1, announce = $2, full_text = $3, published_at = $4, image = $5
WHERE id = $6`

	var found bool
	err := withTx(ctx, repo.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query,
			article.Title, article.Announce, article.FullText,
			article.PublishedAt, article.Image, article.ID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		found = true

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM article_categories WHERE article_id = $1`, article.ID); err != nil {
			return err
		}
		return insertLinks(ctx, tx, entity.LinkCategories(article.ID, article.CategoryIDs()))
	})
	if err != nil {
		return false, fmt.Errorf("Update: %w", err)
	}
	return found, nil
}

func (repo *ArticleRepo) Delete(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := withTx(ctx, repo.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE article_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM article_categories WHERE article_id = $1`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		found = n > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("Delete: %w", err)
	}
	return found, nil
}

func insertLinks(ctx context.Context, tx *sql.Tx, links []entity.ArticleCategory) error {
	const query = `
INSERT INTO article_categories (article_id, category_id, position)
VALUES ($1, $2, $3)`
	for i, link := range links {
		if _, err := tx.ExecContext(ctx, query, link.ArticleID, link.CategoryID, i); err != nil {
			return fmt.Errorf("link category %d: %w", link.CategoryID, err)
		}
	}
	return nil
}

func (repo *ArticleRepo) queryArticles(ctx context.Context, query string, args ...interface{}) ([]*entity.Article, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*entity.Article, 0, 16)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("Scan: %w", err)
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// loadRelations eager-loads categories (and optionally comments) with one
// query per relation instead of one per article.
func (repo *ArticleRepo) loadRelations(ctx context.Context, articles []*entity.Article, withComments bool) error {
	if len(articles) == 0 {
		return nil
	}

	byID := make(map[int64]*entity.Article, len(articles))
	ids := make([]int64, 0, len(articles))
	for _, a := range articles {
		byID[a.ID] = a
		ids = append(ids, a.ID)
		a.Categories = []entity.Category{}
		if withComments {
			a.Comments = []entity.Comment{}
		}
	}

	marks, args := inClause(ids, 1)
	rows, err := repo.db.QueryContext(ctx, `
SELECT ac.article_id, c.id, c.name
FROM article_categories ac
INNER JOIN categories c ON c.id = ac.category_id
WHERE ac.article_id IN (`+marks+`)
ORDER BY ac.article_id, ac.position`, args...)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var articleID int64
		var c entity.Category
		if err := rows.Scan(&articleID, &c.ID, &c.Name); err != nil {
			return fmt.Errorf("load categories: Scan: %w", err)
		}
		if a, ok := byID[articleID]; ok {
			a.Categories = append(a.Categories, c)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load categories: %w", err)
	}

	if !withComments {
		return nil
	}

	comments, err := queryComments(ctx, repo.db, `
SELECT id, article_id, user_id, text, created_at
FROM comments
WHERE article_id IN (`+marks+`)
ORDER BY created_at ASC, id ASC`, args...)
	if err != nil {
		return fmt.Errorf("load comments: %w", err)
	}
	for _, c := range comments {
		if a, ok := byID[c.ArticleID]; ok {
			a.Comments = append(a.Comments, *c)
		}
	}
	return nil
}
