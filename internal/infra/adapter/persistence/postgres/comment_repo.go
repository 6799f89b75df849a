package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"typoteka/internal/domain/entity"
	"typoteka/internal/repository"
)

type CommentRepo struct {
	db DB
}

func NewCommentRepo(db DB) repository.CommentRepository {
	return &CommentRepo{db: db}
}

func scanComment(s scanner) (*entity.Comment, error) {
	var c entity.Comment
	var userID sql.NullInt64
	if err := s.Scan(&c.ID, &c.ArticleID, &userID, &c.Text, &c.CreatedAt); err != nil {
		return nil, err
	}
	if userID.Valid {
		id := userID.Int64
		c.UserID = &id
	}
	return &c, nil
}

func queryComments(ctx context.Context, db DB, query string, args ...interface{}) ([]*entity.Comment, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var comments []*entity.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("Scan: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (repo *CommentRepo) ListByArticle(ctx context.Context, articleID int64) ([]*entity.Comment, error) {
	const query = `
SELECT id, article_id, user_id, text, created_at
FROM comments
WHERE article_id = $1
ORDER BY created_at ASC, id ASC`
	comments, err := queryComments(ctx, repo.db, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("ListByArticle: %w", err)
	}
	return comments, nil
}

func (repo *CommentRepo) Get(ctx context.Context, id int64) (*entity.Comment, error) {
	const query = `
SELECT id, article_id, user_id, text, created_at
FROM comments
WHERE id = $1`
	c, err := scanComment(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return c, nil
}

func (repo *CommentRepo) Create(ctx context.Context, comment *entity.Comment) error {
	const query = `
INSERT INTO comments (article_id, user_id, text)
VALUES ($1, $2, $3)
RETURNING id, created_at`
	err := repo.db.QueryRowContext(ctx, query,
		comment.ArticleID, nullableID(comment.UserID), comment.Text,
	).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *CommentRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("Delete: %w", err)
	}
	return n > 0, nil
}
