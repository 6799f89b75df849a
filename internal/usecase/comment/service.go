// Package comment implements the comment use cases. Comments are always
// addressed through their article: a comment reached through the wrong
// article does not exist.
package comment

import (
	"context"
	"fmt"
	"log/slog"

	"typoteka/internal/domain/entity"
	"typoteka/internal/observability/logging"
	"typoteka/internal/observability/metrics"
	"typoteka/internal/observability/tracing"
	"typoteka/internal/repository"
	"typoteka/internal/service/auth"
	"typoteka/internal/usecase/guard"
)

// Service provides comment use cases.
type Service struct {
	Comments repository.CommentRepository
	Guard    *guard.Pipeline
}

// ListComments returns the comments of an article, oldest first.
func (s *Service) ListComments(ctx context.Context, rawArticleID string) ([]*entity.Comment, error) {
	ctx, span := tracing.StartSpan(ctx, "comment.list")
	comments, err := s.list(ctx, rawArticleID)
	tracing.EndSpan(span, err)
	return comments, err
}

func (s *Service) list(ctx context.Context, rawArticleID string) ([]*entity.Comment, error) {
	var articleID int64
	if err := guard.Check(ctx, "comment.list",
		guard.ID("articleId", rawArticleID, &articleID),
		s.Guard.ArticleExists(&articleID, repository.LoadOptions{}, nil),
	); err != nil {
		return nil, err
	}

	comments, err := s.Comments.ListByArticle(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if comments == nil {
		comments = []*entity.Comment{}
	}
	return comments, nil
}

// CreateComment adds a comment authored by the authenticated user.
// Checks run in order: authentication, article id, article existence,
// payload. A missing article is reported even when the payload is invalid.
func (s *Service) CreateComment(ctx context.Context, rawArticleID string, in entity.CommentInput) (*entity.Comment, error) {
	ctx, span := tracing.StartSpan(ctx, "comment.create")
	comment, err := s.create(ctx, rawArticleID, in)
	tracing.EndSpan(span, err)
	return comment, err
}

func (s *Service) create(ctx context.Context, rawArticleID string, in entity.CommentInput) (*entity.Comment, error) {
	var (
		claims    *auth.Claims
		articleID int64
	)
	if err := guard.Check(ctx, "comment.create",
		guard.Authenticated(&claims),
		guard.ID("articleId", rawArticleID, &articleID),
		s.Guard.ArticleExists(&articleID, repository.LoadOptions{}, nil),
		s.Guard.ValidComment(in),
	); err != nil {
		return nil, err
	}

	userID := claims.UserID
	comment := &entity.Comment{
		ArticleID: articleID,
		UserID:    &userID,
		Text:      in.Text,
	}
	if err := s.Comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	metrics.RecordCommentEvent("create")
	logging.FromContext(ctx).Info("comment created",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("article_id", articleID),
		slog.Int64("user_id", userID))
	return comment, nil
}

// DeleteComment removes one comment of an article and reports true.
func (s *Service) DeleteComment(ctx context.Context, rawArticleID, rawCommentID string) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "comment.delete")
	ok, err := s.delete(ctx, rawArticleID, rawCommentID)
	tracing.EndSpan(span, err)
	return ok, err
}

func (s *Service) delete(ctx context.Context, rawArticleID, rawCommentID string) (bool, error) {
	var (
		claims               *auth.Claims
		articleID, commentID int64
	)
	if err := guard.Check(ctx, "comment.delete",
		guard.Authenticated(&claims),
		guard.ID("articleId", rawArticleID, &articleID),
		guard.ID("commentId", rawCommentID, &commentID),
		s.Guard.CommentExists(&articleID, &commentID, nil),
	); err != nil {
		return false, err
	}

	found, err := s.Comments.Delete(ctx, commentID)
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}
	if !found {
		return false, fmt.Errorf("comment %d: %w", commentID, entity.ErrNotFound)
	}

	metrics.RecordCommentEvent("delete")
	logging.FromContext(ctx).Info("comment deleted",
		slog.Int64("comment_id", commentID),
		slog.Int64("article_id", articleID),
		slog.Int64("user_id", claims.UserID))
	return true, nil
}
