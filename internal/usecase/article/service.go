package article

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"typoteka/internal/common/pagination"
	"typoteka/internal/domain/entity"
	"typoteka/internal/observability/logging"
	"typoteka/internal/observability/metrics"
	"typoteka/internal/observability/tracing"
	"typoteka/internal/repository"
	"typoteka/internal/service/auth"
	"typoteka/internal/usecase/guard"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// ListQuery selects one page of articles.
type ListQuery struct {
	Comments bool
	Limit    int
	Offset   int
}

// ArticleList is one page plus the total number of matching articles.
type ArticleList struct {
	Count    int64
	Articles []*entity.Article
}

// GetQuery controls which relations are returned with a single article.
type GetQuery struct {
	Comments bool
}

// CategoryQuery controls category listing.
type CategoryQuery struct {
	Count bool
}

// Service provides article and category use cases.
type Service struct {
	Articles   repository.ArticleRepository
	Categories repository.CategoryRepository
	Guard      *guard.Pipeline
	Pagination pagination.Config
}

func (s *Service) paging() pagination.Config {
	if s.Pagination.MaxLimit == 0 {
		return pagination.DefaultConfig()
	}
	return s.Pagination
}

// ListArticles returns one page of articles, newest first, with the total.
func (s *Service) ListArticles(ctx context.Context, q ListQuery) (*ArticleList, error) {
	ctx, span := tracing.StartSpan(ctx, "article.list")
	list, err := s.list(ctx, q, 0)
	tracing.EndSpan(span, err)
	return list, err
}

// ListArticlesByCategory is ListArticles restricted to one category.
func (s *Service) ListArticlesByCategory(ctx context.Context, rawCategoryID string, q ListQuery) (*ArticleList, error) {
	ctx, span := tracing.StartSpan(ctx, "article.list_by_category")
	list, err := s.listByCategory(ctx, rawCategoryID, q)
	tracing.EndSpan(span, err)
	return list, err
}

func (s *Service) listByCategory(ctx context.Context, rawCategoryID string, q ListQuery) (*ArticleList, error) {
	var categoryID int64
	if err := guard.Check(ctx, "article.list_by_category",
		guard.ID("categoryId", rawCategoryID, &categoryID),
		s.Guard.CategoryExists(&categoryID, nil),
	); err != nil {
		return nil, err
	}
	return s.list(ctx, q, categoryID)
}

// list fetches the total and the page concurrently; the first failure
// cancels the other query.
func (s *Service) list(ctx context.Context, q ListQuery, categoryID int64) (*ArticleList, error) {
	page := pagination.Params{Limit: q.Limit, Offset: q.Offset}.WithDefaults(s.paging())

	var (
		count    int64
		articles []*entity.Article
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		n, err := s.Articles.Count(gctx, categoryID)
		metrics.RecordDBQuery("count_articles", time.Since(start))
		if err != nil {
			return fmt.Errorf("count articles: %w", err)
		}
		count = n
		return nil
	})
	g.Go(func() error {
		start := time.Now()
		list, err := s.Articles.List(gctx, repository.ListOptions{
			Limit:        page.Limit,
			Offset:       page.Offset,
			WithComments: q.Comments,
			CategoryID:   categoryID,
		})
		metrics.RecordDBQuery("list_articles", time.Since(start))
		if err != nil {
			return fmt.Errorf("list articles: %w", err)
		}
		articles = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if articles == nil {
		articles = []*entity.Article{}
	}
	return &ArticleList{Count: count, Articles: articles}, nil
}

// GetArticle returns one article with its categories and, on request, its
// comments.
func (s *Service) GetArticle(ctx context.Context, rawID string, q GetQuery) (*entity.Article, error) {
	ctx, span := tracing.StartSpan(ctx, "article.get")
	var (
		id      int64
		article *entity.Article
	)
	err := guard.Check(ctx, "article.get",
		guard.ID("id", rawID, &id),
		s.Guard.ArticleExists(&id, repository.LoadOptions{WithComments: q.Comments}, &article),
	)
	tracing.EndSpan(span, err)
	if err != nil {
		return nil, err
	}
	return article, nil
}

// CreateArticle validates in and persists the article with its category
// associations in one transaction.
func (s *Service) CreateArticle(ctx context.Context, in entity.ArticleInput) (*entity.Article, error) {
	ctx, span := tracing.StartSpan(ctx, "article.create")
	article, err := s.create(ctx, in)
	tracing.EndSpan(span, err)
	return article, err
}

func (s *Service) create(ctx context.Context, in entity.ArticleInput) (*entity.Article, error) {
	var (
		claims  *auth.Claims
		article *entity.Article
	)
	if err := guard.Check(ctx, "article.create",
		guard.Authenticated(&claims),
		s.Guard.ValidArticle(in, &article),
	); err != nil {
		return nil, err
	}

	if err := s.Articles.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	article.Comments = []entity.Comment{}

	metrics.RecordArticleEvent("create")
	logging.FromContext(ctx).Info("article created",
		slog.Int64("article_id", article.ID),
		slog.Int64("user_id", claims.UserID))
	return article, nil
}

// UpdateArticle replaces the fields and categories of an existing article.
// Concurrent updates are last-write-wins.
func (s *Service) UpdateArticle(ctx context.Context, rawID string, in entity.ArticleInput) (*entity.Article, error) {
	ctx, span := tracing.StartSpan(ctx, "article.update")
	article, err := s.update(ctx, rawID, in)
	tracing.EndSpan(span, err)
	return article, err
}

func (s *Service) update(ctx context.Context, rawID string, in entity.ArticleInput) (*entity.Article, error) {
	var (
		claims  *auth.Claims
		id      int64
		article *entity.Article
	)
	if err := guard.Check(ctx, "article.update",
		guard.Authenticated(&claims),
		guard.ID("id", rawID, &id),
		s.Guard.ArticleExists(&id, repository.LoadOptions{}, nil),
		s.Guard.ValidArticle(in, &article),
	); err != nil {
		return nil, err
	}

	article.ID = id
	found, err := s.Articles.Update(ctx, article)
	if err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}
	if !found {
		return nil, ErrArticleVanished
	}

	updated, err := s.Articles.Get(ctx, id, repository.LoadOptions{WithComments: true})
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if updated == nil {
		return nil, ErrArticleVanished
	}

	metrics.RecordArticleEvent("update")
	logging.FromContext(ctx).Info("article updated",
		slog.Int64("article_id", id),
		slog.Int64("user_id", claims.UserID))
	return updated, nil
}

// DeleteArticle removes the article together with its comments and category
// associations and returns it as it was. Categories themselves survive.
func (s *Service) DeleteArticle(ctx context.Context, rawID string) (*entity.Article, error) {
	ctx, span := tracing.StartSpan(ctx, "article.delete")
	article, err := s.delete(ctx, rawID)
	tracing.EndSpan(span, err)
	return article, err
}

func (s *Service) delete(ctx context.Context, rawID string) (*entity.Article, error) {
	var (
		claims  *auth.Claims
		id      int64
		article *entity.Article
	)
	if err := guard.Check(ctx, "article.delete",
		guard.Authenticated(&claims),
		guard.ID("id", rawID, &id),
		s.Guard.ArticleExists(&id, repository.LoadOptions{WithComments: true}, &article),
	); err != nil {
		return nil, err
	}

	found, err := s.Articles.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete article: %w", err)
	}
	if !found {
		return nil, ErrArticleVanished
	}

	metrics.RecordArticleEvent("delete")
	logging.FromContext(ctx).Info("article deleted",
		slog.Int64("article_id", id),
		slog.Int("comments_removed", len(article.Comments)),
		slog.Int64("user_id", claims.UserID))
	return article, nil
}

// ListCategories returns every category, with article counts on request.
func (s *Service) ListCategories(ctx context.Context, q CategoryQuery) ([]*entity.Category, error) {
	ctx, span := tracing.StartSpan(ctx, "category.list", attribute.Bool("count", q.Count))
	var (
		categories []*entity.Category
		err        error
	)
	if q.Count {
		categories, err = s.Categories.ListWithCount(ctx)
	} else {
		categories, err = s.Categories.List(ctx)
	}
	if err != nil {
		err = fmt.Errorf("list categories: %w", err)
	}
	tracing.EndSpan(span, err)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []*entity.Category{}
	}
	return categories, nil
}
