// Package search implements keyword lookup over article titles and bodies.
package search

import (
	"context"
	"fmt"
	"time"

	"typoteka/internal/domain/entity"
	"typoteka/internal/observability/metrics"
	"typoteka/internal/observability/tracing"
	"typoteka/internal/pkg/search"
	"typoteka/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// Service provides article search.
type Service struct {
	Articles repository.ArticleRepository
	// Timeout bounds one search query; zero means search.DefaultSearchTimeout.
	Timeout time.Duration
}

// Search returns the articles whose title or full text contains every
// whitespace-separated keyword of query, newest first. An empty query is a
// bad request; no match is an empty list.
func (s *Service) Search(ctx context.Context, query string) ([]*entity.Article, error) {
	ctx, span := tracing.StartSpan(ctx, "article.search")
	articles, err := s.search(ctx, query)
	if err == nil {
		span.SetAttributes(attribute.Int("search.results", len(articles)))
	}
	tracing.EndSpan(span, err)
	return articles, err
}

func (s *Service) search(ctx context.Context, query string) ([]*entity.Article, error) {
	keywords, err := search.ParseKeywords(query, search.DefaultMaxKeywordCount, search.DefaultMaxKeywordLength)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrBadRequest, err)
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = search.DefaultSearchTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	articles, err := s.Articles.Search(ctx, keywords)
	metrics.RecordDBQuery("search_articles", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}

	metrics.RecordSearch(len(articles))
	if articles == nil {
		articles = []*entity.Article{}
	}
	return articles, nil
}
