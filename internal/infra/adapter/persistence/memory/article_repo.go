package memory

import (
	"context"
	"sort"

	"typoteka/internal/domain/entity"
	"typoteka/internal/pkg/search"
	"typoteka/internal/repository"
)

type ArticleRepo struct{ s *Store }

// Articles returns the article repository backed by s.
func (s *Store) Articles() repository.ArticleRepository { return &ArticleRepo{s: s} }

func (r *ArticleRepo) sorted(filter func(entity.Article) bool) []entity.Article {
	out := make([]entity.Article, 0, len(r.s.articles))
	for _, a := range r.s.articles {
		if filter == nil || filter(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PublishedAt.Equal(out[j].PublishedAt) {
			return out[i].PublishedAt.After(out[j].PublishedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *ArticleRepo) inCategory(categoryID int64) func(entity.Article) bool {
	if categoryID == 0 {
		return nil
	}
	return func(a entity.Article) bool {
		for _, l := range r.s.links {
			if l.ArticleID == a.ID && l.CategoryID == categoryID {
				return true
			}
		}
		return false
	}
}

func (r *ArticleRepo) List(_ context.Context, opts repository.ListOptions) ([]*entity.Article, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := r.sorted(r.inCategory(opts.CategoryID))
	start := min(opts.Offset, len(all))
	end := min(start+opts.Limit, len(all))

	out := make([]*entity.Article, 0, end-start)
	for _, a := range all[start:end] {
		out = append(out, r.s.hydrate(a, opts.WithComments))
	}
	return out, nil
}

func (r *ArticleRepo) Count(_ context.Context, categoryID int64) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.sorted(r.inCategory(categoryID)))), nil
}

func (r *ArticleRepo) Get(_ context.Context, id int64, opts repository.LoadOptions) (*entity.Article, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.articles[id]
	if !ok {
		return nil, nil
	}
	return r.s.hydrate(a, opts.WithComments), nil
}

func (r *ArticleRepo) Search(_ context.Context, keywords []string) ([]*entity.Article, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entity.Article
	for _, a := range r.sorted(func(a entity.Article) bool {
		return search.Matches(keywords, a.Title, a.FullText)
	}) {
		out = append(out, r.s.hydrate(a, false))
	}
	return out, nil
}

func (r *ArticleRepo) Create(_ context.Context, article *entity.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	article.ID = r.s.nextID("articles")
	article.CreatedAt = r.s.now()
	r.s.links = append(r.s.links, entity.LinkCategories(article.ID, article.CategoryIDs())...)

	stored := *article
	stored.Categories, stored.Comments = nil, nil
	r.s.articles[article.ID] = stored
	return nil
}

func (r *ArticleRepo) Update(_ context.Context, article *entity.Article) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.articles[article.ID]
	if !ok {
		return false, nil
	}

	stored := *article
	stored.CreatedAt = existing.CreatedAt
	stored.Categories, stored.Comments = nil, nil
	r.s.articles[article.ID] = stored

	r.s.unlink(article.ID)
	r.s.links = append(r.s.links, entity.LinkCategories(article.ID, article.CategoryIDs())...)
	return true, nil
}

func (r *ArticleRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.articles[id]; !ok {
		return false, nil
	}
	for cid, c := range r.s.comments {
		if c.ArticleID == id {
			delete(r.s.comments, cid)
		}
	}
	r.s.unlink(id)
	delete(r.s.articles, id)
	return true, nil
}
