package memory

import (
	"context"
	"sort"

	"typoteka/internal/domain/entity"
	"typoteka/internal/repository"
)

type CategoryRepo struct{ s *Store }

// Categories returns the category repository backed by s.
func (s *Store) Categories() repository.CategoryRepository { return &CategoryRepo{s: s} }

func (r *CategoryRepo) all() []*entity.Category {
	out := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.all(), nil
}

func (r *CategoryRepo) ListWithCount(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := map[int64]int64{}
	for _, l := range r.s.links {
		counts[l.CategoryID]++
	}
	out := r.all()
	for _, c := range out {
		n := counts[c.ID]
		c.ArticleCount = &n
	}
	return out, nil
}

func (r *CategoryRepo) FindByIDs(_ context.Context, ids []int64) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []*entity.Category
	for _, c := range r.all() {
		if _, ok := want[c.ID]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *CategoryRepo) Get(_ context.Context, id int64) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CategoryRepo) Create(_ context.Context, category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	category.ID = r.s.nextID("categories")
	stored := *category
	stored.ArticleCount = nil
	r.s.categories[category.ID] = stored
	return nil
}
