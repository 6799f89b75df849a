package memory

import (
	"context"

	"typoteka/internal/domain/entity"
	"typoteka/internal/repository"
)

type CommentRepo struct{ s *Store }

// Comments returns the comment repository backed by s.
func (s *Store) Comments() repository.CommentRepository { return &CommentRepo{s: s} }

func (r *CommentRepo) ListByArticle(_ context.Context, articleID int64) ([]*entity.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	comments := r.s.commentsOf(articleID)
	out := make([]*entity.Comment, len(comments))
	for i := range comments {
		out[i] = &comments[i]
	}
	return out, nil
}

func (r *CommentRepo) Get(_ context.Context, id int64) (*entity.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.comments[id]
	if !ok {
		return nil, nil
	}
	c = copyComment(c)
	return &c, nil
}

func (r *CommentRepo) Create(_ context.Context, comment *entity.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	comment.ID = r.s.nextID("comments")
	comment.CreatedAt = r.s.now()
	r.s.comments[comment.ID] = copyComment(*comment)
	return nil
}

func (r *CommentRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.comments[id]; !ok {
		return false, nil
	}
	delete(r.s.comments, id)
	return true, nil
}
