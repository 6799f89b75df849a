// Package memory provides in-process implementations of the repository
// interfaces. All repositories returned by one Store share the same data, so
// cross-entity rules (cascades, association rows) behave like the database.
// Values are copied on the way in and out.
package memory

import (
	"sort"
	"sync"
	"time"

	"typoteka/internal/domain/entity"
)

// Store holds every table in memory behind one lock.
type Store struct {
	mu         sync.RWMutex
	now        func() time.Time
	seq        map[string]int64
	articles   map[int64]entity.Article
	categories map[int64]entity.Category
	links      []entity.ArticleCategory
	comments   map[int64]entity.Comment
	users      map[int64]entity.User
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		now:        time.Now,
		seq:        map[string]int64{},
		articles:   map[int64]entity.Article{},
		categories: map[int64]entity.Category{},
		comments:   map[int64]entity.Comment{},
		users:      map[int64]entity.User{},
	}
}

// WithClock replaces the clock used for CreatedAt. Intended for tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// categoriesOf returns the categories linked to articleID in link order.
// Caller holds the lock.
func (s *Store) categoriesOf(articleID int64) []entity.Category {
	out := []entity.Category{}
	for _, l := range s.links {
		if l.ArticleID != articleID {
			continue
		}
		if c, ok := s.categories[l.CategoryID]; ok {
			c.ArticleCount = nil
			out = append(out, c)
		}
	}
	return out
}

// commentsOf returns the comments of articleID oldest first. Caller holds the lock.
func (s *Store) commentsOf(articleID int64) []entity.Comment {
	out := []entity.Comment{}
	for _, c := range s.comments {
		if c.ArticleID == articleID {
			out = append(out, copyComment(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) unlink(articleID int64) {
	kept := s.links[:0]
	for _, l := range s.links {
		if l.ArticleID != articleID {
			kept = append(kept, l)
		}
	}
	s.links = kept
}

func copyComment(c entity.Comment) entity.Comment {
	if c.UserID != nil {
		id := *c.UserID
		c.UserID = &id
	}
	return c
}

// hydrate returns a copy of the stored article with its relations.
// Caller holds the lock.
func (s *Store) hydrate(a entity.Article, withComments bool) *entity.Article {
	a.Categories = s.categoriesOf(a.ID)
	a.Comments = nil
	if withComments {
		a.Comments = s.commentsOf(a.ID)
	}
	return &a
}
