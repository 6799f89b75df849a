// Package article provides HTTP handlers for article endpoints and the
// JSON shapes shared by every handler that returns articles.
package article

import (
	"time"

	"typoteka/internal/domain/entity"
)

// CategoryDTO is a category as returned by the API. Count is only present
// for count-aware listings.
type CategoryDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Count *int64 `json:"count,omitempty"`
}

// CommentDTO is a comment as returned by the API.
type CommentDTO struct {
	ID        int64     `json:"id"`
	ArticleID int64     `json:"articleId"`
	UserID    *int64    `json:"userId,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// DTO is an article as returned by the API. Comments is nil, and omitted
// from the JSON, unless they were requested.
type DTO struct {
	ID         int64         `json:"id"`
	Title      string        `json:"title"`
	Announce   string        `json:"announce"`
	FullText   string        `json:"fullText"`
	Date       time.Time     `json:"date"`
	Image      string        `json:"image,omitempty"`
	Categories []CategoryDTO `json:"categories"`
	Comments   *[]CommentDTO `json:"comments,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// ListDTO is one page of articles with the total count.
type ListDTO struct {
	Count    int64 `json:"count"`
	Articles []DTO `json:"articles"`
}

// NewCategoryDTO converts a category.
func NewCategoryDTO(c entity.Category) CategoryDTO {
	return CategoryDTO{ID: c.ID, Name: c.Name, Count: c.ArticleCount}
}

// NewCommentDTO converts a comment.
func NewCommentDTO(c entity.Comment) CommentDTO {
	return CommentDTO{
		ID:        c.ID,
		ArticleID: c.ArticleID,
		UserID:    c.UserID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}

// NewCommentDTOs converts a comment list; the result is never nil.
func NewCommentDTOs(comments []*entity.Comment) []CommentDTO {
	out := make([]CommentDTO, 0, len(comments))
	for _, c := range comments {
		out = append(out, NewCommentDTO(*c))
	}
	return out
}

// NewDTO converts an article. withComments keeps an empty comment list in
// the output instead of omitting the field.
func NewDTO(a *entity.Article, withComments bool) DTO {
	out := DTO{
		ID:         a.ID,
		Title:      a.Title,
		Announce:   a.Announce,
		FullText:   a.FullText,
		Date:       a.PublishedAt,
		Image:      a.Image,
		Categories: make([]CategoryDTO, 0, len(a.Categories)),
		CreatedAt:  a.CreatedAt,
	}
	for _, c := range a.Categories {
		out.Categories = append(out.Categories, NewCategoryDTO(c))
	}
	if withComments {
		comments := make([]CommentDTO, 0, len(a.Comments))
		for _, c := range a.Comments {
			comments = append(comments, NewCommentDTO(c))
		}
		out.Comments = &comments
	}
	return out
}

// NewDTOs converts an article list; the result is never nil.
func NewDTOs(articles []*entity.Article, withComments bool) []DTO {
	out := make([]DTO, 0, len(articles))
	for _, a := range articles {
		out = append(out, NewDTO(a, withComments))
	}
	return out
}
