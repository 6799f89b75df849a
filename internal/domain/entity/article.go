// Package entity defines the core domain entities of the blog backend.
// Entities are plain data records; persistence lives behind the ports in
// internal/repository.
package entity

import "time"

// Article represents a published blog post.
// Categories are kept in association order, Comments in creation order.
type Article struct {
	ID          int64
	Title       string
	Announce    string
	FullText    string
	PublishedAt time.Time
	Image       string
	Categories  []Category
	Comments    []Comment
	CreatedAt   time.Time
}

// CategoryIDs returns the identifiers of the associated categories.
func (a *Article) CategoryIDs() []int64 {
	ids := make([]int64, 0, len(a.Categories))
	for _, c := range a.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// ArticleInput is the payload accepted when creating or updating an article.
// Date is kept as the caller sent it so that malformed values can be reported
// as validation errors rather than decode failures.
type ArticleInput struct {
	Title      string  `json:"title"`
	Announce   string  `json:"announce"`
	FullText   string  `json:"fullText"`
	Date       string  `json:"date"`
	Categories []int64 `json:"categories"`
	Image      string  `json:"image"`
}

// DateLayouts lists the accepted publish date formats, most specific first.
var DateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseDate parses a publish date in one of DateLayouts.
func ParseDate(raw string) (time.Time, error) {
	var err error
	for _, layout := range DateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
