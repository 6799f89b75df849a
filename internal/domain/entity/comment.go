package entity

import "time"

// Comment belongs to exactly one article and is deleted together with it.
type Comment struct {
	ID        int64
	ArticleID int64
	UserID    *int64
	Text      string
	CreatedAt time.Time
}

// CommentInput is the payload accepted when creating a comment.
type CommentInput struct {
	Text string `json:"text"`
}
