package client

import "time"

// Category is a category, with Count set only by Categories(ctx, true).
type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Count *int64 `json:"count,omitempty"`
}

// Comment belongs to one article.
type Comment struct {
	ID        int64     `json:"id"`
	ArticleID int64     `json:"articleId"`
	UserID    *int64    `json:"userId,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Article is a published post. Comments is nil unless requested.
type Article struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Announce   string     `json:"announce"`
	FullText   string     `json:"fullText"`
	Date       time.Time  `json:"date"`
	Image      string     `json:"image,omitempty"`
	Categories []Category `json:"categories"`
	Comments   []Comment  `json:"comments,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// ArticleList is one page of articles and the total count.
type ArticleList struct {
	Count    int64     `json:"count"`
	Articles []Article `json:"articles"`
}

// ArticleInput is the create and update payload. Date is YYYY-MM-DD or
// RFC 3339.
type ArticleInput struct {
	Title      string  `json:"title"`
	Announce   string  `json:"announce"`
	FullText   string  `json:"fullText"`
	Date       string  `json:"date"`
	Categories []int64 `json:"categories"`
	Image      string  `json:"image,omitempty"`
}

// User is a registered account.
type User struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserInput is the registration payload.
type UserInput struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	RepeatedPassword string `json:"repeatedPassword"`
	Avatar           string `json:"avatar,omitempty"`
}

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// ListOptions pages article listings. Zero values use the server defaults.
type ListOptions struct {
	Comments bool
	Limit    int
	Offset   int
}
