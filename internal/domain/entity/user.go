package entity

import "time"

// User roles.
const (
	RoleAdmin  = "admin"
	RoleReader = "reader"
)

// User is a registered account. The password is only ever stored as a hash.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Avatar       string
	Role         string
	CreatedAt    time.Time
}

// UserInput is the registration payload.
type UserInput struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	RepeatedPassword string `json:"repeatedPassword"`
	Avatar           string `json:"avatar"`
}
