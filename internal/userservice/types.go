package userservice

import (
	"database/sql"
	"time"
)

var (
	AnonymousUser = User{}
)

type UserService struct {
	m      *DBModel
	tokens *TokenManager
}

type DBModel struct {
	db *sql.DB
}

type User struct {
	ID             int       `json:"id"`
	Email          string    `json:"email"`
	Password       Password  `json:"-"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Bio            string    `json:"bio,omitempty"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Version        int       `json:"version"`
}

type Password struct {
	Plain string `json:"-"`
	hash  []byte `json:"-"`
}

// Profile is the public view of a user together with derived activity counts.
type Profile struct {
	ID             int       `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Bio            string    `json:"bio,omitempty"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	BlogCount      int       `json:"blog_count"`
	CommentCount   int       `json:"comment_count"`
}
