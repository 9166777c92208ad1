package commentservice

import (
	"database/sql"
	"time"

	"github.com/inkwell-app/inkwell/internal/userservice"
)

type Comment struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
	// Edited is set on the first successful update and never reverts.
	Edited    bool             `json:"edited"`
	BlogID    int              `json:"blog_id"`
	Author    userservice.User `json:"author"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Version   int              `json:"version"`
}

type CommentModel struct {
	db *sql.DB
}

type CommentService struct {
	m *CommentModel
}
