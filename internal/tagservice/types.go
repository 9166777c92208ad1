package tagservice

import (
	"database/sql"
	"time"
)

type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	// Color is an optional display hint, e.g. "#ff8800".
	Color string `json:"color,omitempty"`
	// UsageCount is derived from the number of blogs carrying the tag. It
	// is never stored.
	UsageCount int       `json:"usage_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type TagModel struct {
	db *sql.DB
}

type TagService struct {
	m *TagModel
}
