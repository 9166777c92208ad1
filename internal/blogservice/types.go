package blogservice

import (
	"database/sql"
	"time"

	"github.com/inkwell-app/inkwell/internal/common"
	"github.com/inkwell-app/inkwell/internal/tagservice"
	"github.com/inkwell-app/inkwell/internal/userservice"
)

type Blog struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	// Content is stored in Markdown format.
	Content string `json:"content"`
	// ViewCount only ever grows; every successful detail read adds one.
	ViewCount int              `json:"view_count"`
	Author    userservice.User `json:"author"`
	Tags      []tagservice.Tag `json:"tags"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Version   int              `json:"version"`
}

const (
	SortByDate       = "date"
	SortByPopularity = "popularity"
	SortByTitle      = "title"
)

// SearchFilters narrows a blog listing. Tags filter with union semantics: a
// blog matches when it carries any of the requested tags.
type SearchFilters struct {
	Search string
	Tags   []string
	common.Filters
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m *BlogModel
}
