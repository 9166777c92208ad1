package imageservice

import (
	"database/sql"
	"time"
)

type Image struct {
	ID int `json:"id"`
	// FileName is the system-generated stored name, unique across all
	// images and safe to expose in URLs.
	FileName     string    `json:"file_name"`
	OriginalName string    `json:"original_name"`
	FilePath     string    `json:"-"`
	ContentType  string    `json:"content_type"`
	FileSize     int64     `json:"file_size"`
	BlogID       int       `json:"blog_id"`
	CreatedAt    time.Time `json:"created_at"`
	URL          string    `json:"url"`
}

type ImageModel struct {
	db *sql.DB
}

type ImageService struct {
	m        *ImageModel
	store    *DiskStore
	maxBytes int64
}
