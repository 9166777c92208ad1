package imageservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/inkwell-app/inkwell/internal/common"
)

func newImageModel(db *sql.DB) *ImageModel {
	return &ImageModel{db: db}
}

// blogOwner returns the author id of the parent blog; images are owned
// through their blog.
func (m *ImageModel) blogOwner(ctx context.Context, blogID int) (int, error) {
	var owner int
	err := m.db.QueryRowContext(ctx, "SELECT user_id FROM blogs WHERE id = $1", blogID).Scan(&owner)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return 0, common.ErrRecordNotFound
		default:
			return 0, err
		}
	}

	return owner, nil
}

func (m *ImageModel) insert(ctx context.Context, img *Image) error {
	query := `
		INSERT INTO blog_images (file_name, original_name, file_path, content_type, file_size, blog_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	args := []any{
		img.FileName,
		img.OriginalName,
		img.FilePath,
		img.ContentType,
		img.FileSize,
		img.BlogID,
	}

	return m.db.QueryRowContext(ctx, query, args...).Scan(&img.ID, &img.CreatedAt)
}

const imageColumns = `id, file_name, original_name, file_path, content_type, file_size, blog_id, created_at`

func scanImage(row interface{ Scan(dest ...any) error }, img *Image) error {
	return row.Scan(&img.ID, &img.FileName, &img.OriginalName, &img.FilePath, &img.ContentType, &img.FileSize, &img.BlogID, &img.CreatedAt)
}

func (m *ImageModel) getByFileName(ctx context.Context, name string) (*Image, error) {
	query := `
		SELECT ` + imageColumns + `
		FROM blog_images
		WHERE file_name = $1`

	var img Image
	err := scanImage(m.db.QueryRowContext(ctx, query, name), &img)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &img, nil
}

// deleteOwned removes the image row after checking the acting user owns the
// parent blog, all in one transaction.
func (m *ImageModel) deleteOwned(ctx context.Context, imageID, userID int) (*Image, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
		SELECT i.id, i.file_name, i.original_name, i.file_path, i.content_type, i.file_size, i.blog_id, i.created_at, b.user_id
		FROM blog_images i
		JOIN blogs b ON i.blog_id = b.id
		WHERE i.id = $1`

	var img Image
	var owner int
	err = tx.QueryRowContext(ctx, query, imageID).Scan(&img.ID, &img.FileName, &img.OriginalName, &img.FilePath, &img.ContentType, &img.FileSize, &img.BlogID, &img.CreatedAt, &owner)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	if owner != userID {
		return nil, common.ErrNotPermitted
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM blog_images WHERE id = $1", imageID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &img, nil
}

func (m *ImageModel) getByBlogID(ctx context.Context, blogID int) ([]Image, error) {
	query := `
		SELECT ` + imageColumns + `
		FROM blog_images
		WHERE blog_id = $1
		ORDER BY created_at ASC`

	rows, err := m.db.QueryContext(ctx, query, blogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := []Image{}
	for rows.Next() {
		var img Image
		if err := scanImage(rows, &img); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return images, nil
}
