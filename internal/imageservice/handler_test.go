package imageservice

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-app/inkwell/internal/common"
)

func setupTestEnvironment(t *testing.T) (*ImageService, *sql.DB, int, int, int) {
	db := common.TestDB("file://../../migrations", t)

	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	var authorID, otherID, blogID int
	err = db.QueryRow(`INSERT INTO users (email, password_hash, first_name, last_name) VALUES ('author@example.com', 'x', 'Blog', 'Author') RETURNING id`).Scan(&authorID)
	require.NoError(t, err)
	err = db.QueryRow(`INSERT INTO users (email, password_hash, first_name, last_name) VALUES ('other@example.com', 'x', 'Someone', 'Else') RETURNING id`).Scan(&otherID)
	require.NoError(t, err)
	err = db.QueryRow(`INSERT INTO blogs (title, content, user_id) VALUES ('Post', 'body', $1) RETURNING id`, authorID).Scan(&blogID)
	require.NoError(t, err)

	return NewImageService(db, store, 64), db, authorID, otherID, blogID
}

func uploadRequest(blogID, userID int, content string) *UploadRequest {
	return &UploadRequest{
		BlogID:       blogID,
		OriginalName: "photo.png",
		ContentType:  "image/png",
		Size:         int64(len(content)),
		Body:         strings.NewReader(content),
		UserID:       userID,
	}
}

func TestUploadImage(t *testing.T) {
	s, db, authorID, otherID, blogID := setupTestEnvironment(t)
	ctx := context.Background()

	t.Run("valid upload", func(t *testing.T) {
		img, err := s.UploadImage(ctx, uploadRequest(blogID, authorID, "png bytes"))
		require.NoError(t, err)
		assert.Equal(t, "photo.png", img.OriginalName)
		assert.True(t, strings.HasSuffix(img.FileName, ".png"))
		assert.Equal(t, int64(len("png bytes")), img.FileSize)
		assert.Equal(t, "/v1/images/"+img.FileName, img.URL)

		// the bytes round trip through the store
		f, err := s.OpenFile(img)
		require.NoError(t, err)
		defer f.Close()
		data, err := os.ReadFile(f.Name())
		require.NoError(t, err)
		assert.Equal(t, "png bytes", string(data))
	})

	t.Run("non-author is rejected", func(t *testing.T) {
		_, err := s.UploadImage(ctx, uploadRequest(blogID, otherID, "png bytes"))
		assert.ErrorIs(t, err, common.ErrNotPermitted)
	})

	t.Run("missing blog", func(t *testing.T) {
		_, err := s.UploadImage(ctx, uploadRequest(99999, authorID, "png bytes"))
		assert.ErrorIs(t, err, common.ErrRecordNotFound)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := s.UploadImage(ctx, uploadRequest(blogID, authorID, ""))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := s.UploadImage(ctx, uploadRequest(blogID, authorID, strings.Repeat("x", 65)))
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("unsupported type", func(t *testing.T) {
		req := uploadRequest(blogID, authorID, "plain text")
		req.ContentType = "text/plain"
		_, err := s.UploadImage(ctx, req)
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("no stray rows from rejected uploads", func(t *testing.T) {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM blog_images").Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestDeleteImage(t *testing.T) {
	s, db, authorID, otherID, blogID := setupTestEnvironment(t)
	ctx := context.Background()

	img, err := s.UploadImage(ctx, uploadRequest(blogID, authorID, "png bytes"))
	require.NoError(t, err)

	t.Run("non-author is rejected", func(t *testing.T) {
		err := s.DeleteImage(ctx, img.ID, otherID)
		assert.ErrorIs(t, err, common.ErrNotPermitted)
	})

	t.Run("author deletes row and file", func(t *testing.T) {
		err := s.DeleteImage(ctx, img.ID, authorID)
		require.NoError(t, err)

		var count int
		err = db.QueryRow("SELECT COUNT(*) FROM blog_images").Scan(&count)
		require.NoError(t, err)
		assert.Zero(t, count)

		_, err = os.Stat(img.FilePath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("missing image", func(t *testing.T) {
		err := s.DeleteImage(ctx, 99999, authorID)
		assert.ErrorIs(t, err, common.ErrRecordNotFound)
	})
}

func TestGetImageByFileName(t *testing.T) {
	s, _, authorID, _, blogID := setupTestEnvironment(t)
	ctx := context.Background()

	img, err := s.UploadImage(ctx, uploadRequest(blogID, authorID, "png bytes"))
	require.NoError(t, err)

	got, err := s.GetImageByFileName(ctx, img.FileName)
	require.NoError(t, err)
	assert.Equal(t, img.ID, got.ID)
	assert.Equal(t, "image/png", got.ContentType)

	_, err = s.GetImageByFileName(ctx, "missing.png")
	assert.ErrorIs(t, err, common.ErrRecordNotFound)
}
