package imageservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/inkwell-app/inkwell/internal/common"
)

const DefaultMaxBytes = 5 << 20 // 5MB

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrTooLarge        = errors.New("file size exceeds the maximum allowed size")
	ErrUnsupportedType = errors.New("file type not allowed")
)

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

func NewImageService(db *sql.DB, store *DiskStore, maxBytes int64) *ImageService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	return &ImageService{
		m:        newImageModel(db),
		store:    store,
		maxBytes: maxBytes,
	}
}

// MaxBytes returns the configured upload size limit.
func (s *ImageService) MaxBytes() int64 {
	return s.maxBytes
}

type UploadRequest struct {
	BlogID       int
	OriginalName string
	ContentType  string
	Size         int64
	Body         io.Reader
	UserID       int
}

// UploadImage stores an image for a blog. Only the blog's author may upload.
// Empty files, oversized files and non-image content types are rejected
// before anything touches the disk.
func (s *ImageService) UploadImage(ctx context.Context, req *UploadRequest) (*Image, error) {
	switch {
	case req.Size == 0:
		return nil, ErrEmptyFile
	case req.Size > s.maxBytes:
		return nil, ErrTooLarge
	case !allowedContentTypes[req.ContentType]:
		return nil, ErrUnsupportedType
	}

	owner, err := s.m.blogOwner(ctx, req.BlogID)
	if err != nil {
		return nil, err
	}
	if owner != req.UserID {
		return nil, common.ErrNotPermitted
	}

	name, err := randomFileName(req.OriginalName)
	if err != nil {
		return nil, err
	}

	// cap the copy one byte past the limit so an understated Size is caught
	path, written, err := s.store.Save(name, io.LimitReader(req.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}
	if written > s.maxBytes {
		s.store.RemovePath(path)
		return nil, ErrTooLarge
	}
	if written == 0 {
		s.store.RemovePath(path)
		return nil, ErrEmptyFile
	}

	img := &Image{
		FileName:     name,
		OriginalName: req.OriginalName,
		FilePath:     path,
		ContentType:  req.ContentType,
		FileSize:     written,
		BlogID:       req.BlogID,
	}

	if err := s.m.insert(ctx, img); err != nil {
		s.store.RemovePath(path)
		return nil, err
	}

	img.URL = "/v1/images/" + img.FileName
	return img, nil
}

// DeleteImage removes the image row and its file. Only the author of the
// parent blog may delete it.
func (s *ImageService) DeleteImage(ctx context.Context, imageID, userID int) error {
	img, err := s.m.deleteOwned(ctx, imageID, userID)
	if err != nil {
		return err
	}

	if err := s.store.RemovePath(img.FilePath); err != nil {
		return fmt.Errorf("failed to delete image file: %w", err)
	}

	return nil
}

// GetImageByFileName returns the metadata for a stored file name. Serving is
// unauthenticated, so this performs no ownership check.
func (s *ImageService) GetImageByFileName(ctx context.Context, name string) (*Image, error) {
	img, err := s.m.getByFileName(ctx, name)
	if err != nil {
		return nil, err
	}

	img.URL = "/v1/images/" + img.FileName
	return img, nil
}

// OpenFile opens the stored bytes for streaming to a response.
func (s *ImageService) OpenFile(img *Image) (*os.File, error) {
	return s.store.Open(img.FileName)
}

func (s *ImageService) GetImagesByBlogID(ctx context.Context, blogID int) ([]Image, error) {
	images, err := s.m.getByBlogID(ctx, blogID)
	if err != nil {
		return nil, err
	}

	for i := range images {
		images[i].URL = "/v1/images/" + images[i].FileName
	}

	return images, nil
}

// RemoveFiles deletes stored files by path, returning the first error after
// attempting every path. Used after a blog cascade delete commits.
func (s *ImageService) RemoveFiles(paths []string) error {
	var firstErr error
	for _, path := range paths {
		if err := s.store.RemovePath(path); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
