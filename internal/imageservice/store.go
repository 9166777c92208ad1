package imageservice

import (
	"crypto/rand"
	"encoding/base32"
	"io"
	"os"
	"path/filepath"
)

// DiskStore is a flat directory of uploaded files addressed by their stored
// name.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &DiskStore{dir: dir}, nil
}

// randomFileName generates a unique stored name keeping the original
// extension so the content type can be re-derived from the name alone.
func randomFileName(originalName string) (string, error) {
	randomBytes := make([]byte, 16)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return "", err
	}

	name := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	return name + filepath.Ext(originalName), nil
}

// Save streams the reader to disk under name and returns the full path and
// the number of bytes written. A partially written file is removed on error.
func (s *DiskStore) Save(name string, r io.Reader) (string, int64, error) {
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", 0, err
	}

	n, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(path)
		return "", 0, err
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", 0, err
	}

	return path, n, nil
}

func (s *DiskStore) Open(name string) (*os.File, error) {
	return os.Open(filepath.Join(s.dir, name))
}

// RemovePath deletes a stored file by its full path. A file that is already
// gone is not an error.
func (s *DiskStore) RemovePath(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}
