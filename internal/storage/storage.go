package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Storage persists damage evidence files (photos attached to damage reports).
// Keys are opaque relative paths issued by the server.
type Storage interface {
	SaveFile(key string, reader io.Reader) error
	ReadFile(key string) (io.ReadCloser, error)
	FileExists(key string) (bool, int64, error)
	DeleteFile(key string) error

	// PublicURL returns the URL a client uses to fetch the file, suitable
	// for embedding in a damage report's image list.
	PublicURL(key string) string
}

// LocalStorage keeps evidence on the local filesystem. Suitable for a single
// node; an object-store implementation can replace it behind the interface.
type LocalStorage struct {
	baseURL string
	rootDir string
}

func NewLocalStorage(baseURL, rootDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create evidence directory: %w", err)
	}
	return &LocalStorage{baseURL: strings.TrimRight(baseURL, "/"), rootDir: rootDir}, nil
}

// path resolves key inside rootDir, rejecting traversal outside it.
func (s *LocalStorage) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	full := filepath.Join(s.rootDir, clean)
	if !strings.HasPrefix(full, filepath.Clean(s.rootDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return full, nil
}

func (s *LocalStorage) SaveFile(key string, reader io.Reader) error {
	full, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	f, err := os.Create(full)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := io.Copy(f, reader); err != nil {
		os.Remove(full)
		return err
	}
	return nil
}

func (s *LocalStorage) ReadFile(key string) (io.ReadCloser, error) {
	full, err := s.path(key)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

func (s *LocalStorage) FileExists(key string) (bool, int64, error) {
	full, err := s.path(key)
	if err != nil {
		return false, 0, err
	}
	info, err := os.Stat(full)
	if os.IsNotExist(err) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	return true, info.Size(), nil
}

func (s *LocalStorage) DeleteFile(key string) error {
	full, err := s.path(key)
	if err != nil {
		return err
	}
	err = os.Remove(full)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *LocalStorage) PublicURL(key string) string {
	return fmt.Sprintf("%s/evidence/%s", s.baseURL, key)
}
