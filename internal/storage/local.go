package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jobspace-backend/internal/domain"
)

// PublicPrefix is the route under which stored files are served.
const PublicPrefix = "/uploads/"

var ErrInvalidName = errors.New("invalid file name")

// LocalStorage writes blobs into a single directory that is created on
// first use.
type LocalStorage struct {
	dir string
}

var _ domain.FileStorage = (*LocalStorage)(nil)

func NewLocalStorage(dir string) *LocalStorage {
	return &LocalStorage{dir: dir}
}

func (s *LocalStorage) Dir() string { return s.dir }

func (s *LocalStorage) Name() string { return "local" }

func (s *LocalStorage) Put(_ context.Context, name, _ string, data []byte) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("storage: create %s: %w", s.dir, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("storage: write %s: %w", name, err)
	}
	return nil
}

func (s *LocalStorage) Delete(_ context.Context, name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: remove %s: %w", name, err)
	}
	return nil
}

func (s *LocalStorage) URL(_ context.Context, name string) (string, error) {
	if _, err := s.path(name); err != nil {
		return "", err
	}
	return PublicPrefix + name, nil
}

func (s *LocalStorage) path(name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name), nil
}

// checkName rejects anything that is not a plain file name.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return ErrInvalidName
	}
	return nil
}
