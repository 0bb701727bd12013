package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	ierr "github.com/majawitosz/tab-backend/internal/errors"
)

// LocalStore keeps objects under a root directory and serves them below a
// public base URL, e.g. "/media/" or "https://tab.example.com/media/".
type LocalStore struct {
	root    string
	baseURL string
}

func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Unable to create media directory %s", root).
			Mark(ierr.ErrStorage)
	}
	return &LocalStore{root: root, baseURL: baseURL}, nil
}

func (s *LocalStore) path(name string) (string, error) {
	clean := filepath.Clean("/" + name)
	if clean == "/" || strings.Contains(name, "..") {
		return "", ierr.NewErrorf("invalid object name %q", name).Mark(ierr.ErrValidation)
	}
	return filepath.Join(s.root, clean), nil
}

func (s *LocalStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	p, err := s.path(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", ierr.WithError(err).Mark(ierr.ErrStorage)
	}

	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return "", ierr.NewErrorf("object %s already exists", name).
				WithHint("A report with this file name already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return "", ierr.WithError(err).Mark(ierr.ErrStorage)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(p)
		return "", ierr.WithError(err).Mark(ierr.ErrStorage)
	}
	if err := f.Close(); err != nil {
		os.Remove(p)
		return "", ierr.WithError(err).Mark(ierr.ErrStorage)
	}
	return s.URLFor(name), nil
}

func (s *LocalStore) URLFor(name string) string {
	return joinURL(s.baseURL, strings.TrimPrefix(name, "/"))
}

func (s *LocalStore) Exists(ctx context.Context, name string) (bool, error) {
	p, err := s.path(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, ierr.WithError(err).Mark(ierr.ErrStorage)
}

func (s *LocalStore) Open(ctx context.Context, name string) ([]byte, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ierr.NewErrorf("object %s not found", name).Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).Mark(ierr.ErrStorage)
	}
	return data, nil
}

func (s *LocalStore) Delete(ctx context.Context, name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return ierr.WithError(err).Mark(ierr.ErrStorage)
	}
	return nil
}
