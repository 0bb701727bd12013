package testutil

import (
	"context"
	"sync"

	ierr "github.com/majawitosz/tab-backend/internal/errors"
)

// InMemoryBlobStore implements blobstore.Store
type InMemoryBlobStore struct {
	mu      sync.RWMutex
	BaseURL string
	objects map[string][]byte
	// FailSave makes Save return this error.
	FailSave error
}

func NewInMemoryBlobStore(baseURL string) *InMemoryBlobStore {
	return &InMemoryBlobStore{BaseURL: baseURL, objects: make(map[string][]byte)}
}

func (s *InMemoryBlobStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	if s.FailSave != nil {
		return "", s.FailSave
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[name]; ok {
		return "", ierr.NewErrorf("object %s already exists", name).Mark(ierr.ErrAlreadyExists)
	}
	s.objects[name] = append([]byte(nil), data...)
	return s.URLFor(name), nil
}

func (s *InMemoryBlobStore) URLFor(name string) string {
	return s.BaseURL + name
}

func (s *InMemoryBlobStore) Exists(ctx context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[name]
	return ok, nil
}

func (s *InMemoryBlobStore) Open(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[name]
	if !ok {
		return nil, ierr.NewErrorf("object %s not found", name).Mark(ierr.ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

func (s *InMemoryBlobStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return ierr.WithError(err).Mark(ierr.ErrStorage)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, name)
	return nil
}

func (s *InMemoryBlobStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.objects))
	for name := range s.objects {
		names = append(names, name)
	}
	return names
}
