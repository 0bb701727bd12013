package testutil

import (
	"context"
	"sync"

	"github.com/majawitosz/tab-backend/internal/models"
)

// InMemoryMenuItemStore implements repositories.MenuItemRepository
type InMemoryMenuItemStore struct {
	mu     sync.RWMutex
	nextID int64
	items  []*models.MenuItem
}

func NewInMemoryMenuItemStore() *InMemoryMenuItemStore {
	return &InMemoryMenuItemStore{nextID: 1}
}

func (s *InMemoryMenuItemStore) BulkCreate(ctx context.Context, menuItems []*models.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range menuItems {
		item.ID = s.nextID
		s.nextID++
		c := *item
		s.items = append(s.items, &c)
	}
	return nil
}

func (s *InMemoryMenuItemStore) GetAll(ctx context.Context) ([]*models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.MenuItem, len(s.items))
	for i, item := range s.items {
		c := *item
		out[i] = &c
	}
	return out, nil
}

func (s *InMemoryMenuItemStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items), nil
}
