package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/majawitosz/tab-backend/internal/models"
)

// InMemoryOrderStore implements repositories.OrderRepository
type InMemoryOrderStore struct {
	mu     sync.RWMutex
	nextID int64
	orders []*models.Order
	lines  []*models.OrderLine
}

func NewInMemoryOrderStore() *InMemoryOrderStore {
	return &InMemoryOrderStore{nextID: 1}
}

func (s *InMemoryOrderStore) Create(ctx context.Context, order *models.Order, lines []*models.OrderLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := *order
	o.ID = s.nextID
	s.nextID++
	order.ID = o.ID
	s.orders = append(s.orders, &o)

	for _, line := range lines {
		l := *line
		l.OrderID = o.ID
		l.OrderCreatedAt = o.CreatedAt
		line.OrderID = o.ID
		s.lines = append(s.lines, &l)
	}
	return nil
}

func (s *InMemoryOrderStore) ListOrders(ctx context.Context, from, to time.Time) ([]*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Order
	for _, o := range s.orders {
		if !o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
			c := *o
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryOrderStore) ListOrderLines(ctx context.Context, from, to time.Time) ([]*models.OrderLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.OrderLine
	for _, l := range s.lines {
		if !l.OrderCreatedAt.Before(from) && l.OrderCreatedAt.Before(to) {
			c := *l
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderCreatedAt.Before(out[j].OrderCreatedAt) })
	return out, nil
}

func (s *InMemoryOrderStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders), nil
}

func (s *InMemoryOrderStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = nil
	s.lines = nil
	return nil
}
