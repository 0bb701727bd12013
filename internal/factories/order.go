package factories

import (
	"time"

	"github.com/jaswdr/faker"
	"github.com/majawitosz/tab-backend/internal/models"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type OrderFactory struct {
	fake   faker.Faker
	menu   []*models.MenuItem
	tables int
}

func NewOrderFactory(fake faker.Faker, menu []*models.MenuItem, tables int) *OrderFactory {
	if tables < 1 {
		tables = 1
	}
	return &OrderFactory{fake: fake, menu: menu, tables: tables}
}

// OrdersForDay scales base by weekday: busier on weekends and Friday.
func (of *OrderFactory) OrdersForDay(day time.Time, base int) int {
	multiplier := 1.0
	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		multiplier = 1.5
	case time.Friday:
		multiplier = 1.3
	case time.Monday:
		multiplier = 0.8
	}
	jitter := float64(of.fake.IntBetween(85, 115)) / 100
	return int(float64(base) * multiplier * jitter)
}

// CreateOrder builds a finished order placed on day (a local midnight) with
// one to four distinct dishes. The total is the exact sum of its lines.
func (of *OrderFactory) CreateOrder(day time.Time) (*models.Order, []*models.OrderLine) {
	createdAt := day.Add(of.orderTime())

	picked := of.pickDishes(lo.Min([]int{of.fake.IntBetween(1, 4), len(of.menu)}))

	total := decimal.Zero
	lines := make([]*models.OrderLine, 0, len(picked))
	for _, item := range picked {
		line := &models.OrderLine{
			MenuItemID:     item.ID,
			MenuItemName:   item.Name,
			Quantity:       of.quantity(),
			PriceAtTime:    item.Price,
			OrderCreatedAt: createdAt,
		}
		total = total.Add(line.Amount())
		lines = append(lines, line)
	}

	order := &models.Order{
		TableNumber: of.fake.IntBetween(1, of.tables),
		Status:      models.OrderStatusCompleted,
		TotalAmount: total,
		CreatedAt:   createdAt,
	}
	completedAt := createdAt.Add(time.Duration(of.fake.IntBetween(20, 90)) * time.Minute)
	order.CompletedAt = &completedAt
	return order, lines
}

func (of *OrderFactory) pickDishes(n int) []*models.MenuItem {
	picked := make([]*models.MenuItem, 0, n)
	used := make(map[int]bool, n)
	for len(picked) < n {
		i := of.fake.IntBetween(0, len(of.menu)-1)
		if used[i] {
			continue
		}
		used[i] = true
		picked = append(picked, of.menu[i])
	}
	return picked
}

// orderTime picks an offset from midnight between 11:00 and 22:59, weighted
// toward the lunch and dinner peaks.
func (of *OrderFactory) orderTime() time.Duration {
	var hour int
	switch r := of.fake.IntBetween(1, 100); {
	case r <= 35:
		hour = of.fake.IntBetween(12, 13)
	case r <= 75:
		hour = of.fake.IntBetween(18, 20)
	default:
		hour = of.fake.IntBetween(11, 22)
	}
	return time.Duration(hour)*time.Hour + time.Duration(of.fake.IntBetween(0, 3599))*time.Second
}

func (of *OrderFactory) quantity() int {
	if of.fake.IntBetween(1, 100) <= 70 {
		return 1
	}
	return of.fake.IntBetween(2, 3)
}
