package reporting

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/majawitosz/tab-backend/internal/models"
	"github.com/majawitosz/tab-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dateRange(start, end string) models.DateRange {
	r, err := models.ParseDateRange(start, end)
	if err != nil {
		panic(err)
	}
	return r
}

type dish struct {
	name  string
	qty   int
	price string
}

func addOrder(t *testing.T, store *testutil.InMemoryOrderStore, at time.Time, total string, dishes ...dish) {
	t.Helper()
	lines := make([]*models.OrderLine, 0, len(dishes))
	for i, d := range dishes {
		lines = append(lines, &models.OrderLine{
			MenuItemID:   int64(i + 1),
			MenuItemName: d.name,
			Quantity:     d.qty,
			PriceAtTime:  decimal.RequireFromString(d.price),
		})
	}
	err := store.Create(context.Background(), &models.Order{
		TableNumber: 1,
		Status:      models.OrderStatusCompleted,
		TotalAmount: decimal.RequireFromString(total),
		CreatedAt:   at,
	}, lines)
	require.NoError(t, err)
}

func dishName(i int) string {
	return fmt.Sprintf("Danie %02d", i)
}
