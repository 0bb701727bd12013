package repositories

import (
	"context"
	"time"

	"github.com/majawitosz/tab-backend/internal/models"
)

// OrderReader is the read-only view of order data used by reporting. Both
// queries select orders whose created_at lies in [from, to).
type OrderReader interface {
	ListOrders(ctx context.Context, from, to time.Time) ([]*models.Order, error)
	ListOrderLines(ctx context.Context, from, to time.Time) ([]*models.OrderLine, error)
}

type OrderRepository interface {
	OrderReader
	Create(ctx context.Context, order *models.Order, lines []*models.OrderLine) error
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type MenuItemRepository interface {
	BulkCreate(ctx context.Context, menuItems []*models.MenuItem) error
	GetAll(ctx context.Context) ([]*models.MenuItem, error)
	Count(ctx context.Context) (int, error)
}

// ReportFilter narrows report listings. Zero values match everything.
type ReportFilter struct {
	Metric models.MetricSelector
	Limit  int
}

// ReportRepository stores report metadata. Records are insert-only.
type ReportRepository interface {
	Create(ctx context.Context, report *models.ReportArtifact) error
	Get(ctx context.Context, id string) (*models.ReportArtifact, error)
	List(ctx context.Context, filter ReportFilter) ([]*models.ReportArtifact, error)
}
