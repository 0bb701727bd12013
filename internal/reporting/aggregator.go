package reporting

import (
	"context"
	"sort"
	"time"

	ierr "github.com/majawitosz/tab-backend/internal/errors"
	"github.com/majawitosz/tab-backend/internal/models"
	"github.com/majawitosz/tab-backend/internal/repositories"
	"github.com/shopspring/decimal"
)

// Aggregator turns raw orders into a labeled series for one metric.
type Aggregator struct {
	orders repositories.OrderReader
	loc    *time.Location
}

// NewAggregator groups by calendar days of loc; nil means UTC.
func NewAggregator(orders repositories.OrderReader, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{orders: orders, loc: loc}
}

// Aggregate never returns a nil series. An empty range, or one whose start
// is after its end, yields an empty series.
func (a *Aggregator) Aggregate(ctx context.Context, metric models.MetricSelector, r models.DateRange) (models.Series, error) {
	from, to := r.Bounds(a.loc)

	switch {
	case metric == models.MetricOverallIncome:
		orders, err := a.orders.ListOrders(ctx, from, to)
		if err != nil {
			return nil, err
		}
		return a.dailyIncome(orders, r), nil

	case metric.Ranked():
		lines, err := a.orders.ListOrderLines(ctx, from, to)
		if err != nil {
			return nil, err
		}
		value := func(l *models.OrderLine) decimal.Decimal {
			return decimal.NewFromInt(int64(l.Quantity))
		}
		if metric == models.MetricDishIncome {
			value = func(l *models.OrderLine) decimal.Decimal { return l.Amount() }
		}
		return a.topDishes(lines, r, value), nil

	default:
		return nil, ierr.NewErrorf("unknown metric %q", metric).Mark(ierr.ErrValidation)
	}
}

func (a *Aggregator) dailyIncome(orders []*models.Order, r models.DateRange) models.Series {
	totals := make(map[string]decimal.Decimal)
	for _, o := range orders {
		if !r.Contains(o.CreatedAt, a.loc) {
			continue
		}
		day := o.CreatedAt.In(a.loc).Format(models.DateLayout)
		totals[day] = totals[day].Add(o.TotalAmount)
	}

	series := make(models.Series, 0, len(totals))
	for day, total := range totals {
		series = append(series, models.SeriesPoint{Label: day, Value: total})
	}
	// YYYY-MM-DD labels sort chronologically
	sort.Slice(series, func(i, j int) bool { return series[i].Label < series[j].Label })
	return series
}

func (a *Aggregator) topDishes(lines []*models.OrderLine, r models.DateRange, value func(*models.OrderLine) decimal.Decimal) models.Series {
	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, l := range lines {
		if !r.Contains(l.OrderCreatedAt, a.loc) {
			continue
		}
		if _, seen := totals[l.MenuItemName]; !seen {
			order = append(order, l.MenuItemName)
		}
		totals[l.MenuItemName] = totals[l.MenuItemName].Add(value(l))
	}

	series := make(models.Series, 0, len(order))
	for _, name := range order {
		series = append(series, models.SeriesPoint{Label: name, Value: totals[name]})
	}
	RankDescending(series)
	if len(series) > models.TopDishesLimit {
		series = series[:models.TopDishesLimit]
	}
	return series
}

// RankDescending orders by value, highest first. Equal values are ordered by
// label, and equal labels keep their input order.
func RankDescending(series models.Series) {
	sort.SliceStable(series, func(i, j int) bool {
		if c := series[i].Value.Cmp(series[j].Value); c != 0 {
			return c > 0
		}
		return series[i].Label < series[j].Label
	})
}
