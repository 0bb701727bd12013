package factories

import (
	"context"
	"io"
	"time"

	"github.com/jaswdr/faker"
	ierr "github.com/majawitosz/tab-backend/internal/errors"
	"github.com/majawitosz/tab-backend/internal/logger"
	"github.com/majawitosz/tab-backend/internal/models"
	"github.com/majawitosz/tab-backend/internal/repositories"
	"github.com/schollz/progressbar/v3"
)

type SeedOptions struct {
	Range        models.DateRange
	OrdersPerDay int
	Tables       int
	// Reset removes existing orders first.
	Reset bool
	// Progress receives the progress bar; nil disables it.
	Progress io.Writer
}

type SeedResult struct {
	MenuItems int
	Orders    int
}

// Seeder fills the database with demo menu and order history.
type Seeder struct {
	menu   repositories.MenuItemRepository
	orders repositories.OrderRepository
	fake   faker.Faker
	loc    *time.Location
	log    *logger.Logger
}

func NewSeeder(menu repositories.MenuItemRepository, orders repositories.OrderRepository, fake faker.Faker, loc *time.Location, log *logger.Logger) *Seeder {
	if loc == nil {
		loc = time.UTC
	}
	return &Seeder{menu: menu, orders: orders, fake: fake, loc: loc, log: log}
}

func (s *Seeder) Seed(ctx context.Context, opts SeedOptions) (*SeedResult, error) {
	if opts.Range.Start.After(opts.Range.End) {
		return nil, ierr.NewErrorf("seed range %s is inverted", opts.Range).
			WithHint("start date must not be after end date").
			Mark(ierr.ErrValidation)
	}

	if opts.Reset {
		if err := s.orders.DeleteAll(ctx); err != nil {
			return nil, err
		}
	}

	menu, err := s.ensureMenu(ctx)
	if err != nil {
		return nil, err
	}

	var days []time.Time
	for d := opts.Range.Start; !d.After(opts.Range.End); d = d.AddDate(0, 0, 1) {
		days = append(days, time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, s.loc))
	}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(len(days),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription("seeding orders"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(false),
		)
	}

	factory := NewOrderFactory(s.fake, menu, opts.Tables)
	result := &SeedResult{MenuItems: len(menu)}
	for _, day := range days {
		n := factory.OrdersForDay(day, opts.OrdersPerDay)
		for i := 0; i < n; i++ {
			order, lines := factory.CreateOrder(day)
			if err := s.orders.Create(ctx, order, lines); err != nil {
				return result, err
			}
			result.Orders++
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	s.log.Infow("seed finished",
		"menu_items", result.MenuItems,
		"orders", result.Orders,
		"range", opts.Range.String())
	return result, nil
}

func (s *Seeder) ensureMenu(ctx context.Context) ([]*models.MenuItem, error) {
	menu, err := s.menu.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(menu) > 0 {
		return menu, nil
	}

	menu = NewMenuItemFactory(s.fake).CreateMenu()
	if err := s.menu.BulkCreate(ctx, menu); err != nil {
		return nil, err
	}
	s.log.Infow("menu created", "items", len(menu))
	return menu, nil
}
