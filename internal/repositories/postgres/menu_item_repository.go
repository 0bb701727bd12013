package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	ierr "github.com/majawitosz/tab-backend/internal/errors"
	"github.com/majawitosz/tab-backend/internal/models"
	"github.com/shopspring/decimal"
)

type MenuItemRepository struct {
	pool *pgxpool.Pool
}

func NewMenuItemRepository(pool *pgxpool.Pool) *MenuItemRepository {
	return &MenuItemRepository{pool: pool}
}

// BulkCreate inserts the items in one batch and fills in their IDs.
func (r *MenuItemRepository) BulkCreate(ctx context.Context, menuItems []*models.MenuItem) error {
	query := `
        INSERT INTO menu_items (
            name, description, price, category, is_available, is_visible
        ) VALUES (
            $1, $2, $3, $4, $5, $6
        )
        RETURNING id
    `
	batch := &pgx.Batch{}
	for _, menuItem := range menuItems {
		item := menuItem
		batch.Queue(query,
			item.Name,
			item.Description,
			numeric(item.Price),
			item.Category,
			item.IsAvailable,
			item.IsVisible,
		).QueryRow(func(row pgx.Row) error {
			return row.Scan(&item.ID)
		})
	}

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *MenuItemRepository) GetAll(ctx context.Context) ([]*models.MenuItem, error) {
	query := `
        SELECT
            id,
            name,
            description,
            price::text,
            category,
            is_available,
            is_visible
        FROM menu_items
        ORDER BY id
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var menuItems []*models.MenuItem
	for rows.Next() {
		menuItem := &models.MenuItem{}
		var price string
		err := rows.Scan(
			&menuItem.ID,
			&menuItem.Name,
			&menuItem.Description,
			&price,
			&menuItem.Category,
			&menuItem.IsAvailable,
			&menuItem.IsVisible,
		)
		if err != nil {
			return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
		}
		if menuItem.Price, err = decimal.NewFromString(price); err != nil {
			return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
		}
		menuItems = append(menuItems, menuItem)
	}
	return menuItems, rows.Err()
}

func (r *MenuItemRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM menu_items").Scan(&count)
	return count, err
}
