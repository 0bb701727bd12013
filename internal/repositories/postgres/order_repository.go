package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	ierr "github.com/majawitosz/tab-backend/internal/errors"
	"github.com/majawitosz/tab-backend/internal/models"
	"github.com/shopspring/decimal"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) ListOrders(ctx context.Context, from, to time.Time) ([]*models.Order, error) {
	query := `
        SELECT
            id,
            table_number,
            status,
            total_amount::text,
            created_at,
            completed_at
        FROM orders
        WHERE created_at >= $1 AND created_at < $2
        ORDER BY created_at, id
    `
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, ierr.WithError(err).WithHint("Failed to list orders").Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		var total string
		err := rows.Scan(
			&order.ID,
			&order.TableNumber,
			&order.Status,
			&total,
			&order.CreatedAt,
			&order.CompletedAt,
		)
		if err != nil {
			return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
		}
		if order.TotalAmount, err = decimal.NewFromString(total); err != nil {
			return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	return orders, nil
}

func (r *OrderRepository) ListOrderLines(ctx context.Context, from, to time.Time) ([]*models.OrderLine, error) {
	query := `
        SELECT
            oi.order_id,
            oi.menu_item_id,
            mi.name,
            oi.quantity,
            oi.price_at_time::text,
            o.created_at
        FROM order_items oi
        JOIN orders o ON o.id = oi.order_id
        JOIN menu_items mi ON mi.id = oi.menu_item_id
        WHERE o.created_at >= $1 AND o.created_at < $2
        ORDER BY o.created_at, oi.id
    `
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, ierr.WithError(err).WithHint("Failed to list order items").Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var lines []*models.OrderLine
	for rows.Next() {
		line := &models.OrderLine{}
		var price string
		err := rows.Scan(
			&line.OrderID,
			&line.MenuItemID,
			&line.MenuItemName,
			&line.Quantity,
			&price,
			&line.OrderCreatedAt,
		)
		if err != nil {
			return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
		}
		if line.PriceAtTime, err = decimal.NewFromString(price); err != nil {
			return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	return lines, nil
}

// Create inserts the order and its lines in one transaction. order.ID is set
// from the database.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order, lines []*models.OrderLine) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
        INSERT INTO orders (table_number, status, total_amount, created_at, completed_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `,
		order.TableNumber,
		order.Status,
		numeric(order.TotalAmount),
		order.CreatedAt,
		order.CompletedAt,
	).Scan(&order.ID)
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrDatabase)
	}

	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"order_items"},
		[]string{"order_id", "menu_item_id", "quantity", "price_at_time"},
		pgx.CopyFromSlice(len(lines), func(i int) ([]interface{}, error) {
			lines[i].OrderID = order.ID
			return []interface{}{
				order.ID,
				lines[i].MenuItemID,
				lines[i].Quantity,
				numeric(lines[i].PriceAtTime),
			}, nil
		}),
	)
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrDatabase)
	}

	if err := tx.Commit(ctx); err != nil {
		return ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *OrderRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM orders").Scan(&count)
	return count, err
}

func (r *OrderRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE order_items, orders CASCADE")
	return err
}
