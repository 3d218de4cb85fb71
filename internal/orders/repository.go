package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/storecraft/commerce/internal/domain"
)

// Repository persists orders and their items in the orders schema. An order
// and its lines are written in a single transaction.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, store_id, user_id, status, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, order.ID, order.StoreID, order.UserID, order.Status, order.Active, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		if err := insertItem(ctx, tx, order.ID, item); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveOrder updates the order row itself. Items are append-only and go
// through AppendItem.
func (r *Repository) SaveOrder(ctx context.Context, order *domain.Order) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $2, active = $3, updated_at = $4
		WHERE id = $1
	`, order.ID, order.Status, order.Active, order.UpdatedAt)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) AppendItem(ctx context.Context, order *domain.Order, item domain.OrderItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertItem(ctx, tx, order.ID, item); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE orders SET updated_at = $2 WHERE id = $1
	`, order.ID, order.UpdatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	order := &domain.Order{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, store_id, user_id, status, active, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&order.ID, &order.StoreID, &order.UserID, &order.Status, &order.Active, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, quantity, price_amount, price_currency
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var item domain.OrderItem
		var amount, currency string
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &amount, &currency); err != nil {
			return nil, err
		}
		if item.Price, err = rebuildPrice(amount, currency); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return order, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, store_id, user_id, status, active, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	orderMap := make(map[string]*domain.Order)
	var orderIDs []string

	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.StoreID, &order.UserID, &order.Status, &order.Active, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		order.Items = []domain.OrderItem{}
		orderMap[order.ID] = &order
		orderIDs = append(orderIDs, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(orderIDs) == 0 {
		return []domain.Order{}, nil
	}

	itemRows, err := r.db.QueryContext(ctx, `
		SELECT order_id, id, product_id, quantity, price_amount, price_currency
		FROM order_items
		WHERE order_id = ANY($1)
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer func() { _ = itemRows.Close() }()

	for itemRows.Next() {
		var orderID string
		var item domain.OrderItem
		var amount, currency string
		if err := itemRows.Scan(&orderID, &item.ID, &item.ProductID, &item.Quantity, &amount, &currency); err != nil {
			return nil, err
		}
		if item.Price, err = rebuildPrice(amount, currency); err != nil {
			return nil, err
		}
		order := orderMap[orderID]
		order.Items = append(order.Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		orders = append(orders, *orderMap[id])
	}

	return orders, nil
}

func insertItem(ctx context.Context, tx *sql.Tx, orderID string, item domain.OrderItem) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO order_items (id, order_id, product_id, quantity, price_amount, price_currency)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, item.ID, orderID, item.ProductID, item.Quantity, item.Price.Amount().String(), item.Price.Currency())
	return err
}

func rebuildPrice(amount, currency string) (domain.Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.Money{}, fmt.Errorf("parse item price: %w", err)
	}
	price, err := domain.NewMoney(d, domain.Currency(currency))
	if err != nil {
		return domain.Money{}, fmt.Errorf("rebuild item price: %w", err)
	}
	return price, nil
}
