package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// StoreItem is a listing: one store selling one product at a price with a
// stock count. A (store, product) pair has at most one listing; the catalog
// repository enforces uniqueness with an index.
type StoreItem struct {
	ID        string `json:"id"`
	StoreID   string `json:"store_id"`
	ProductID string `json:"product_id"`
	Price     Money  `json:"price"`
	Stock     int    `json:"stock"`
	Lifecycle
}

// NewStoreItem creates an active listing for a product in a store.
func NewStoreItem(store *Store, product *Product, price Money, stock int) (*StoreItem, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required: %w", ErrInvalidValue)
	}
	if product == nil {
		return nil, fmt.Errorf("product is required: %w", ErrInvalidValue)
	}
	if product.StoreID != store.ID {
		return nil, fmt.Errorf("product belongs to another store: %w", ErrInvariantViolation)
	}
	if err := checkListing(price, stock); err != nil {
		return nil, err
	}
	return &StoreItem{
		ID:        uuid.NewString(),
		StoreID:   store.ID,
		ProductID: product.ID,
		Price:     price,
		Stock:     stock,
		Lifecycle: newLifecycle(),
	}, nil
}

// Update re-validates and replaces price and stock.
func (i *StoreItem) Update(price Money, stock int) error {
	if err := checkListing(price, stock); err != nil {
		return err
	}
	i.Price = price
	i.Stock = stock
	i.touch()
	return nil
}

// DecreaseStock removes quantity units after a sale. The whole quantity must
// be available; a partial decrease never happens.
func (i *StoreItem) DecreaseStock(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be greater than zero: %w", ErrInvalidValue)
	}
	if quantity > i.Stock {
		return fmt.Errorf("%d requested, %d available: %w", quantity, i.Stock, ErrInsufficientStock)
	}
	i.Stock -= quantity
	i.touch()
	return nil
}

// Restock returns quantity units, compensating a decrease that was later
// rolled back.
func (i *StoreItem) Restock(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be greater than zero: %w", ErrInvalidValue)
	}
	i.Stock += quantity
	i.touch()
	return nil
}

func checkListing(price Money, stock int) error {
	if price.IsZero() {
		return fmt.Errorf("price is required: %w", ErrInvalidValue)
	}
	if stock < 0 {
		return fmt.Errorf("stock must be non-negative: %w", ErrInvalidValue)
	}
	return nil
}
