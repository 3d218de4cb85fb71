package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is an order's position in its lifecycle.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// nextStatus is the forward edge of the happy path. CANCELLED is reachable
// from any non-terminal status; DELIVERED and CANCELLED are terminal.
var nextStatus = map[Status]Status{
	StatusPending: StatusPaid,
	StatusPaid:    StatusShipped,
	StatusShipped: StatusDelivered,
}

// Terminal reports whether no further transitions are allowed from s.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether s -> target is a legal transition.
func (s Status) CanTransitionTo(target Status) bool {
	if s.Terminal() {
		return false
	}
	if target == StatusCancelled {
		return true
	}
	return nextStatus[s] == target
}

// OrderItem is one line of an order. Its price is a snapshot taken at order
// time, deliberately decoupled from the product's live listing price so
// historical orders survive later price changes.
type OrderItem struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     Money  `json:"price"`
}

// NewOrderItem creates an order line for the given product.
func NewOrderItem(product *Product, quantity int, price Money) (*OrderItem, error) {
	if product == nil {
		return nil, fmt.Errorf("product is required: %w", ErrInvalidValue)
	}
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrInvalidValue)
	}
	if price.IsZero() {
		return nil, fmt.Errorf("price is required: %w", ErrInvalidValue)
	}
	return &OrderItem{
		ID:        uuid.NewString(),
		ProductID: product.ID,
		Quantity:  quantity,
		Price:     price,
	}, nil
}

// UpdateQuantity replaces the line quantity.
func (i *OrderItem) UpdateQuantity(quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1: %w", ErrInvalidValue)
	}
	i.Quantity = quantity
	return nil
}

// Total returns price multiplied by quantity.
func (i *OrderItem) Total() (Money, error) {
	return i.Price.MulInt(i.Quantity)
}

// Order is a customer's purchase at one store. It starts PENDING and active
// with at least one item.
type Order struct {
	ID        string      `json:"id"`
	StoreID   string      `json:"store_id"`
	UserID    string      `json:"user_id"`
	Items     []OrderItem `json:"items"`
	Status    Status      `json:"status"`
	Active    bool        `json:"active"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewOrder creates a pending order. The item slice is copied so the caller's
// slice can be mutated afterwards without affecting the order.
func NewOrder(store *Store, user *User, items []*OrderItem) (*Order, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required: %w", ErrInvalidValue)
	}
	if user == nil {
		return nil, fmt.Errorf("user is required: %w", ErrInvalidValue)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("order must have at least one item: %w", ErrInvalidValue)
	}
	copied := make([]OrderItem, 0, len(items))
	for _, item := range items {
		if item == nil {
			return nil, fmt.Errorf("order item is required: %w", ErrInvalidValue)
		}
		copied = append(copied, *item)
	}
	now := time.Now().UTC()
	return &Order{
		ID:        uuid.NewString(),
		StoreID:   store.ID,
		UserID:    user.ID,
		Items:     copied,
		Status:    StatusPending,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// AddItem appends a line to the order.
func (o *Order) AddItem(item *OrderItem) error {
	if item == nil {
		return fmt.Errorf("order item is required: %w", ErrInvalidValue)
	}
	o.Items = append(o.Items, *item)
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// Total sums every line total. All lines must share one currency.
func (o *Order) Total() (Money, error) {
	var total Money
	for idx := range o.Items {
		line, err := o.Items[idx].Total()
		if err != nil {
			return Money{}, err
		}
		if idx == 0 {
			total = line
			continue
		}
		total, err = total.Add(line)
		if err != nil {
			return Money{}, err
		}
	}
	return total, nil
}

// SetStatus applies a status transition, enforcing
// PENDING -> PAID -> SHIPPED -> DELIVERED with CANCELLED reachable from any
// non-terminal status.
func (o *Order) SetStatus(status Status) error {
	if !o.Status.CanTransitionTo(status) {
		return fmt.Errorf("%s -> %s: %w", o.Status, status, ErrInvalidTransition)
	}
	o.Status = status
	if status == StatusCancelled {
		o.Active = false
	}
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// Cancel forces the order to CANCELLED and inactive. Terminal orders cannot
// be cancelled.
func (o *Order) Cancel() error {
	if o.Status.Terminal() {
		return fmt.Errorf("order is %s: %w", o.Status, ErrInvalidTransition)
	}
	o.Status = StatusCancelled
	o.Active = false
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete marks a shipped order as delivered.
func (o *Order) Complete() error {
	if o.Status != StatusShipped {
		return fmt.Errorf("order is %s, not %s: %w", o.Status, StatusShipped, ErrInvalidTransition)
	}
	o.Status = StatusDelivered
	o.UpdatedAt = time.Now().UTC()
	return nil
}
