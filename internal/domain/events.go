package domain

import "time"

// OrderPlacedEvent is published when an order is created. The fulfillment
// worker consumes it to decrease listing stock and notify the customer.
type OrderPlacedEvent struct {
	OrderID   string            `json:"order_id"`
	StoreID   string            `json:"store_id"`
	UserID    string            `json:"user_id"`
	Items     []OrderPlacedItem `json:"items"`
	Timestamp time.Time         `json:"timestamp"`
}

// OrderPlacedItem is the per-line payload of OrderPlacedEvent.
type OrderPlacedItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
