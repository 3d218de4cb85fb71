package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/storecraft/commerce/internal/domain"
)

// FulfillmentHandler reacts to order placement events. It draws down listing
// stock in the catalog service, marks the order PAID on success and cancels
// it (restoring any stock already taken) when a line cannot be fulfilled. The
// customer is notified either way.
type FulfillmentHandler struct {
	catalogServiceURL      string
	ordersServiceURL       string
	notificationServiceURL string
	httpClient             *http.Client
	logger                 *slog.Logger
}

func NewFulfillmentHandler(catalogServiceURL, ordersServiceURL, notificationServiceURL string, client *http.Client, logger *slog.Logger) *FulfillmentHandler {
	return &FulfillmentHandler{
		catalogServiceURL:      catalogServiceURL,
		ordersServiceURL:       ordersServiceURL,
		notificationServiceURL: notificationServiceURL,
		httpClient:             client,
		logger:                 logger,
	}
}

type takenItem struct {
	ProductID string
	Quantity  int
}

func (h *FulfillmentHandler) Handle(ctx context.Context, payload []byte) error {
	var event domain.OrderPlacedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal order placed event: %w", err)
	}

	h.logger.Info("processing order placed event", "order_id", event.OrderID, "store_id", event.StoreID)

	taken, err := h.takeStock(ctx, event)
	if err != nil {
		h.logger.Error("failed to take stock", "error", err, "order_id", event.OrderID)

		h.restoreStock(ctx, event.StoreID, taken)

		if err := h.cancelOrder(ctx, event.OrderID); err != nil {
			h.logger.Error("failed to cancel order", "error", err, "order_id", event.OrderID)
			return fmt.Errorf("cancel order after stock failure: %w", err)
		}

		if err := h.sendCancellationEmail(ctx, event); err != nil {
			h.logger.Error("failed to send cancellation email", "error", err, "order_id", event.OrderID)
			return fmt.Errorf("send cancellation email: %w", err)
		}

		h.logger.Info("order cancelled due to insufficient stock", "order_id", event.OrderID)
		return nil
	}

	if err := h.sendConfirmationEmail(ctx, event); err != nil {
		h.logger.Error("failed to send confirmation email", "error", err, "order_id", event.OrderID)
		return fmt.Errorf("send confirmation email: %w", err)
	}

	if err := h.updateOrderStatus(ctx, event.OrderID, domain.StatusPaid); err != nil {
		h.logger.Error("failed to update order status", "error", err, "order_id", event.OrderID)
		return fmt.Errorf("update order status: %w", err)
	}

	h.logger.Info("order fulfillment complete", "order_id", event.OrderID)
	return nil
}

func (h *FulfillmentHandler) takeStock(ctx context.Context, event domain.OrderPlacedEvent) ([]takenItem, error) {
	var taken []takenItem

	for _, item := range event.Items {
		body := map[string]int{"quantity": item.Quantity}
		data, err := json.Marshal(body)
		if err != nil {
			return taken, fmt.Errorf("marshal decrease request: %w", err)
		}

		url := fmt.Sprintf("%s/stores/%s/listings/%s/decrease", h.catalogServiceURL, event.StoreID, item.ProductID)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return taken, fmt.Errorf("create decrease request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := h.httpClient.Do(req)
		if err != nil {
			return taken, fmt.Errorf("decrease stock for product %s: %w", item.ProductID, err)
		}
		_ = resp.Body.Close()

		if resp.StatusCode == http.StatusConflict {
			return taken, fmt.Errorf("insufficient stock for product %s", item.ProductID)
		}

		if resp.StatusCode != http.StatusOK {
			return taken, fmt.Errorf("catalog service returned status %d for product %s", resp.StatusCode, item.ProductID)
		}

		taken = append(taken, takenItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	return taken, nil
}

func (h *FulfillmentHandler) restoreStock(ctx context.Context, storeID string, taken []takenItem) {
	for _, item := range taken {
		body := map[string]int{"quantity": item.Quantity}
		data, err := json.Marshal(body)
		if err != nil {
			h.logger.Error("failed to marshal restock request", "error", err, "product_id", item.ProductID)
			continue
		}

		url := fmt.Sprintf("%s/stores/%s/listings/%s/restock", h.catalogServiceURL, storeID, item.ProductID)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			h.logger.Error("failed to create restock request", "error", err, "product_id", item.ProductID)
			continue
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := h.httpClient.Do(req)
		if err != nil {
			h.logger.Error("failed to restore stock", "error", err, "product_id", item.ProductID)
			continue
		}
		_ = resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			h.logger.Error("failed to restore stock", "status", resp.StatusCode, "product_id", item.ProductID)
		}
	}
}

func (h *FulfillmentHandler) sendConfirmationEmail(ctx context.Context, event domain.OrderPlacedEvent) error {
	body := map[string]string{
		"to":      event.UserID + "@example.com",
		"subject": "Order Confirmation: " + event.OrderID,
		"body":    fmt.Sprintf("Your order %s has been confirmed with %d items.", event.OrderID, len(event.Items)),
	}

	return h.sendEmail(ctx, body)
}

func (h *FulfillmentHandler) sendCancellationEmail(ctx context.Context, event domain.OrderPlacedEvent) error {
	body := map[string]string{
		"to":      event.UserID + "@example.com",
		"subject": "Order Cancelled: " + event.OrderID,
		"body":    fmt.Sprintf("Your order %s has been cancelled due to insufficient stock. You will be reimbursed.", event.OrderID),
	}

	return h.sendEmail(ctx, body)
}

func (h *FulfillmentHandler) sendEmail(ctx context.Context, body map[string]string) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.notificationServiceURL+"/send", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notification service returned status %d", resp.StatusCode)
	}

	return nil
}

func (h *FulfillmentHandler) cancelOrder(ctx context.Context, orderID string) error {
	url := fmt.Sprintf("%s/orders/%s/cancel", h.ordersServiceURL, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("orders service returned status %d", resp.StatusCode)
	}

	return nil
}

func (h *FulfillmentHandler) updateOrderStatus(ctx context.Context, orderID string, status domain.Status) error {
	body := map[string]string{
		"status": string(status),
	}

	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/orders/%s/status", h.ordersServiceURL, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("orders service returned status %d", resp.StatusCode)
	}

	return nil
}
