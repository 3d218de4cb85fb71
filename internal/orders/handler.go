package orders

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/storecraft/commerce/internal/domain"
	"github.com/storecraft/commerce/internal/messaging"
)

// Handler exposes order placement and the status lifecycle over HTTP.
type Handler struct {
	repo      *Repository
	directory Directory
	producer  *messaging.Producer
	logger    *slog.Logger
}

func NewHandler(repo *Repository, directory Directory, producer *messaging.Producer, logger *slog.Logger) *Handler {
	return &Handler{
		repo:      repo,
		directory: directory,
		producer:  producer,
		logger:    logger,
	}
}

// Routes registers every order endpoint on the given mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /orders", h.HandleCreate)
	mux.HandleFunc("GET /orders", h.HandleList)
	mux.HandleFunc("GET /orders/{id}", h.HandleGet)
	mux.HandleFunc("GET /orders/{id}/total", h.HandleTotal)
	mux.HandleFunc("POST /orders/{id}/items", h.HandleAddItem)
	mux.HandleFunc("PATCH /orders/{id}/status", h.HandleUpdateStatus)
	mux.HandleFunc("POST /orders/{id}/cancel", h.HandleCancel)
	mux.HandleFunc("POST /orders/{id}/complete", h.HandleComplete)
}

type orderItemRequest struct {
	ProductID string       `json:"product_id"`
	Quantity  int          `json:"quantity"`
	Price     domain.Money `json:"price"`
}

type createOrderRequest struct {
	StoreID string             `json:"store_id"`
	UserID  string             `json:"user_id"`
	Items   []orderItemRequest `json:"items"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	store, err := h.directory.FindStore(r.Context(), req.StoreID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	user, err := h.directory.FindUser(r.Context(), req.UserID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	items := make([]*domain.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		item, err := h.buildItem(r, line)
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		items = append(items, item)
	}

	order, err := domain.NewOrder(store, user, items)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.repo.Create(r.Context(), order); err != nil {
		h.serverError(w, "failed to create order", err)
		return
	}

	if h.producer != nil {
		event := domain.OrderPlacedEvent{
			OrderID:   order.ID,
			StoreID:   order.StoreID,
			UserID:    order.UserID,
			Timestamp: order.CreatedAt,
		}
		for _, item := range order.Items {
			event.Items = append(event.Items, domain.OrderPlacedItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}
		if err := h.producer.Publish(r.Context(), order.ID, event); err != nil {
			h.logger.Error("failed to publish order placed event", "error", err, "order_id", order.ID)
		}
	}

	h.logger.Info("order placed", "order_id", order.ID, "store_id", order.StoreID, "user_id", order.UserID)
	h.writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) buildItem(r *http.Request, line orderItemRequest) (*domain.OrderItem, error) {
	product, err := h.directory.FindProduct(r.Context(), line.ProductID)
	if err != nil {
		return nil, err
	}
	return domain.NewOrderItem(product, line.Quantity, line.Price)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	order, err := h.repo.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	orders, err := h.repo.List(r.Context())
	if err != nil {
		h.serverError(w, "failed to list orders", err)
		return
	}
	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) HandleTotal(w http.ResponseWriter, r *http.Request) {
	order, err := h.repo.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	total, err := order.Total()
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"order_id": order.ID, "total": total})
}

func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	var line orderItemRequest
	if err := json.NewDecoder(r.Body).Decode(&line); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.repo.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	item, err := h.buildItem(r, line)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := order.AddItem(item); err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.repo.AppendItem(r.Context(), order, *item); err != nil {
		h.serverError(w, "failed to save item", err)
		return
	}

	h.logger.Info("order item added", "order_id", order.ID, "product_id", item.ProductID)
	h.writeJSON(w, http.StatusOK, order)
}

type updateStatusRequest struct {
	Status domain.Status `json:"status"`
}

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.mutateOrder(w, r, func(order *domain.Order) error {
		return order.SetStatus(req.Status)
	})
}

func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	h.mutateOrder(w, r, func(order *domain.Order) error {
		return order.Cancel()
	})
}

func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	h.mutateOrder(w, r, func(order *domain.Order) error {
		return order.Complete()
	})
}

func (h *Handler) mutateOrder(w http.ResponseWriter, r *http.Request, mutate func(*domain.Order) error) {
	order, err := h.repo.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := mutate(order); err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.repo.SaveOrder(r.Context(), order); err != nil {
		h.serverError(w, "failed to save order", err)
		return
	}

	h.logger.Info("order updated", "order_id", order.ID, "status", order.Status)
	h.writeJSON(w, http.StatusOK, order)
}

// ---- helpers ----

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidTransition):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrInvariantViolation):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrCurrencyMismatch):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidValue):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.serverError(w, "unexpected error", err)
	}
}

func (h *Handler) serverError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, "error", err)
	h.writeError(w, http.StatusInternalServerError, "internal server error")
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
