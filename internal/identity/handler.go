package identity

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/storecraft/commerce/internal/domain"
)

// Handler exposes users, customers and customer-store links over HTTP.
type Handler struct {
	repo   *Repository
	stores StoreDirectory
	logger *slog.Logger
}

func NewHandler(repo *Repository, stores StoreDirectory, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		stores: stores,
		logger: logger,
	}
}

// Routes registers every identity endpoint on the given mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /users", h.HandleCreateUser)
	mux.HandleFunc("GET /users", h.HandleListUsers)
	mux.HandleFunc("GET /users/{id}", h.HandleGetUser)
	mux.HandleFunc("GET /users/by-email", h.HandleGetUserByEmail)
	mux.HandleFunc("POST /users/{id}/activate", h.HandleActivateUser)
	mux.HandleFunc("POST /users/{id}/deactivate", h.HandleDeactivateUser)

	mux.HandleFunc("POST /customers", h.HandleCreateCustomer)
	mux.HandleFunc("GET /customers", h.HandleListCustomers)
	mux.HandleFunc("GET /customers/{id}", h.HandleGetCustomer)
	mux.HandleFunc("PUT /customers/{id}", h.HandleUpdateCustomer)
	mux.HandleFunc("PATCH /customers/{id}/document", h.HandleSetDocument)

	mux.HandleFunc("POST /customers/{id}/stores", h.HandleLinkStore)
	mux.HandleFunc("GET /customers/{id}/stores", h.HandleListLinks)
	mux.HandleFunc("DELETE /customer-stores/{id}", h.HandleUnlinkStore)
}

// ---- users ----

type createUserRequest struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := domain.NewUser(req.Email, req.Role)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	taken, err := h.repo.ExistsByEmail(r.Context(), user.Email)
	if err != nil {
		h.serverError(w, "failed to check email", err)
		return
	}
	if taken {
		h.writeError(w, http.StatusConflict, ErrEmailTaken.Error())
		return
	}

	if err := h.repo.SaveUser(r.Context(), user); err != nil {
		h.serverError(w, "failed to save user", err)
		return
	}

	h.logger.Info("user created", "user_id", user.ID, "role", user.Role)
	h.writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.repo.ListUsers(r.Context())
	if err != nil {
		h.serverError(w, "failed to list users", err)
		return
	}
	h.writeJSON(w, http.StatusOK, users)
}

func (h *Handler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.repo.FindUser(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

func (h *Handler) HandleGetUserByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		h.writeError(w, http.StatusBadRequest, "missing email parameter")
		return
	}

	user, err := h.repo.FindUserByEmail(r.Context(), email)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

func (h *Handler) HandleActivateUser(w http.ResponseWriter, r *http.Request) {
	h.mutateUser(w, r, func(user *domain.User) { user.Activate() })
}

func (h *Handler) HandleDeactivateUser(w http.ResponseWriter, r *http.Request) {
	h.mutateUser(w, r, func(user *domain.User) { user.Deactivate() })
}

func (h *Handler) mutateUser(w http.ResponseWriter, r *http.Request, mutate func(*domain.User)) {
	user, err := h.repo.FindUser(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	mutate(user)

	if err := h.repo.SaveUser(r.Context(), user); err != nil {
		h.serverError(w, "failed to save user", err)
		return
	}

	h.logger.Info("user updated", "user_id", user.ID, "active", user.Active)
	h.writeJSON(w, http.StatusOK, user)
}

// ---- customers ----

type createCustomerRequest struct {
	UserID    string `json:"user_id"`
	StoreID   string `json:"store_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

func (h *Handler) HandleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.repo.FindUser(r.Context(), req.UserID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		h.serverError(w, "failed to load user", err)
		return
	}

	var store *domain.Store
	if req.StoreID != "" {
		store, err = h.stores.FindStore(r.Context(), req.StoreID)
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
	}

	customer, err := domain.NewCustomer(user, req.FirstName, req.LastName, req.Phone, store)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.repo.SaveCustomer(r.Context(), customer); err != nil {
		h.serverError(w, "failed to save customer", err)
		return
	}

	h.logger.Info("customer created", "customer_id", customer.ID, "user_id", customer.UserID)
	h.writeJSON(w, http.StatusCreated, customer)
}

func (h *Handler) HandleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.repo.ListCustomers(r.Context())
	if err != nil {
		h.serverError(w, "failed to list customers", err)
		return
	}
	h.writeJSON(w, http.StatusOK, customers)
}

func (h *Handler) HandleGetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.repo.FindCustomer(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, customer)
}

type updateCustomerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

func (h *Handler) HandleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req updateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	customer, err := h.repo.FindCustomer(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	user, err := h.repo.FindUser(r.Context(), customer.UserID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := customer.UpdateProfile(user, req.FirstName, req.LastName, req.Phone); err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.repo.SaveCustomer(r.Context(), customer); err != nil {
		h.serverError(w, "failed to save customer", err)
		return
	}
	h.writeJSON(w, http.StatusOK, customer)
}

type setDocumentRequest struct {
	Document string `json:"document"`
}

func (h *Handler) HandleSetDocument(w http.ResponseWriter, r *http.Request) {
	var req setDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	customer, err := h.repo.FindCustomer(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	customer.SetDocument(req.Document)

	if err := h.repo.SaveCustomer(r.Context(), customer); err != nil {
		h.serverError(w, "failed to save customer", err)
		return
	}
	h.writeJSON(w, http.StatusOK, customer)
}

// ---- customer-store links ----

type linkStoreRequest struct {
	StoreID string `json:"store_id"`
}

func (h *Handler) HandleLinkStore(w http.ResponseWriter, r *http.Request) {
	var req linkStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	customer, err := h.repo.FindCustomer(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	store, err := h.stores.FindStore(r.Context(), req.StoreID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	link, err := domain.NewCustomerStore(customer, store)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.repo.SaveLink(r.Context(), link); err != nil {
		h.serverError(w, "failed to save link", err)
		return
	}

	h.logger.Info("customer linked to store", "customer_id", customer.ID, "store_id", store.ID)
	h.writeJSON(w, http.StatusCreated, link)
}

func (h *Handler) HandleListLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.repo.ListLinks(r.Context(), r.PathValue("id"))
	if err != nil {
		h.serverError(w, "failed to list links", err)
		return
	}
	h.writeJSON(w, http.StatusOK, links)
}

func (h *Handler) HandleUnlinkStore(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteLink(r.Context(), r.PathValue("id")); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- helpers ----

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrInvariantViolation):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
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
