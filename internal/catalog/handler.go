package catalog

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/storecraft/commerce/internal/domain"
)

// Handler exposes the catalog aggregates over HTTP. It is a thin
// pass-through: decode, drive the domain factory or mutator, persist, encode.
type Handler struct {
	repo   *Repository
	logger *slog.Logger
}

func NewHandler(repo *Repository, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// Routes registers every catalog endpoint on the given mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /stores", h.HandleCreateStore)
	mux.HandleFunc("GET /stores", h.HandleListStores)
	mux.HandleFunc("GET /stores/{id}", h.HandleGetStore)
	mux.HandleFunc("PATCH /stores/{id}", h.HandleRenameStore)
	mux.HandleFunc("POST /stores/{id}/activate", h.HandleActivateStore)
	mux.HandleFunc("POST /stores/{id}/deactivate", h.HandleDeactivateStore)
	mux.HandleFunc("DELETE /stores/{id}", h.HandleDeleteStore)

	mux.HandleFunc("POST /stores/{storeId}/brands", h.HandleCreateBrand)
	mux.HandleFunc("GET /stores/{storeId}/brands", h.HandleListBrands)
	mux.HandleFunc("PATCH /brands/{id}", h.HandleRenameBrand)
	mux.HandleFunc("DELETE /brands/{id}", h.HandleDeleteBrand)

	mux.HandleFunc("POST /stores/{storeId}/categories", h.HandleCreateCategory)
	mux.HandleFunc("GET /stores/{storeId}/categories", h.HandleListCategories)
	mux.HandleFunc("PATCH /categories/{id}", h.HandleRenameCategory)
	mux.HandleFunc("POST /categories/{id}/activate", h.HandleActivateCategory)
	mux.HandleFunc("DELETE /categories/{id}", h.HandleDeleteCategory)

	mux.HandleFunc("POST /stores/{storeId}/products", h.HandleCreateProduct)
	mux.HandleFunc("GET /stores/{storeId}/products", h.HandleListProducts)
	mux.HandleFunc("GET /products/{id}", h.HandleGetProduct)
	mux.HandleFunc("PUT /products/{id}", h.HandleUpdateProduct)
	mux.HandleFunc("DELETE /products/{id}", h.HandleDeleteProduct)

	mux.HandleFunc("POST /stores/{storeId}/listings", h.HandleCreateListing)
	mux.HandleFunc("GET /stores/{storeId}/listings", h.HandleListListings)
	mux.HandleFunc("GET /stores/{storeId}/listings/{productId}", h.HandleGetListing)
	mux.HandleFunc("PUT /stores/{storeId}/listings/{productId}", h.HandleUpdateListing)
	mux.HandleFunc("POST /stores/{storeId}/listings/{productId}/decrease", h.HandleDecreaseStock)
	mux.HandleFunc("POST /stores/{storeId}/listings/{productId}/restock", h.HandleRestock)
}

// ---- stores ----

type storeRequest struct {
	Name string `json:"name"`
}

func (h *Handler) HandleCreateStore(w http.ResponseWriter, r *http.Request) {
	var req storeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	store, err := domain.NewStore(req.Name)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.repo.SaveStore(r.Context(), store); err != nil {
		h.serverError(w, "failed to save store", err)
		return
	}

	h.logger.Info("store created", "store_id", store.ID)
	h.writeJSON(w, http.StatusCreated, store)
}

func (h *Handler) HandleListStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.repo.ListStores(r.Context())
	if err != nil {
		h.serverError(w, "failed to list stores", err)
		return
	}
	h.writeJSON(w, http.StatusOK, stores)
}

func (h *Handler) HandleGetStore(w http.ResponseWriter, r *http.Request) {
	store, err := h.repo.FindStore(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, store)
}

func (h *Handler) HandleRenameStore(w http.ResponseWriter, r *http.Request) {
	var req storeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.mutateStore(w, r, func(store *domain.Store) error {
		return store.Rename(req.Name)
	})
}

func (h *Handler) HandleActivateStore(w http.ResponseWriter, r *http.Request) {
	h.mutateStore(w, r, func(store *domain.Store) error {
		store.Activate()
		return nil
	})
}

func (h *Handler) HandleDeactivateStore(w http.ResponseWriter, r *http.Request) {
	h.mutateStore(w, r, func(store *domain.Store) error {
		store.Deactivate()
		return nil
	})
}

func (h *Handler) HandleDeleteStore(w http.ResponseWriter, r *http.Request) {
	h.mutateStore(w, r, func(store *domain.Store) error {
		store.SoftDelete()
		return nil
	})
}

func (h *Handler) mutateStore(w http.ResponseWriter, r *http.Request, mutate func(*domain.Store) error) {
	store, err := h.repo.FindStore(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := mutate(store); err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.repo.SaveStore(r.Context(), store); err != nil {
		h.serverError(w, "failed to save store", err)
		return
	}

	h.logger.Info("store updated", "store_id", store.ID, "active", store.Active)
	h.writeJSON(w, http.StatusOK, store)
}

// ---- brands ----

type brandRequest struct {
	Name string `json:"name"`
}

func (h *Handler) HandleCreateBrand(w http.ResponseWriter, r *http.Request) {
	var req brandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	store, err := h.repo.FindStore(r.Context(), r.PathValue("storeId"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	brand, err := domain.NewBrand(store, req.Name)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.repo.SaveBrand(r.Context(), brand); err != nil {
		h.serverError(w, "failed to save brand", err)
		return
	}

	h.logger.Info("brand created", "brand_id", brand.ID, "store_id", brand.StoreID)
	h.writeJSON(w, http.StatusCreated, brand)
}

func (h *Handler) HandleListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.repo.ListBrands(r.Context(), r.PathValue("storeId"))
	if err != nil {
		h.serverError(w, "failed to list brands", err)
		return
	}
	h.writeJSON(w, http.StatusOK, brands)
}

func (h *Handler) HandleRenameBrand(w http.ResponseWriter, r *http.Request) {
	var req brandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	brand, err := h.repo.FindBrand(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := brand.Rename(req.Name); err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.repo.SaveBrand(r.Context(), brand); err != nil {
		h.serverError(w, "failed to save brand", err)
		return
	}
	h.writeJSON(w, http.StatusOK, brand)
}

func (h *Handler) HandleDeleteBrand(w http.ResponseWriter, r *http.Request) {
	brand, err := h.repo.FindBrand(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	brand.SoftDelete()

	if err := h.repo.SaveBrand(r.Context(), brand); err != nil {
		h.serverError(w, "failed to save brand", err)
		return
	}
	h.writeJSON(w, http.StatusOK, brand)
}

// ---- categories ----

type categoryRequest struct {
	Name string `json:"name"`
}

func (h *Handler) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	store, err := h.repo.FindStore(r.Context(), r.PathValue("storeId"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	category, err := domain.NewCategory(store, req.Name)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.repo.SaveCategory(r.Context(), category); err != nil {
		h.serverError(w, "failed to save category", err)
		return
	}

	h.logger.Info("category created", "category_id", category.ID, "store_id", category.StoreID)
	h.writeJSON(w, http.StatusCreated, category)
}

func (h *Handler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.ListCategories(r.Context(), r.PathValue("storeId"))
	if err != nil {
		h.serverError(w, "failed to list categories", err)
		return
	}
	h.writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) HandleRenameCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.mutateCategory(w, r, func(category *domain.Category) error {
		return category.Rename(req.Name)
	})
}

func (h *Handler) HandleActivateCategory(w http.ResponseWriter, r *http.Request) {
	h.mutateCategory(w, r, func(category *domain.Category) error {
		category.Activate()
		return nil
	})
}

func (h *Handler) HandleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	h.mutateCategory(w, r, func(category *domain.Category) error {
		category.SoftDelete()
		return nil
	})
}

func (h *Handler) mutateCategory(w http.ResponseWriter, r *http.Request, mutate func(*domain.Category) error) {
	category, err := h.repo.FindCategory(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := mutate(category); err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.repo.SaveCategory(r.Context(), category); err != nil {
		h.serverError(w, "failed to save category", err)
		return
	}
	h.writeJSON(w, http.StatusOK, category)
}

// ---- products ----

type productRequest struct {
	BrandID     string `json:"brand_id"`
	CategoryID  string `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	store, err := h.repo.FindStore(r.Context(), r.PathValue("storeId"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	brand, category, err := h.loadRefs(r, req.BrandID, req.CategoryID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	product, err := domain.NewProduct(store, brand, category, req.Name, req.Description)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.repo.SaveProduct(r.Context(), product); err != nil {
		h.serverError(w, "failed to save product", err)
		return
	}

	h.logger.Info("product created", "product_id", product.ID, "store_id", product.StoreID)
	h.writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.ListProducts(r.Context(), r.PathValue("storeId"))
	if err != nil {
		h.serverError(w, "failed to list products", err)
		return
	}
	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.repo.FindProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, product)
}

func (h *Handler) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.repo.FindProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	brand, category, err := h.loadRefs(r, req.BrandID, req.CategoryID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := product.Update(brand, category, req.Name, req.Description); err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.repo.SaveProduct(r.Context(), product); err != nil {
		h.serverError(w, "failed to save product", err)
		return
	}
	h.writeJSON(w, http.StatusOK, product)
}

func (h *Handler) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.repo.FindProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	product.SoftDelete()

	if err := h.repo.SaveProduct(r.Context(), product); err != nil {
		h.serverError(w, "failed to save product", err)
		return
	}
	h.writeJSON(w, http.StatusOK, product)
}

func (h *Handler) loadRefs(r *http.Request, brandID, categoryID string) (*domain.Brand, *domain.Category, error) {
	brand, err := h.repo.FindBrand(r.Context(), brandID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, err
	}
	category, err := h.repo.FindCategory(r.Context(), categoryID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, err
	}
	// Missing references surface as nil and fail domain validation.
	return brand, category, nil
}

// ---- listings ----

type listingRequest struct {
	ProductID string       `json:"product_id"`
	Price     domain.Money `json:"price"`
	Stock     int          `json:"stock"`
}

func (h *Handler) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	store, err := h.repo.FindStore(r.Context(), r.PathValue("storeId"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	product, err := h.repo.FindProduct(r.Context(), req.ProductID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	item, err := domain.NewStoreItem(store, product, req.Price, req.Stock)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.repo.SaveListing(r.Context(), item); err != nil {
		h.serverError(w, "failed to save listing", err)
		return
	}

	h.logger.Info("listing created", "listing_id", item.ID, "store_id", item.StoreID, "product_id", item.ProductID)
	h.writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) HandleListListings(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.ListListings(r.Context(), r.PathValue("storeId"))
	if err != nil {
		h.serverError(w, "failed to list listings", err)
		return
	}
	h.writeJSON(w, http.StatusOK, items)
}

func (h *Handler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	item, err := h.repo.FindListing(r.Context(), r.PathValue("storeId"), r.PathValue("productId"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, item)
}

type updateListingRequest struct {
	Price domain.Money `json:"price"`
	Stock int          `json:"stock"`
}

func (h *Handler) HandleUpdateListing(w http.ResponseWriter, r *http.Request) {
	var req updateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.repo.FindListing(r.Context(), r.PathValue("storeId"), r.PathValue("productId"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := item.Update(req.Price, req.Stock); err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.repo.SaveListing(r.Context(), item); err != nil {
		h.serverError(w, "failed to save listing", err)
		return
	}
	h.writeJSON(w, http.StatusOK, item)
}

type stockRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) HandleDecreaseStock(w http.ResponseWriter, r *http.Request) {
	var req stockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.repo.DecreaseStock(r.Context(), r.PathValue("storeId"), r.PathValue("productId"), req.Quantity)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.logger.Info("stock decreased", "listing_id", item.ID, "quantity", req.Quantity, "stock", item.Stock)
	h.writeJSON(w, http.StatusOK, item)
}

func (h *Handler) HandleRestock(w http.ResponseWriter, r *http.Request) {
	var req stockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.repo.RestockListing(r.Context(), r.PathValue("storeId"), r.PathValue("productId"), req.Quantity)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.logger.Info("stock restored", "listing_id", item.ID, "quantity", req.Quantity, "stock", item.Stock)
	h.writeJSON(w, http.StatusOK, item)
}

// ---- helpers ----

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrInsufficientStock):
		h.writeError(w, http.StatusConflict, "insufficient stock")
	case errors.Is(err, domain.ErrInvariantViolation):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrInvalidValue), errors.Is(err, domain.ErrCurrencyMismatch):
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
