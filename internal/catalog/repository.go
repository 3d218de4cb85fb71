package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/storecraft/commerce/internal/domain"
)

// Repository persists the catalog aggregates (stores, brands, categories,
// products, listings) in the catalog schema. Save is an upsert keyed by the
// domain-assigned identity.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ---- stores ----

func (r *Repository) SaveStore(ctx context.Context, store *domain.Store) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO stores (id, name, active, deleted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET name = $2, active = $3, deleted_at = $4, updated_at = $6
	`, store.ID, store.Name, store.Active, store.DeletedAt, store.CreatedAt, store.UpdatedAt)
	return err
}

func (r *Repository) FindStore(ctx context.Context, id string) (*domain.Store, error) {
	store := &domain.Store{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, active, deleted_at, created_at, updated_at
		FROM stores
		WHERE id = $1
	`, id).Scan(&store.ID, &store.Name, &store.Active, &store.DeletedAt, &store.CreatedAt, &store.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return store, nil
}

func (r *Repository) ListStores(ctx context.Context) ([]domain.Store, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, active, deleted_at, created_at, updated_at
		FROM stores
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	stores := []domain.Store{}
	for rows.Next() {
		var store domain.Store
		if err := rows.Scan(&store.ID, &store.Name, &store.Active, &store.DeletedAt, &store.CreatedAt, &store.UpdatedAt); err != nil {
			return nil, err
		}
		stores = append(stores, store)
	}
	return stores, rows.Err()
}

// ---- brands ----

func (r *Repository) SaveBrand(ctx context.Context, brand *domain.Brand) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO brands (id, store_id, name, active, deleted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET name = $3, active = $4, deleted_at = $5, updated_at = $7
	`, brand.ID, brand.StoreID, brand.Name, brand.Active, brand.DeletedAt, brand.CreatedAt, brand.UpdatedAt)
	return err
}

func (r *Repository) FindBrand(ctx context.Context, id string) (*domain.Brand, error) {
	brand := &domain.Brand{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, store_id, name, active, deleted_at, created_at, updated_at
		FROM brands
		WHERE id = $1
	`, id).Scan(&brand.ID, &brand.StoreID, &brand.Name, &brand.Active, &brand.DeletedAt, &brand.CreatedAt, &brand.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return brand, nil
}

func (r *Repository) ListBrands(ctx context.Context, storeID string) ([]domain.Brand, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, store_id, name, active, deleted_at, created_at, updated_at
		FROM brands
		WHERE store_id = $1
		ORDER BY name
	`, storeID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	brands := []domain.Brand{}
	for rows.Next() {
		var brand domain.Brand
		if err := rows.Scan(&brand.ID, &brand.StoreID, &brand.Name, &brand.Active, &brand.DeletedAt, &brand.CreatedAt, &brand.UpdatedAt); err != nil {
			return nil, err
		}
		brands = append(brands, brand)
	}
	return brands, rows.Err()
}

// ---- categories ----

func (r *Repository) SaveCategory(ctx context.Context, category *domain.Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, store_id, name, active, deleted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET name = $3, active = $4, deleted_at = $5, updated_at = $7
	`, category.ID, category.StoreID, category.Name, category.Active, category.DeletedAt, category.CreatedAt, category.UpdatedAt)
	return err
}

func (r *Repository) FindCategory(ctx context.Context, id string) (*domain.Category, error) {
	category := &domain.Category{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, store_id, name, active, deleted_at, created_at, updated_at
		FROM categories
		WHERE id = $1
	`, id).Scan(&category.ID, &category.StoreID, &category.Name, &category.Active, &category.DeletedAt, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return category, nil
}

func (r *Repository) ListCategories(ctx context.Context, storeID string) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, store_id, name, active, deleted_at, created_at, updated_at
		FROM categories
		WHERE store_id = $1
		ORDER BY name
	`, storeID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	categories := []domain.Category{}
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.StoreID, &category.Name, &category.Active, &category.DeletedAt, &category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *Repository) DeleteCategory(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
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

// ---- products ----

func (r *Repository) SaveProduct(ctx context.Context, product *domain.Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, store_id, brand_id, category_id, name, description, active, deleted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE
		SET brand_id = $3, category_id = $4, name = $5, description = $6, active = $7, deleted_at = $8, updated_at = $10
	`, product.ID, product.StoreID, product.BrandID, product.CategoryID, product.Name, product.Description,
		product.Active, product.DeletedAt, product.CreatedAt, product.UpdatedAt)
	return err
}

func (r *Repository) FindProduct(ctx context.Context, id string) (*domain.Product, error) {
	product := &domain.Product{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, store_id, brand_id, category_id, name, description, active, deleted_at, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id).Scan(&product.ID, &product.StoreID, &product.BrandID, &product.CategoryID, &product.Name,
		&product.Description, &product.Active, &product.DeletedAt, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

func (r *Repository) ListProducts(ctx context.Context, storeID string) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, store_id, brand_id, category_id, name, description, active, deleted_at, created_at, updated_at
		FROM products
		WHERE store_id = $1
		ORDER BY name
	`, storeID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	products := []domain.Product{}
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(&product.ID, &product.StoreID, &product.BrandID, &product.CategoryID, &product.Name,
			&product.Description, &product.Active, &product.DeletedAt, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// ---- listings ----

func (r *Repository) SaveListing(ctx context.Context, item *domain.StoreItem) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO store_items (id, store_id, product_id, price_amount, price_currency, stock, active, deleted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE
		SET price_amount = $4, price_currency = $5, stock = $6, active = $7, deleted_at = $8, updated_at = $10
	`, item.ID, item.StoreID, item.ProductID, item.Price.Amount().String(), item.Price.Currency(),
		item.Stock, item.Active, item.DeletedAt, item.CreatedAt, item.UpdatedAt)
	return err
}

func (r *Repository) FindListing(ctx context.Context, storeID, productID string) (*domain.StoreItem, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, store_id, product_id, price_amount, price_currency, stock, active, deleted_at, created_at, updated_at
		FROM store_items
		WHERE store_id = $1 AND product_id = $2
	`, storeID, productID)
	return scanListing(row)
}

func (r *Repository) ListListings(ctx context.Context, storeID string) ([]domain.StoreItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, store_id, product_id, price_amount, price_currency, stock, active, deleted_at, created_at, updated_at
		FROM store_items
		WHERE store_id = $1
		ORDER BY created_at DESC
	`, storeID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []domain.StoreItem{}
	for rows.Next() {
		item, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// DecreaseStock loads the listing under a row lock, applies the domain
// mutation and writes the new stock back, so two concurrent decreases on the
// same listing serialize at the database.
func (r *Repository) DecreaseStock(ctx context.Context, storeID, productID string, quantity int) (*domain.StoreItem, error) {
	return r.adjustStock(ctx, storeID, productID, func(item *domain.StoreItem) error {
		return item.DecreaseStock(quantity)
	})
}

// RestockListing is the compensating inverse of DecreaseStock.
func (r *Repository) RestockListing(ctx context.Context, storeID, productID string, quantity int) (*domain.StoreItem, error) {
	return r.adjustStock(ctx, storeID, productID, func(item *domain.StoreItem) error {
		return item.Restock(quantity)
	})
}

func (r *Repository) adjustStock(ctx context.Context, storeID, productID string, mutate func(*domain.StoreItem) error) (*domain.StoreItem, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `
		SELECT id, store_id, product_id, price_amount, price_currency, stock, active, deleted_at, created_at, updated_at
		FROM store_items
		WHERE store_id = $1 AND product_id = $2
		FOR UPDATE
	`, storeID, productID)
	item, err := scanListing(row)
	if err != nil {
		return nil, err
	}

	if err := mutate(item); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE store_items SET stock = $2, updated_at = $3
		WHERE id = $1
	`, item.ID, item.Stock, item.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return item, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*domain.StoreItem, error) {
	item := &domain.StoreItem{}
	var (
		amount   string
		currency string
	)
	err := row.Scan(&item.ID, &item.StoreID, &item.ProductID, &amount, &currency,
		&item.Stock, &item.Active, &item.DeletedAt, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse listing price: %w", err)
	}
	price, err := domain.NewMoney(d, domain.Currency(currency))
	if err != nil {
		return nil, fmt.Errorf("rebuild listing price: %w", err)
	}
	item.Price = price
	return item, nil
}
