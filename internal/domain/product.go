package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Product is a store-scoped catalog entry. Brand and category are mandatory
// and must belong to the same store as the product. Pricing and stock are not
// product concerns; they live on StoreItem listings.
type Product struct {
	ID          string `json:"id"`
	StoreID     string `json:"store_id"`
	BrandID     string `json:"brand_id"`
	CategoryID  string `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Lifecycle
}

// NewProduct creates an active product. The brand and category aggregates are
// passed in only to validate against them; the product keeps references, not
// copies.
func NewProduct(store *Store, brand *Brand, category *Category, name, description string) (*Product, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required: %w", ErrInvalidValue)
	}
	trimmed, err := validName("product", name, 3, 100)
	if err != nil {
		return nil, err
	}
	if err := checkProductRefs(store.ID, brand, category); err != nil {
		return nil, err
	}
	return &Product{
		ID:          uuid.NewString(),
		StoreID:     store.ID,
		BrandID:     brand.ID,
		CategoryID:  category.ID,
		Name:        trimmed,
		Description: description,
		Lifecycle:   newLifecycle(),
	}, nil
}

// Update re-validates and replaces the product's details, including its brand
// and category references.
func (p *Product) Update(brand *Brand, category *Category, name, description string) error {
	trimmed, err := validName("product", name, 3, 100)
	if err != nil {
		return err
	}
	if err := checkProductRefs(p.StoreID, brand, category); err != nil {
		return err
	}
	p.BrandID = brand.ID
	p.CategoryID = category.ID
	p.Name = trimmed
	p.Description = description
	p.touch()
	return nil
}

func checkProductRefs(storeID string, brand *Brand, category *Category) error {
	if brand == nil {
		return fmt.Errorf("brand is required: %w", ErrInvalidValue)
	}
	if category == nil {
		return fmt.Errorf("category is required: %w", ErrInvalidValue)
	}
	if brand.StoreID != storeID {
		return fmt.Errorf("brand belongs to another store: %w", ErrInvariantViolation)
	}
	if category.StoreID != storeID {
		return fmt.Errorf("category belongs to another store: %w", ErrInvariantViolation)
	}
	return nil
}
