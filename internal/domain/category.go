package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Category groups products for browsing within one store.
type Category struct {
	ID      string `json:"id"`
	StoreID string `json:"store_id"`
	Name    string `json:"name"`
	Lifecycle
}

// NewCategory creates an active category belonging to the given store.
func NewCategory(store *Store, name string) (*Category, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required: %w", ErrInvalidValue)
	}
	trimmed, err := validName("category", name, 2, 100)
	if err != nil {
		return nil, err
	}
	return &Category{
		ID:        uuid.NewString(),
		StoreID:   store.ID,
		Name:      trimmed,
		Lifecycle: newLifecycle(),
	}, nil
}

// Rename validates and replaces the category name.
func (c *Category) Rename(name string) error {
	trimmed, err := validName("category", name, 2, 100)
	if err != nil {
		return err
	}
	c.Name = trimmed
	c.touch()
	return nil
}
