package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Brand groups products under a maker's name within one store.
type Brand struct {
	ID      string `json:"id"`
	StoreID string `json:"store_id"`
	Name    string `json:"name"`
	Lifecycle
}

// NewBrand creates an active brand belonging to the given store.
func NewBrand(store *Store, name string) (*Brand, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required: %w", ErrInvalidValue)
	}
	trimmed, err := validName("brand", name, 2, 100)
	if err != nil {
		return nil, err
	}
	return &Brand{
		ID:        uuid.NewString(),
		StoreID:   store.ID,
		Name:      trimmed,
		Lifecycle: newLifecycle(),
	}, nil
}

// Rename validates and replaces the brand name.
func (b *Brand) Rename(name string) error {
	trimmed, err := validName("brand", name, 2, 100)
	if err != nil {
		return err
	}
	b.Name = trimmed
	b.touch()
	return nil
}
