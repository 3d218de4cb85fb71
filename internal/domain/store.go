package domain

import "github.com/google/uuid"

// Store is a seller tenant. Brands, categories, products, listings, orders
// and customer links are all scoped to one store; the store itself owns only
// its name and lifecycle. Child collections are reconstructed by repository
// queries, never held in memory.
type Store struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Lifecycle
}

// NewStore creates an active store with a generated identity.
func NewStore(name string) (*Store, error) {
	trimmed, err := validName("store", name, 2, 100)
	if err != nil {
		return nil, err
	}
	return &Store{
		ID:        uuid.NewString(),
		Name:      trimmed,
		Lifecycle: newLifecycle(),
	}, nil
}

// Rename validates and replaces the store name.
func (s *Store) Rename(name string) error {
	trimmed, err := validName("store", name, 2, 100)
	if err != nil {
		return err
	}
	s.Name = trimmed
	s.touch()
	return nil
}
