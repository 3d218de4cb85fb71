package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Customer is the profile of a user with role CUSTOMER. It may be scoped to a
// single store; cross-store presence is modeled by CustomerStore links.
type Customer struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	StoreID   string    `json:"store_id,omitempty"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Document  string    `json:"document,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCustomer creates a customer profile for the given user. The store is
// optional; pass nil for a platform-wide customer.
func NewCustomer(user *User, firstName, lastName, phone string, store *Store) (*Customer, error) {
	if err := checkProfile(user, firstName, lastName, phone); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c := &Customer{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if store != nil {
		c.StoreID = store.ID
	}
	return c, nil
}

// UpdateProfile re-validates and replaces the profile fields. The user link
// and store scope are immutable.
func (c *Customer) UpdateProfile(user *User, firstName, lastName, phone string) error {
	if err := checkProfile(user, firstName, lastName, phone); err != nil {
		return err
	}
	c.FirstName = firstName
	c.LastName = lastName
	c.Phone = phone
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// SetDocument sets the optional billing document (CPF/CNPJ or similar).
func (c *Customer) SetDocument(document string) {
	c.Document = document
	c.UpdatedAt = time.Now().UTC()
}

func checkProfile(user *User, firstName, lastName, phone string) error {
	if user == nil {
		return fmt.Errorf("user is required: %w", ErrInvalidValue)
	}
	if user.Role != RoleCustomer {
		return fmt.Errorf("user must have CUSTOMER role, has %s: %w", user.Role, ErrInvariantViolation)
	}
	if utf8.RuneCountInString(strings.TrimSpace(firstName)) < 2 {
		return fmt.Errorf("first name must have at least 2 characters: %w", ErrInvalidValue)
	}
	if utf8.RuneCountInString(strings.TrimSpace(lastName)) < 2 {
		return fmt.Errorf("last name must have at least 2 characters: %w", ErrInvalidValue)
	}
	if strings.TrimSpace(phone) == "" {
		return fmt.Errorf("phone is required: %w", ErrInvalidValue)
	}
	return nil
}

// CustomerStore links a customer to a store. Both sides are immutable after
// creation; changing either means creating a new link and deleting the old
// one.
type CustomerStore struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	StoreID    string    `json:"store_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewCustomerStore creates a customer-store association.
func NewCustomerStore(customer *Customer, store *Store) (*CustomerStore, error) {
	if customer == nil {
		return nil, fmt.Errorf("customer is required: %w", ErrInvalidValue)
	}
	if store == nil {
		return nil, fmt.Errorf("store is required: %w", ErrInvalidValue)
	}
	now := time.Now().UTC()
	return &CustomerStore{
		ID:         uuid.NewString(),
		CustomerID: customer.ID,
		StoreID:    store.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Touch refreshes the updated timestamp without changing the association.
func (cs *CustomerStore) Touch() {
	cs.UpdatedAt = time.Now().UTC()
}
