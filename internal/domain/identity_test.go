package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCustomerUser(t *testing.T) *User {
	t.Helper()
	user, err := NewUser("jane@example.com", RoleCustomer)
	require.NoError(t, err)
	return user
}

func TestNewUser(t *testing.T) {
	t.Run("creates active user", func(t *testing.T) {
		user, err := NewUser("jane@example.com", RoleCustomer)
		require.NoError(t, err)
		assert.True(t, user.Active)
		assert.NotEmpty(t, user.ID)
	})

	t.Run("requires an email", func(t *testing.T) {
		_, err := NewUser("", RoleCustomer)
		assert.ErrorIs(t, err, ErrInvalidValue)

		_, err = NewUser("   ", RoleCustomer)
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("requires a known role", func(t *testing.T) {
		_, err := NewUser("jane@example.com", "")
		assert.ErrorIs(t, err, ErrInvalidValue)

		_, err = NewUser("jane@example.com", "SUPERUSER")
		assert.ErrorIs(t, err, ErrInvalidValue)
	})
}

func TestUserFlags(t *testing.T) {
	user := testCustomerUser(t)

	user.Deactivate()
	assert.False(t, user.Active)
	user.Activate()
	assert.True(t, user.Active)

	admin, err := NewUser("root@example.com", RoleAdmin)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
	assert.False(t, user.IsAdmin())
}

func TestNewCustomer(t *testing.T) {
	t.Run("creates profile for customer user", func(t *testing.T) {
		user := testCustomerUser(t)
		customer, err := NewCustomer(user, "Jane", "Doe", "+55 11 99999-0000", nil)
		require.NoError(t, err)
		assert.Equal(t, user.ID, customer.UserID)
		assert.Empty(t, customer.StoreID)
	})

	t.Run("can be scoped to a store", func(t *testing.T) {
		store := testStore(t)
		customer, err := NewCustomer(testCustomerUser(t), "Jane", "Doe", "555-0000", store)
		require.NoError(t, err)
		assert.Equal(t, store.ID, customer.StoreID)
	})

	t.Run("rejects every non-customer role", func(t *testing.T) {
		for _, role := range []Role{RoleAdmin, RoleStaff} {
			user, err := NewUser("other@example.com", role)
			require.NoError(t, err)

			_, err = NewCustomer(user, "Jane", "Doe", "555-0000", nil)
			assert.ErrorIs(t, err, ErrInvariantViolation, "role %s", role)
		}
	})

	t.Run("requires a user", func(t *testing.T) {
		_, err := NewCustomer(nil, "Jane", "Doe", "555-0000", nil)
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("validates profile fields", func(t *testing.T) {
		user := testCustomerUser(t)

		_, err := NewCustomer(user, "J", "Doe", "555-0000", nil)
		assert.ErrorIs(t, err, ErrInvalidValue)

		_, err = NewCustomer(user, "Jane", "D", "555-0000", nil)
		assert.ErrorIs(t, err, ErrInvalidValue)

		_, err = NewCustomer(user, "Jane", "Doe", "  ", nil)
		assert.ErrorIs(t, err, ErrInvalidValue)
	})
}

func TestCustomerUpdateProfile(t *testing.T) {
	user := testCustomerUser(t)
	customer, err := NewCustomer(user, "Jane", "Doe", "555-0000", nil)
	require.NoError(t, err)

	t.Run("applies valid updates", func(t *testing.T) {
		require.NoError(t, customer.UpdateProfile(user, "Janet", "Doette", "555-1111"))
		assert.Equal(t, "Janet", customer.FirstName)
		assert.Equal(t, "555-1111", customer.Phone)
	})

	t.Run("re-validates with the same rules", func(t *testing.T) {
		err := customer.UpdateProfile(user, "J", "Doette", "555-1111")
		assert.ErrorIs(t, err, ErrInvalidValue)
		assert.Equal(t, "Janet", customer.FirstName)
	})
}

func TestCustomerSetDocument(t *testing.T) {
	customer, err := NewCustomer(testCustomerUser(t), "Jane", "Doe", "555-0000", nil)
	require.NoError(t, err)

	customer.SetDocument("123.456.789-00")
	assert.Equal(t, "123.456.789-00", customer.Document)

	// Optional field: clearing is allowed too.
	customer.SetDocument("")
	assert.Empty(t, customer.Document)
}

func TestCustomerStore(t *testing.T) {
	store := testStore(t)
	customer, err := NewCustomer(testCustomerUser(t), "Jane", "Doe", "555-0000", nil)
	require.NoError(t, err)

	t.Run("links customer and store", func(t *testing.T) {
		link, err := NewCustomerStore(customer, store)
		require.NoError(t, err)
		assert.Equal(t, customer.ID, link.CustomerID)
		assert.Equal(t, store.ID, link.StoreID)
	})

	t.Run("requires both sides", func(t *testing.T) {
		_, err := NewCustomerStore(nil, store)
		assert.ErrorIs(t, err, ErrInvalidValue)

		_, err = NewCustomerStore(customer, nil)
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("touch refreshes the updated timestamp only", func(t *testing.T) {
		link, err := NewCustomerStore(customer, store)
		require.NoError(t, err)
		before := link.UpdatedAt

		link.Touch()
		assert.False(t, link.UpdatedAt.Before(before))
		assert.Equal(t, customer.ID, link.CustomerID)
		assert.Equal(t, store.ID, link.StoreID)
	})
}
