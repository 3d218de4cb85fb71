package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testListing(t *testing.T, stock int) *StoreItem {
	t.Helper()
	store, brand, category := testCatalog(t)
	product, err := NewProduct(store, brand, category, "Hammer XL", "")
	require.NoError(t, err)
	item, err := NewStoreItem(store, product, MustMoney("19.90", BRL), stock)
	require.NoError(t, err)
	return item
}

func TestNewStoreItem(t *testing.T) {
	store, brand, category := testCatalog(t)
	product, err := NewProduct(store, brand, category, "Hammer XL", "")
	require.NoError(t, err)

	t.Run("creates active listing", func(t *testing.T) {
		item, err := NewStoreItem(store, product, MustMoney("19.90", BRL), 10)
		require.NoError(t, err)
		assert.Equal(t, store.ID, item.StoreID)
		assert.Equal(t, product.ID, item.ProductID)
		assert.Equal(t, 10, item.Stock)
		assert.True(t, item.Active)
	})

	t.Run("requires store and product", func(t *testing.T) {
		_, err := NewStoreItem(nil, product, MustMoney("19.90", BRL), 10)
		assert.ErrorIs(t, err, ErrInvalidValue)

		_, err = NewStoreItem(store, nil, MustMoney("19.90", BRL), 10)
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("rejects product from another store", func(t *testing.T) {
		other, otherBrand, otherCategory := testCatalog(t)
		foreign, err := NewProduct(other, otherBrand, otherCategory, "Foreign Hammer", "")
		require.NoError(t, err)

		_, err = NewStoreItem(store, foreign, MustMoney("19.90", BRL), 10)
		assert.ErrorIs(t, err, ErrInvariantViolation)
	})

	t.Run("rejects negative stock and missing price", func(t *testing.T) {
		_, err := NewStoreItem(store, product, MustMoney("19.90", BRL), -1)
		assert.ErrorIs(t, err, ErrInvalidValue)

		_, err = NewStoreItem(store, product, Money{}, 10)
		assert.ErrorIs(t, err, ErrInvalidValue)
	})
}

func TestStoreItemDecreaseStock(t *testing.T) {
	t.Run("decrements and refreshes updated-at", func(t *testing.T) {
		item := testListing(t, 10)
		before := item.UpdatedAt
		require.NoError(t, item.DecreaseStock(4))
		assert.Equal(t, 6, item.Stock)
		assert.False(t, item.UpdatedAt.Before(before))
	})

	t.Run("underflow fails and leaves stock unchanged", func(t *testing.T) {
		item := testListing(t, 3)
		err := item.DecreaseStock(4)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Equal(t, 3, item.Stock)
	})

	t.Run("whole stock can be sold out", func(t *testing.T) {
		item := testListing(t, 3)
		require.NoError(t, item.DecreaseStock(3))
		assert.Equal(t, 0, item.Stock)
	})

	t.Run("zero and negative quantities are invalid", func(t *testing.T) {
		item := testListing(t, 3)
		assert.ErrorIs(t, item.DecreaseStock(0), ErrInvalidValue)
		assert.ErrorIs(t, item.DecreaseStock(-1), ErrInvalidValue)
		assert.Equal(t, 3, item.Stock)
	})
}

func TestStoreItemRestock(t *testing.T) {
	item := testListing(t, 2)
	require.NoError(t, item.Restock(5))
	assert.Equal(t, 7, item.Stock)

	assert.ErrorIs(t, item.Restock(0), ErrInvalidValue)
	assert.Equal(t, 7, item.Stock)
}

func TestStoreItemUpdate(t *testing.T) {
	item := testListing(t, 2)

	require.NoError(t, item.Update(MustMoney("25.00", BRL), 8))
	assert.True(t, item.Price.Equal(MustMoney("25.00", BRL)))
	assert.Equal(t, 8, item.Stock)

	err := item.Update(MustMoney("25.00", BRL), -1)
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.Equal(t, 8, item.Stock)
}
