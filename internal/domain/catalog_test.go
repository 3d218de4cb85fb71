package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore("Acme Outlet")
	require.NoError(t, err)
	return store
}

func testCatalog(t *testing.T) (*Store, *Brand, *Category) {
	t.Helper()
	store := testStore(t)
	brand, err := NewBrand(store, "Acme")
	require.NoError(t, err)
	category, err := NewCategory(store, "Tools")
	require.NoError(t, err)
	return store, brand, category
}

func TestStoreNameBounds(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"two characters accepted", "ab", false},
		{"one character rejected", "a", true},
		{"hundred characters accepted", strings.Repeat("x", 100), false},
		{"hundred and one rejected", strings.Repeat("x", 101), true},
		{"whitespace only rejected", "   ", true},
		{"empty rejected", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewStore(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidValue)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStoreRename(t *testing.T) {
	store := testStore(t)

	require.NoError(t, store.Rename("  New Name  "))
	assert.Equal(t, "New Name", store.Name)

	err := store.Rename("x")
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.Equal(t, "New Name", store.Name)
}

func TestBrand(t *testing.T) {
	store := testStore(t)

	t.Run("belongs to its store", func(t *testing.T) {
		brand, err := NewBrand(store, "Acme")
		require.NoError(t, err)
		assert.Equal(t, store.ID, brand.StoreID)
		assert.True(t, brand.Active)
	})

	t.Run("requires a store", func(t *testing.T) {
		_, err := NewBrand(nil, "Acme")
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("rejects one-character names", func(t *testing.T) {
		_, err := NewBrand(store, "A")
		assert.ErrorIs(t, err, ErrInvalidValue)
	})
}

func TestCategoryLifecycle(t *testing.T) {
	store := testStore(t)
	category, err := NewCategory(store, "Tools")
	require.NoError(t, err)

	category.SoftDelete()
	assert.False(t, category.Active)
	require.NotNil(t, category.DeletedAt)

	category.Activate()
	assert.True(t, category.Active)
	assert.Nil(t, category.DeletedAt)
}

func TestNewProduct(t *testing.T) {
	store, brand, category := testCatalog(t)

	t.Run("creates active with references", func(t *testing.T) {
		product, err := NewProduct(store, brand, category, "Hammer XL", "a big hammer")
		require.NoError(t, err)
		assert.Equal(t, store.ID, product.StoreID)
		assert.Equal(t, brand.ID, product.BrandID)
		assert.Equal(t, category.ID, product.CategoryID)
		assert.True(t, product.Active)
	})

	t.Run("requires at least three name characters", func(t *testing.T) {
		_, err := NewProduct(store, brand, category, "ab", "")
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("requires brand and category", func(t *testing.T) {
		_, err := NewProduct(store, nil, category, "Hammer", "")
		assert.ErrorIs(t, err, ErrInvalidValue)

		_, err = NewProduct(store, brand, nil, "Hammer", "")
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("rejects brand from another store", func(t *testing.T) {
		other, err := NewStore("Other Shop")
		require.NoError(t, err)
		foreignBrand, err := NewBrand(other, "Foreign")
		require.NoError(t, err)

		_, err = NewProduct(store, foreignBrand, category, "Hammer", "")
		assert.ErrorIs(t, err, ErrInvariantViolation)
	})

	t.Run("rejects category from another store", func(t *testing.T) {
		other, err := NewStore("Other Shop")
		require.NoError(t, err)
		foreignCategory, err := NewCategory(other, "Garden")
		require.NoError(t, err)

		_, err = NewProduct(store, brand, foreignCategory, "Hammer", "")
		assert.ErrorIs(t, err, ErrInvariantViolation)
	})
}

func TestProductUpdate(t *testing.T) {
	store, brand, category := testCatalog(t)
	product, err := NewProduct(store, brand, category, "Hammer XL", "")
	require.NoError(t, err)

	t.Run("re-validates references on update", func(t *testing.T) {
		other, err := NewStore("Other Shop")
		require.NoError(t, err)
		foreignBrand, err := NewBrand(other, "Foreign")
		require.NoError(t, err)

		err = product.Update(foreignBrand, category, "Hammer XL", "")
		assert.ErrorIs(t, err, ErrInvariantViolation)
		assert.Equal(t, brand.ID, product.BrandID)
	})

	t.Run("applies valid updates", func(t *testing.T) {
		newCategory, err := NewCategory(store, "Hardware")
		require.NoError(t, err)

		require.NoError(t, product.Update(brand, newCategory, "Hammer XXL", "even bigger"))
		assert.Equal(t, "Hammer XXL", product.Name)
		assert.Equal(t, newCategory.ID, product.CategoryID)
		assert.Equal(t, "even bigger", product.Description)
	})
}
