package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrderFixture(t *testing.T) (*Store, *User, *Product) {
	t.Helper()
	store, brand, category := testCatalog(t)
	product, err := NewProduct(store, brand, category, "Hammer XL", "")
	require.NoError(t, err)
	user := testCustomerUser(t)
	return store, user, product
}

func testItem(t *testing.T, product *Product, quantity int, price string) *OrderItem {
	t.Helper()
	item, err := NewOrderItem(product, quantity, MustMoney(price, USD))
	require.NoError(t, err)
	return item
}

func TestNewOrderItem(t *testing.T) {
	_, _, product := testOrderFixture(t)

	t.Run("requires product, quantity and price", func(t *testing.T) {
		_, err := NewOrderItem(nil, 1, MustMoney("10.00", USD))
		assert.ErrorIs(t, err, ErrInvalidValue)

		_, err = NewOrderItem(product, 0, MustMoney("10.00", USD))
		assert.ErrorIs(t, err, ErrInvalidValue)

		_, err = NewOrderItem(product, 1, Money{})
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("line total is price times quantity", func(t *testing.T) {
		item := testItem(t, product, 3, "5.50")
		total, err := item.Total()
		require.NoError(t, err)
		assert.True(t, total.Equal(MustMoney("16.50", USD)))
	})

	t.Run("quantity update re-validates", func(t *testing.T) {
		item := testItem(t, product, 3, "5.50")
		assert.ErrorIs(t, item.UpdateQuantity(0), ErrInvalidValue)
		assert.Equal(t, 3, item.Quantity)

		require.NoError(t, item.UpdateQuantity(5))
		assert.Equal(t, 5, item.Quantity)
	})
}

func TestNewOrder(t *testing.T) {
	store, user, product := testOrderFixture(t)

	t.Run("starts pending and active", func(t *testing.T) {
		order, err := NewOrder(store, user, []*OrderItem{testItem(t, product, 1, "10.00")})
		require.NoError(t, err)
		assert.Equal(t, StatusPending, order.Status)
		assert.True(t, order.Active)
		assert.Len(t, order.Items, 1)
	})

	t.Run("requires store, user and at least one item", func(t *testing.T) {
		item := testItem(t, product, 1, "10.00")

		_, err := NewOrder(nil, user, []*OrderItem{item})
		assert.ErrorIs(t, err, ErrInvalidValue)

		_, err = NewOrder(store, nil, []*OrderItem{item})
		assert.ErrorIs(t, err, ErrInvalidValue)

		_, err = NewOrder(store, user, nil)
		assert.ErrorIs(t, err, ErrInvalidValue)

		_, err = NewOrder(store, user, []*OrderItem{})
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("copies the item slice defensively", func(t *testing.T) {
		items := []*OrderItem{testItem(t, product, 2, "10.00")}
		order, err := NewOrder(store, user, items)
		require.NoError(t, err)

		items[0].Quantity = 99
		assert.Equal(t, 2, order.Items[0].Quantity)
	})
}

func TestOrderTotal(t *testing.T) {
	store, user, product := testOrderFixture(t)

	t.Run("sums item totals", func(t *testing.T) {
		order, err := NewOrder(store, user, []*OrderItem{
			testItem(t, product, 2, "10.00"),
			testItem(t, product, 1, "5.50"),
		})
		require.NoError(t, err)

		total, err := order.Total()
		require.NoError(t, err)
		assert.True(t, total.Equal(MustMoney("25.50", USD)))
	})

	t.Run("rejects mixed currencies", func(t *testing.T) {
		eurItem, err := NewOrderItem(product, 1, MustMoney("5.50", EUR))
		require.NoError(t, err)

		order, err := NewOrder(store, user, []*OrderItem{
			testItem(t, product, 2, "10.00"),
			eurItem,
		})
		require.NoError(t, err)

		_, err = order.Total()
		assert.ErrorIs(t, err, ErrCurrencyMismatch)
	})
}

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		name    string
		from    Status
		to      Status
		wantErr bool
	}{
		{"pending to paid", StatusPending, StatusPaid, false},
		{"paid to shipped", StatusPaid, StatusShipped, false},
		{"shipped to delivered", StatusShipped, StatusDelivered, false},
		{"pending to cancelled", StatusPending, StatusCancelled, false},
		{"paid to cancelled", StatusPaid, StatusCancelled, false},
		{"shipped to cancelled", StatusShipped, StatusCancelled, false},
		{"pending to shipped skips paid", StatusPending, StatusShipped, true},
		{"pending to delivered skips everything", StatusPending, StatusDelivered, true},
		{"paid to pending goes backwards", StatusPaid, StatusPending, true},
		{"delivered to paid", StatusDelivered, StatusPaid, true},
		{"delivered to cancelled", StatusDelivered, StatusCancelled, true},
		{"cancelled to pending", StatusCancelled, StatusPending, true},
		{"cancelled to paid", StatusCancelled, StatusPaid, true},
	}

	store, user, product := testOrderFixture(t)

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order, err := NewOrder(store, user, []*OrderItem{testItem(t, product, 1, "10.00")})
			require.NoError(t, err)
			order.Status = tc.from

			err = order.SetStatus(tc.to)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, tc.from, order.Status)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.to, order.Status)
			}
		})
	}
}

func TestOrderCancel(t *testing.T) {
	store, user, product := testOrderFixture(t)

	newOrder := func(t *testing.T) *Order {
		order, err := NewOrder(store, user, []*OrderItem{testItem(t, product, 1, "10.00")})
		require.NoError(t, err)
		return order
	}

	t.Run("cancels from any non-terminal status", func(t *testing.T) {
		for _, from := range []Status{StatusPending, StatusPaid, StatusShipped} {
			order := newOrder(t)
			order.Status = from

			require.NoError(t, order.Cancel())
			assert.Equal(t, StatusCancelled, order.Status)
			assert.False(t, order.Active)
		}
	})

	t.Run("fails from terminal statuses", func(t *testing.T) {
		for _, from := range []Status{StatusDelivered, StatusCancelled} {
			order := newOrder(t)
			order.Status = from

			assert.ErrorIs(t, order.Cancel(), ErrInvalidTransition)
		}
	})
}

func TestOrderComplete(t *testing.T) {
	store, user, product := testOrderFixture(t)
	order, err := NewOrder(store, user, []*OrderItem{testItem(t, product, 1, "10.00")})
	require.NoError(t, err)

	assert.ErrorIs(t, order.Complete(), ErrInvalidTransition)

	order.Status = StatusShipped
	require.NoError(t, order.Complete())
	assert.Equal(t, StatusDelivered, order.Status)
}

func TestOrderAddItem(t *testing.T) {
	store, user, product := testOrderFixture(t)
	order, err := NewOrder(store, user, []*OrderItem{testItem(t, product, 1, "10.00")})
	require.NoError(t, err)

	assert.ErrorIs(t, order.AddItem(nil), ErrInvalidValue)
	assert.Len(t, order.Items, 1)

	require.NoError(t, order.AddItem(testItem(t, product, 2, "5.50")))
	assert.Len(t, order.Items, 2)
}
