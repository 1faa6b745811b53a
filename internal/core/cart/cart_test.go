package cart_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/niksmo/storefront/internal/core/cart"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockStorage) Set(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// mapStorage keeps values between calls to exercise load-after-add.
type mapStorage map[string][]byte

func (s mapStorage) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (s mapStorage) Set(_ context.Context, key string, value []byte) error {
	s[key] = value
	return nil
}

func TestStoreLoad(t *testing.T) {
	t.Run("Absent", func(t *testing.T) {
		storage := new(MockStorage)
		storage.On("Get", mock.Anything, "cart").Return(nil, domain.ErrNotFound)

		c, err := cart.NewStore(storage, "").Load(t.Context())
		require.NoError(t, err)
		assert.Empty(t, c.Lines)
		assert.NotNil(t, c.Lines)
		storage.AssertExpectations(t)
	})

	t.Run("Persisted", func(t *testing.T) {
		storage := new(MockStorage)
		data := []byte(`{"items":[{"productId":"1","quantity":2,"price":10.5},{"productId":"2","quantity":1,"price":3}]}`)
		storage.On("Get", mock.Anything, "cart").Return(data, nil)

		c, err := cart.NewStore(storage, "cart").Load(t.Context())
		require.NoError(t, err)
		assert.Equal(t, []domain.CartLine{
			{ProductID: "1", Quantity: 2, UnitPrice: 10.5},
			{ProductID: "2", Quantity: 1, UnitPrice: 3},
		}, c.SortedLines())
	})

	t.Run("DuplicateLinesMerged", func(t *testing.T) {
		storage := new(MockStorage)
		data := []byte(`{"items":[{"productId":"1","quantity":2,"price":10},{"productId":"1","quantity":3,"price":12}]}`)
		storage.On("Get", mock.Anything, "cart").Return(data, nil)

		c, err := cart.NewStore(storage, "").Load(t.Context())
		require.NoError(t, err)
		assert.Equal(t, domain.CartLine{ProductID: "1", Quantity: 5, UnitPrice: 10}, c.Lines["1"])
	})

	malformed := map[string]string{
		"NotJSON":          `{items:`,
		"WrongShape":       `{"items":{"productId":"1"}}`,
		"ZeroQuantity":     `{"items":[{"productId":"1","quantity":0,"price":10}]}`,
		"NegativePrice":    `{"items":[{"productId":"1","quantity":1,"price":-1}]}`,
		"MissingProductID": `{"items":[{"quantity":1,"price":1}]}`,
		"QuantityOverflow": fmt.Sprintf(
			`{"items":[{"productId":"1","quantity":%d,"price":1},{"productId":"1","quantity":1,"price":1}]}`,
			math.MaxInt,
		),
	}
	for name, raw := range malformed {
		t.Run("Malformed"+name, func(t *testing.T) {
			storage := new(MockStorage)
			storage.On("Get", mock.Anything, "cart").Return([]byte(raw), nil)

			c, err := cart.NewStore(storage, "").Load(t.Context())
			require.NoError(t, err)
			assert.Empty(t, c.Lines)
		})
	}

	t.Run("StorageFailure", func(t *testing.T) {
		storage := new(MockStorage)
		storageErr := errors.New("connection refused")
		storage.On("Get", mock.Anything, "cart").Return(nil, storageErr)

		_, err := cart.NewStore(storage, "").Load(t.Context())
		assert.ErrorIs(t, err, storageErr)
	})
}

func TestStoreAddItem(t *testing.T) {
	t.Run("RepeatAddAccumulates", func(t *testing.T) {
		store := cart.NewStore(mapStorage{}, "")
		item := domain.CartItem{ProductID: "p1", UnitPrice: 10, Quantity: 1}

		c, err := store.AddItem(t.Context(), domain.NewCart(), item)
		require.NoError(t, err)
		c, err = store.AddItem(t.Context(), c, item)
		require.NoError(t, err)

		require.Len(t, c.Lines, 1)
		assert.Equal(t, 2, c.Lines["p1"].Quantity)
		assert.Equal(t, 2, cart.TotalItemCount(c))
	})

	t.Run("FirstPriceKept", func(t *testing.T) {
		store := cart.NewStore(mapStorage{}, "")

		c, err := store.AddItem(t.Context(), domain.NewCart(),
			domain.CartItem{ProductID: "p1", UnitPrice: 10, Quantity: 1})
		require.NoError(t, err)
		c, err = store.AddItem(t.Context(), c,
			domain.CartItem{ProductID: "p1", UnitPrice: 99, Quantity: 3})
		require.NoError(t, err)

		assert.Equal(t, domain.CartLine{ProductID: "p1", Quantity: 4, UnitPrice: 10}, c.Lines["p1"])
	})

	t.Run("DistinctProductsCommute", func(t *testing.T) {
		a := domain.CartItem{ProductID: "a", UnitPrice: 1, Quantity: 2}
		b := domain.CartItem{ProductID: "b", UnitPrice: 5, Quantity: 3}

		add := func(items ...domain.CartItem) domain.Cart {
			store := cart.NewStore(mapStorage{}, "")
			c := domain.NewCart()
			for _, it := range items {
				var err error
				c, err = store.AddItem(t.Context(), c, it)
				require.NoError(t, err)
			}
			return c
		}

		ab, ba := add(a, b), add(b, a)
		assert.Equal(t, ab, ba)
		assert.Len(t, ab.Lines, 2)
		assert.Equal(t, 5, cart.TotalItemCount(ab))
	})

	t.Run("InputCartUntouched", func(t *testing.T) {
		store := cart.NewStore(mapStorage{}, "")
		src := domain.NewCart()

		_, err := store.AddItem(t.Context(), src,
			domain.CartItem{ProductID: "p1", UnitPrice: 1, Quantity: 1})
		require.NoError(t, err)
		assert.Empty(t, src.Lines)
	})

	t.Run("PersistedAndReloaded", func(t *testing.T) {
		storage := mapStorage{}
		store := cart.NewStore(storage, "session-cart")

		added, err := store.AddItem(t.Context(), domain.NewCart(),
			domain.CartItem{ProductID: "p1", UnitPrice: 2.5, Quantity: 2})
		require.NoError(t, err)

		assert.JSONEq(t,
			`{"items":[{"productId":"p1","quantity":2,"price":2.5}]}`,
			string(storage["session-cart"]),
		)

		loaded, err := store.Load(t.Context())
		require.NoError(t, err)
		assert.Equal(t, added, loaded)
	})

	t.Run("InvalidItems", func(t *testing.T) {
		storage := new(MockStorage)
		store := cart.NewStore(storage, "")

		invalid := []domain.CartItem{
			{ProductID: "", UnitPrice: 1, Quantity: 1},
			{ProductID: "p1", UnitPrice: 1, Quantity: 0},
			{ProductID: "p1", UnitPrice: 1, Quantity: -2},
			{ProductID: "p1", UnitPrice: -1, Quantity: 1},
		}
		for _, item := range invalid {
			_, err := store.AddItem(t.Context(), domain.NewCart(), item)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument, "%+v", item)
		}
		storage.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("QuantityOverflowRejected", func(t *testing.T) {
		storage := mapStorage{}
		store := cart.NewStore(storage, "")

		c, err := store.AddItem(t.Context(), domain.NewCart(),
			domain.CartItem{ProductID: "keep", UnitPrice: 1, Quantity: 3})
		require.NoError(t, err)
		c, err = store.AddItem(t.Context(), c,
			domain.CartItem{ProductID: "p1", UnitPrice: 1, Quantity: math.MaxInt})
		require.NoError(t, err)
		persisted := string(storage[cart.DefaultKey])

		_, err = store.AddItem(t.Context(), c,
			domain.CartItem{ProductID: "p1", UnitPrice: 1, Quantity: 1})
		require.ErrorIs(t, err, domain.ErrInvalidArgument)
		assert.Equal(t, persisted, string(storage[cart.DefaultKey]))

		loaded, err := store.Load(t.Context())
		require.NoError(t, err)
		assert.Equal(t, math.MaxInt, loaded.Lines["p1"].Quantity)
		assert.Equal(t, 3, loaded.Lines["keep"].Quantity)
	})

	t.Run("WriteFailure", func(t *testing.T) {
		storage := new(MockStorage)
		writeErr := errors.New("read-only replica")
		storage.On("Set", mock.Anything, "cart", mock.Anything).Return(writeErr)

		_, err := cart.NewStore(storage, "").AddItem(t.Context(), domain.NewCart(),
			domain.CartItem{ProductID: "p1", UnitPrice: 1, Quantity: 1})
		assert.ErrorIs(t, err, writeErr)
	})
}

func TestTotalItemCount(t *testing.T) {
	assert.Zero(t, cart.TotalItemCount(domain.Cart{}))
	assert.Zero(t, cart.TotalItemCount(domain.NewCart()))

	c := domain.Cart{Lines: map[string]domain.CartLine{
		"a": {ProductID: "a", Quantity: 2},
		"b": {ProductID: "b", Quantity: 7},
	}}
	assert.Equal(t, 9, cart.TotalItemCount(c))
}
