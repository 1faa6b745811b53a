package schema_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hamba/avro/v2"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSchemaIdentifier struct {
	mock.Mock
}

func (c *MockSchemaIdentifier) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (id int, err error) {
	args := c.Called(ctx, subject, avroSchemaText)
	return args.Int(0), args.Error(1)
}

func testEvent() schema.CartItemAddedV1 {
	return schema.CartItemAddedV1{
		EventID:    "4f9a8c2e-6a55-4d8e-9a53-6d0b0f1c2b7e",
		ProductID:  "42",
		UnitPrice:  129.9,
		Quantity:   2,
		TotalItems: 5,
		OccurredAt: time.Date(2022, time.May, 7, 12, 30, 15, 250e6, time.UTC),
	}
}

func TestCartItemAddedV1Avro(t *testing.T) {
	var s avro.Schema
	require.NotPanics(t, func() {
		s = schema.CartItemAddedV1Avro()
	})

	want := testEvent()
	data, err := avro.Marshal(s, want)
	require.NoError(t, err)

	var got schema.CartItemAddedV1
	require.NoError(t, avro.Unmarshal(s, data, &got))

	assert.Equal(t, want.EventID, got.EventID)
	assert.Equal(t, want.ProductID, got.ProductID)
	assert.Equal(t, want.UnitPrice, got.UnitPrice)
	assert.Equal(t, want.Quantity, got.Quantity)
	assert.Equal(t, want.TotalItems, got.TotalItems)
	assert.True(t, want.OccurredAt.Equal(got.OccurredAt))
}

func TestSerdeCartItemAddedV1(t *testing.T) {
	const subject = "cart-events-value"

	t.Run("NoOpts", func(t *testing.T) {
		_, err := schema.NewSerdeCartItemAddedV1(t.Context())
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("OneOpt", func(t *testing.T) {
		_, err := schema.NewSerdeCartItemAddedV1(
			t.Context(),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("EmptySubject", func(t *testing.T) {
		_, err := schema.NewSerdeCartItemAddedV1(
			t.Context(),
			schema.SubjectOpt(""),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		assert.Error(t, err)
	})

	t.Run("RegistryFailure", func(t *testing.T) {
		si := new(MockSchemaIdentifier)
		registryErr := errors.New("registry unavailable")
		si.On("DetermineID", t.Context(), subject, schema.CartItemAddedSchemaTextV1).
			Return(0, registryErr)

		_, err := schema.NewSerdeCartItemAddedV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(si),
		)
		assert.ErrorIs(t, err, registryErr)
	})

	t.Run("EncodeDecode", func(t *testing.T) {
		si := new(MockSchemaIdentifier)
		si.On("DetermineID", t.Context(), subject, schema.CartItemAddedSchemaTextV1).
			Return(7, nil)

		serde, err := schema.NewSerdeCartItemAddedV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(si),
		)
		require.NoError(t, err)
		si.AssertExpectations(t)

		want := testEvent()
		data, err := serde.Encode(want)
		require.NoError(t, err)

		var got schema.CartItemAddedV1
		require.NoError(t, serde.Decode(data, &got))

		assert.Equal(t, want.ProductID, got.ProductID)
		assert.Equal(t, want.Quantity, got.Quantity)
		assert.Equal(t, want.TotalItems, got.TotalItems)
		assert.True(t, want.OccurredAt.Equal(got.OccurredAt))
	})
}
