package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewOrder_DerivesTotals(t *testing.T) {
	order, err := NewOrder([]OrderItem{
		{ProductID: 1, Quantity: 2, Price: 15},
		{ProductID: 2, Quantity: 1, Price: 10},
	})

	require.NoError(t, err)
	require.NotEmpty(t, order.ID)
	require.Equal(t, StatusPending, order.Status)
	require.Equal(t, float64(40), order.TotalAmount)
	require.Equal(t, int32(3), order.TotalItems)
	require.Len(t, order.Items, 2)
}

func TestNewOrder_DuplicateProductLinesStaySeparate(t *testing.T) {
	order, err := NewOrder([]OrderItem{
		{ProductID: 7, Quantity: 2, Price: 5},
		{ProductID: 7, Quantity: 3, Price: 5},
	})

	require.NoError(t, err)
	require.Len(t, order.Items, 2)
	require.Equal(t, int32(5), order.TotalItems)
	require.Equal(t, float64(25), order.TotalAmount)
}

func TestNewOrder_Invalid(t *testing.T) {
	_, err := NewOrder(nil)
	require.ErrorIs(t, err, ErrNoItems)

	_, err = NewOrder([]OrderItem{{ProductID: 0, Quantity: 1, Price: 1}})
	require.ErrorIs(t, err, ErrInvalidProductID)

	_, err = NewOrder([]OrderItem{{ProductID: 1, Quantity: 0, Price: 1}})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewOrder([]OrderItem{{ProductID: 1, Quantity: 1, Price: -1}})
	require.ErrorIs(t, err, ErrInvalidPrice)
}

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"PENDING", "PAID", "DELIVERED", "CANCELLED"} {
		status, err := ParseStatus(raw)
		require.NoError(t, err)
		require.Equal(t, Status(raw), status)
	}

	_, err := ParseStatus("SHIPPED")
	require.ErrorIs(t, err, ErrInvalidStatus)

	_, err = ParseStatus("paid")
	require.ErrorIs(t, err, ErrInvalidStatus)
}
