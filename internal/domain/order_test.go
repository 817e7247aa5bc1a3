package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransition(t *testing.T) {
	t.Run("Happy path", func(t *testing.T) {
		path := []OrderStatus{
			OrderStatusPending,
			OrderStatusAwaitingCustomer,
			OrderStatusProcessing,
			OrderStatusReadyForIssue,
			OrderStatusIssued,
			OrderStatusOnRent,
			OrderStatusReturning,
			OrderStatusReturned,
			OrderStatusCompleted,
		}
		for i := 0; i < len(path)-1; i++ {
			assert.True(t, path[i].CanTransition(path[i+1]), "%s -> %s", path[i], path[i+1])
		}
	})

	t.Run("Returning can close as partial return", func(t *testing.T) {
		assert.True(t, OrderStatusReturning.CanTransition(OrderStatusPartialReturn))
		assert.True(t, OrderStatusPartialReturn.CanTransition(OrderStatusCompleted))
	})

	t.Run("Cancel only before issue", func(t *testing.T) {
		assert.True(t, OrderStatusPending.CanTransition(OrderStatusCancelled))
		assert.True(t, OrderStatusAwaitingCustomer.CanTransition(OrderStatusCancelled))
		assert.True(t, OrderStatusProcessing.CanTransition(OrderStatusCancelled))
		assert.True(t, OrderStatusReadyForIssue.CanTransition(OrderStatusCancelled))
		assert.False(t, OrderStatusIssued.CanTransition(OrderStatusCancelled))
		assert.False(t, OrderStatusOnRent.CanTransition(OrderStatusCancelled))
	})

	t.Run("No skipping or going back", func(t *testing.T) {
		assert.False(t, OrderStatusPending.CanTransition(OrderStatusIssued))
		assert.False(t, OrderStatusOnRent.CanTransition(OrderStatusProcessing))
		assert.False(t, OrderStatusCompleted.CanTransition(OrderStatusPending))
		assert.False(t, OrderStatusCancelled.CanTransition(OrderStatusProcessing))
	})
}

func TestOrderStatus_Sets(t *testing.T) {
	holding := map[OrderStatus]bool{}
	for _, s := range HoldingStatuses {
		holding[s] = true
	}

	assert.True(t, holding[OrderStatusProcessing])
	assert.True(t, holding[OrderStatusReadyForIssue])
	assert.True(t, holding[OrderStatusIssued])
	assert.True(t, holding[OrderStatusOnRent])
	assert.False(t, holding[OrderStatusPending])
	assert.False(t, holding[OrderStatusReturning])
	assert.False(t, holding[OrderStatusPartialReturn])

	assert.True(t, OrderStatusOnRent.IsHolding())
	assert.False(t, OrderStatusReturned.IsHolding())

	assert.True(t, OrderStatusPartialReturn.IsReleased())
	assert.True(t, OrderStatusReturned.IsReleased())
	assert.True(t, OrderStatusCancelled.IsReleased())
	assert.True(t, OrderStatusCompleted.IsReleased())
	assert.False(t, OrderStatusOnRent.IsReleased())
}

func TestParseOrderStatus(t *testing.T) {
	s, err := ParseOrderStatus("ON_RENT")
	assert.NoError(t, err)
	assert.Equal(t, OrderStatusOnRent, s)

	_, err = ParseOrderStatus("on_rent")
	assert.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestOrderNumberVersioning(t *testing.T) {
	assert.Equal(t, "OC-100", BaseOrderNumber("OC-100"))
	assert.Equal(t, "OC-100", BaseOrderNumber("OC-100(1)"))
	assert.Equal(t, "OC-100", BaseOrderNumber("OC-100(12)"))

	assert.Equal(t, int32(0), VersionSuffix("OC-100"))
	assert.Equal(t, int32(1), VersionSuffix("OC-100(1)"))
	assert.Equal(t, int32(12), VersionSuffix("OC-100(12)"))

	// Parenthetical mid-number is not a version suffix
	assert.Equal(t, int32(0), VersionSuffix("OC(1)-100"))
}
