package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusIsValid(t *testing.T) {
	valid := []OrderStatus{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
		OrderStatusRefunded,
	}
	for _, s := range valid {
		assert.True(t, s.IsValid(), "expected %s to be valid", s)
	}

	assert.False(t, OrderStatus("archived").IsValid())
	assert.False(t, OrderStatus("").IsValid())
	assert.False(t, OrderStatus("PENDING").IsValid())
}

func TestOrderStatusHappyPath(t *testing.T) {
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusConfirmed))
	assert.True(t, OrderStatusConfirmed.CanTransitionTo(OrderStatusProcessing))
	assert.True(t, OrderStatusProcessing.CanTransitionTo(OrderStatusShipped))
	assert.True(t, OrderStatusShipped.CanTransitionTo(OrderStatusDelivered))
	assert.True(t, OrderStatusDelivered.CanTransitionTo(OrderStatusRefunded))
}

func TestOrderStatusNoSkipping(t *testing.T) {
	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusProcessing))
	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusShipped))
	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusDelivered))
	assert.False(t, OrderStatusConfirmed.CanTransitionTo(OrderStatusShipped))
	assert.False(t, OrderStatusProcessing.CanTransitionTo(OrderStatusDelivered))
}

func TestOrderStatusNoGoingBack(t *testing.T) {
	assert.False(t, OrderStatusConfirmed.CanTransitionTo(OrderStatusPending))
	assert.False(t, OrderStatusShipped.CanTransitionTo(OrderStatusProcessing))
	assert.False(t, OrderStatusDelivered.CanTransitionTo(OrderStatusShipped))
}

func TestOrderStatusCancellation(t *testing.T) {
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusCancelled))
	assert.True(t, OrderStatusConfirmed.CanTransitionTo(OrderStatusCancelled))
	assert.True(t, OrderStatusProcessing.CanTransitionTo(OrderStatusCancelled))

	// Once shipped the order can no longer be cancelled
	assert.False(t, OrderStatusShipped.CanTransitionTo(OrderStatusCancelled))
	assert.False(t, OrderStatusDelivered.CanTransitionTo(OrderStatusCancelled))
}

func TestOrderStatusRefundOnlyAfterDelivery(t *testing.T) {
	assert.True(t, OrderStatusDelivered.CanTransitionTo(OrderStatusRefunded))

	for _, s := range []OrderStatus{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusCancelled,
	} {
		assert.False(t, s.CanTransitionTo(OrderStatusRefunded), "refund should not be allowed from %s", s)
	}
}

func TestOrderStatusTerminalStates(t *testing.T) {
	all := []OrderStatus{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
		OrderStatusRefunded,
	}

	for _, target := range all {
		assert.False(t, OrderStatusCancelled.CanTransitionTo(target))
		assert.False(t, OrderStatusRefunded.CanTransitionTo(target))
	}

	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.True(t, OrderStatusRefunded.IsTerminal())
	assert.False(t, OrderStatusDelivered.IsTerminal())
	assert.False(t, OrderStatusPending.IsTerminal())
}

func TestRoleIsValid(t *testing.T) {
	assert.True(t, RoleCustomer.IsValid())
	assert.True(t, RoleAdmin.IsValid())
	assert.False(t, Role("superuser").IsValid())
}
