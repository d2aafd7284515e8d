// Package order contains the pickup order workflow rules.
package order

import (
	"fmt"

	"github.com/willowtrellis/farmstand-api/internal/domain"
	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
)

// Statuses lists every workflow state in display order.
var Statuses = []entity.OrderStatus{
	entity.OrderPending,
	entity.OrderConfirmed,
	entity.OrderPreparing,
	entity.OrderReadyForPickup,
	entity.OrderPickedUp,
	entity.OrderCancelled,
}

// ParseStatus validates a status coming from a request.
func ParseStatus(s string) (entity.OrderStatus, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown order status %q", domain.ErrInvalidInput, s)
}

// IsTerminal reports whether no further transition is allowed from st.
func IsTerminal(st entity.OrderStatus) bool {
	return st == entity.OrderPickedUp || st == entity.OrderCancelled
}

// CanTransition reports whether an admin may move an order from one state to another.
// Admins may jump between any open states (including backwards, to undo a mistake);
// picked-up and cancelled orders are closed.
func CanTransition(from, to entity.OrderStatus) error {
	if from == to {
		return nil
	}
	if IsTerminal(from) {
		return fmt.Errorf("%w: order is %s", domain.ErrInvalidTransition, from)
	}
	return nil
}

// NotifiesCustomer reports whether entering st triggers a customer notification.
func NotifiesCustomer(st entity.OrderStatus) bool {
	return st == entity.OrderReadyForPickup
}
