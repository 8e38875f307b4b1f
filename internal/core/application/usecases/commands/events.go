package commands

import (
	"messhall/internal/core/domain/model/order"
	"messhall/internal/core/ports"
)

// newOrderEvent projects the externally visible slice of an order's state.
// Subscribers that need more perform a full-state read.
func newOrderEvent(o *order.Order) ports.OrderEvent {
	event := ports.OrderEvent{
		OrderID:     o.ID().String(),
		VenueID:     o.VenueID().String(),
		Status:      o.Status().String(),
		IsCancelled: o.IsCancelled(),
	}
	if tx := o.Transaction(); tx != nil {
		event.PaymentStatus = tx.Status().String()
	}
	return event
}

// publishOrderEvent fans the event out to the venue's admin room and the
// order's own room. Called only after the persistence commit succeeded.
func publishOrderEvent(bus ports.NotificationBus, o *order.Order) {
	event := newOrderEvent(o)
	bus.Publish(ports.AdminRoom(o.VenueID()), event)
	bus.Publish(ports.OrderRoom(o.ID()), event)
}
