package ports

import (
	"fmt"

	"messhall/internal/core/domain/model/kernel"
)

// OrderEvent is the minimal projection of an order's externally visible
// state, published after a lifecycle mutation commits. It never carries the
// full entity graph; subscribers needing detail perform a full-state read.
type OrderEvent struct {
	OrderID       string `json:"order_id"`
	VenueID       string `json:"venue_id"`
	Status        string `json:"status"`
	IsCancelled   bool   `json:"is_cancelled"`
	PaymentStatus string `json:"payment_status,omitempty"`
}

// AdminRoom returns the room where all staff watching a venue's incoming
// orders are subscribed.
func AdminRoom(venueID kernel.UUID) string {
	return fmt.Sprintf("mess_%s", venueID)
}

// OrderRoom returns the room for the originating customer's live view of
// one order.
func OrderRoom(orderID kernel.UUID) string {
	return fmt.Sprintf("order_%s", orderID)
}

// NotificationBus delivers lifecycle events to real-time subscribers,
// addressed by room. Delivery is fire-and-forget and at-most-once: slow or
// absent subscribers miss the event and reconcile on reconnect. Publish must
// never block the caller.
type NotificationBus interface {
	Publish(room string, event OrderEvent)
}
