package commands

import (
	"context"
	"log/slog"

	"messhall/internal/core/domain/model/order"
	"messhall/internal/core/ports"
)

// CreateOrderCommandHandler handles the business logic for customer checkout.
// Resolves requested lines against the catalog (all-or-nothing), persists the
// new pending order, and notifies the venue's staff room and the order room.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	catalog    ports.MenuCatalog
	bus        ports.NotificationBus
	logger     *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for customer checkout.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	catalog ports.MenuCatalog,
	bus ports.NotificationBus,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		bus:        bus,
		logger:     logger.With("component", "create_order"),
	}
}

// Handle processes the checkout command.
// The catalog check runs for the whole batch before any row is written; a
// single unknown or unavailable item rejects the order. The event is
// published only after the commit succeeded.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	items, err := resolveLines(ctx, h.catalog, cmd.Lines())
	if err != nil {
		return nil, err
	}

	newOrder, err := order.NewOrder(cmd.OrderID(), cmd.VenueID(), cmd.CustomerID(), cmd.TableID(), items)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order created",
		"order_id", newOrder.ID(),
		"venue_id", newOrder.VenueID(),
		"status", newOrder.Status(),
		"total", newOrder.TotalPrice(),
	)
	publishOrderEvent(h.bus, newOrder)

	return newOrder, nil
}
