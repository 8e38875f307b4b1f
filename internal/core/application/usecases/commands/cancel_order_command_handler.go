package commands

import (
	"context"
	"log/slog"

	"messhall/internal/core/domain/model/order"
	"messhall/internal/core/ports"
)

// CancelOrderCommandHandler cancels a whole order on behalf of its
// customer or venue staff. The cancellation cascades to every live line.
// A terminal order, Cancelled included, rejects the command the same way a
// staff transition to cancelled would.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	bus        ports.NotificationBus
	logger     *slog.Logger
}

// NewCancelOrderCommandHandler creates a handler for the cancel-order operation.
func NewCancelOrderCommandHandler(
	uowFactory OrderUoWFactory,
	bus ports.NotificationBus,
	logger *slog.Logger,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		bus:        bus,
		logger:     logger.With("component", "cancel_order"),
	}
}

// Handle processes the cancel-order command as one atomic read-modify-write.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	target, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = cmd.Actor().authorize(target); err != nil {
		return nil, err
	}

	oldStatus := target.Status()
	if err = target.Cancel(); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, target); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order cancelled",
		"order_id", target.ID(),
		"actor", cmd.Actor(),
		"old_status", oldStatus,
	)
	publishOrderEvent(h.bus, target)

	return target, nil
}
