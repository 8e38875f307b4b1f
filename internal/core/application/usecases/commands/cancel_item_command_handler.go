package commands

import (
	"context"
	"log/slog"

	"messhall/internal/core/domain/model/order"
	"messhall/internal/core/ports"
)

// CancelItemCommandHandler cancels a single order line.
// Cancelling an already-cancelled line is treated as success with no event,
// so client retries never surface spurious failures or duplicate
// notifications. The cascade decision (last live line cancels the order) is
// made inside the aggregate against the freshly loaded, row-locked line set.
type CancelItemCommandHandler struct {
	uowFactory OrderUoWFactory
	bus        ports.NotificationBus
	logger     *slog.Logger
}

// NewCancelItemCommandHandler creates a handler for the cancel-item operation.
func NewCancelItemCommandHandler(
	uowFactory OrderUoWFactory,
	bus ports.NotificationBus,
	logger *slog.Logger,
) CancelItemCommandHandler {
	return CancelItemCommandHandler{
		uowFactory: uowFactory,
		bus:        bus,
		logger:     logger.With("component", "cancel_item"),
	}
}

// Handle processes the cancel-item command as one atomic read-modify-write.
func (h *CancelItemCommandHandler) Handle(ctx context.Context, cmd CancelItemCommand) (*order.Order, error) {
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
	_, changed, err := target.CancelItem(cmd.ItemID())
	if err != nil {
		return nil, err
	}

	if !changed {
		// Already cancelled, nothing to persist or announce.
		return target, nil
	}

	if err = repo.Update(ctx, target); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order item cancelled",
		"order_id", target.ID(),
		"item_id", cmd.ItemID(),
		"actor", cmd.Actor(),
		"old_status", oldStatus,
		"new_status", target.Status(),
		"total", target.TotalPrice(),
	)
	publishOrderEvent(h.bus, target)

	return target, nil
}
