package commands

import (
	"context"
	"log/slog"

	"messhall/internal/core/domain/model/order"
	"messhall/internal/core/ports"
)

// CompleteOrderCommandHandler settles an order in cash and marks it
// completed. Completing an already-completed order is a quiet no-op.
type CompleteOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	bus        ports.NotificationBus
	logger     *slog.Logger
}

// NewCompleteOrderCommandHandler creates a handler for cash settlement.
func NewCompleteOrderCommandHandler(
	uowFactory OrderUoWFactory,
	bus ports.NotificationBus,
	logger *slog.Logger,
) CompleteOrderCommandHandler {
	return CompleteOrderCommandHandler{
		uowFactory: uowFactory,
		bus:        bus,
		logger:     logger.With("component", "complete_order"),
	}
}

// Handle processes the completion as one atomic read-modify-write.
func (h *CompleteOrderCommandHandler) Handle(ctx context.Context, cmd CompleteOrderCommand) (*order.Order, error) {
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
	changed, err := target.Complete(cmd.Currency())
	if err != nil {
		return nil, err
	}

	if !changed {
		return target, nil
	}

	if err = repo.Update(ctx, target); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order completed",
		"order_id", target.ID(),
		"actor", cmd.Actor(),
		"old_status", oldStatus,
		"total", target.TotalPrice(),
	)
	publishOrderEvent(h.bus, target)

	return target, nil
}
