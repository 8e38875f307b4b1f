package commands

import (
	"context"
	"fmt"
	"log/slog"
)

// DeleteOrderCommandHandler removes a deletable order and its child rows.
// No event is published: the rows are gone and subscribers reconcile with a
// fresh read, same as after the cleanup job runs.
type DeleteOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	logger     *slog.Logger
}

// NewDeleteOrderCommandHandler creates a handler for deleting orders.
func NewDeleteOrderCommandHandler(
	uowFactory OrderUoWFactory,
	logger *slog.Logger,
) DeleteOrderCommandHandler {
	return DeleteOrderCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "delete_order"),
	}
}

// Handle processes the deletion as one atomic read-check-delete.
func (h *DeleteOrderCommandHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	target, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = cmd.Actor().authorize(target); err != nil {
		return err
	}

	if !target.IsDeletable() {
		return fmt.Errorf("%w: status %s", ErrOrderNotDeletable, target.Status())
	}

	if err = repo.Delete(ctx, target.ID()); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "order deleted",
		"order_id", target.ID(),
		"actor", cmd.Actor(),
		"status", target.Status(),
	)

	return nil
}
