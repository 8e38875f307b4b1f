package commands

import (
	"context"
	"log/slog"

	"messhall/internal/core/domain/model/order"
	"messhall/internal/core/ports"
)

// SettlePaymentCommandHandler applies a payment provider callback. A
// successful callback completes the order; a failed one discards the pending
// transaction so the customer can retry. Duplicate callbacks for an already
// settled transaction are quiet no-ops, so provider retries never emit
// duplicate events.
type SettlePaymentCommandHandler struct {
	uowFactory OrderUoWFactory
	bus        ports.NotificationBus
	logger     *slog.Logger
}

// NewSettlePaymentCommandHandler creates a handler for provider callbacks.
func NewSettlePaymentCommandHandler(
	uowFactory OrderUoWFactory,
	bus ports.NotificationBus,
	logger *slog.Logger,
) SettlePaymentCommandHandler {
	return SettlePaymentCommandHandler{
		uowFactory: uowFactory,
		bus:        bus,
		logger:     logger.With("component", "settle_payment"),
	}
}

// Handle processes the callback as one atomic read-modify-write.
func (h *SettlePaymentCommandHandler) Handle(ctx context.Context, cmd SettlePaymentCommand) (*order.Order, error) {
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

	oldStatus := target.Status()
	changed, err := target.SettleExternal(cmd.Success(), cmd.ExternalRef())
	if err != nil {
		return nil, err
	}

	if !changed {
		// Duplicate callback, nothing to persist or announce.
		return target, nil
	}

	if err = repo.Update(ctx, target); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "payment settled",
		"order_id", target.ID(),
		"success", cmd.Success(),
		"old_status", oldStatus,
		"new_status", target.Status(),
	)
	publishOrderEvent(h.bus, target)

	return target, nil
}
