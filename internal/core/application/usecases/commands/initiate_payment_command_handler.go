package commands

import (
	"context"
	"fmt"
	"log/slog"

	"messhall/internal/core/domain/model/kernel"
	"messhall/internal/core/domain/model/order"
	"messhall/internal/core/ports"
)

// PaymentInitiation is the result of starting an online payment: the order
// with its pending transaction attached, plus the provider session the
// customer is redirected to.
type PaymentInitiation struct {
	Order   *order.Order
	Session ports.PaymentSession
}

// InitiatePaymentCommandHandler starts an online payment session for an
// order. The provider is called while the order row is locked, so a
// concurrent settlement or cancellation cannot interleave. A pending
// transaction from an abandoned earlier attempt is replaced; a settled one
// makes the attempt fail. When the provider cannot be reached nothing is
// persisted and the order is left exactly as loaded.
type InitiatePaymentCommandHandler struct {
	uowFactory OrderUoWFactory
	gateway    ports.PaymentGateway
	bus        ports.NotificationBus
	logger     *slog.Logger
}

// NewInitiatePaymentCommandHandler creates a handler for payment initiation.
func NewInitiatePaymentCommandHandler(
	uowFactory OrderUoWFactory,
	gateway ports.PaymentGateway,
	bus ports.NotificationBus,
	logger *slog.Logger,
) InitiatePaymentCommandHandler {
	return InitiatePaymentCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		bus:        bus,
		logger:     logger.With("component", "initiate_payment"),
	}
}

// Handle processes the initiation as one atomic read-modify-write.
func (h *InitiatePaymentCommandHandler) Handle(
	ctx context.Context,
	cmd InitiatePaymentCommand,
) (PaymentInitiation, error) {
	if err := cmd.Validate(); err != nil {
		return PaymentInitiation{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return PaymentInitiation{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	target, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return PaymentInitiation{}, err
	}

	if err = cmd.Actor().authorize(target); err != nil {
		return PaymentInitiation{}, err
	}

	// Checked before the provider call so no session is opened for an
	// order that can never accept it.
	if err = target.EnsurePayable(); err != nil {
		return PaymentInitiation{}, err
	}

	amount := target.TotalPrice()
	session, err := h.gateway.Initiate(ctx, target.ID(), amount, cmd.Currency(), cmd.ReturnURL())
	if err != nil {
		return PaymentInitiation{}, fmt.Errorf("initiate %s payment: %w", cmd.Method(), err)
	}

	tx, err := order.NewTransaction(
		kernel.NewUUID(),
		session.ExternalRef,
		amount,
		cmd.Currency(),
		cmd.Method(),
	)
	if err != nil {
		return PaymentInitiation{}, err
	}

	if err = target.AttachTransaction(tx); err != nil {
		return PaymentInitiation{}, err
	}

	if err = repo.Update(ctx, target); err != nil {
		return PaymentInitiation{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return PaymentInitiation{}, err
	}

	h.logger.InfoContext(ctx, "payment initiated",
		"order_id", target.ID(),
		"actor", cmd.Actor(),
		"method", cmd.Method(),
		"amount", amount,
		"external_ref", session.ExternalRef,
	)
	publishOrderEvent(h.bus, target)

	return PaymentInitiation{Order: target, Session: session}, nil
}
