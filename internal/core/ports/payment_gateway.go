package ports

import (
	"context"
	"errors"

	"messhall/internal/core/domain/model/kernel"
)

// ErrUpstreamUnavailable is returned when an external collaborator (payment
// gateway, catalog backend) cannot be reached or answers with a transport
// level failure. The order state is left unchanged and the caller may retry.
var ErrUpstreamUnavailable = errors.New("upstream service unavailable")

// PaymentSession describes an initiated payment at the external provider.
type PaymentSession struct {
	// ExternalRef is the provider's identifier for the payment session.
	ExternalRef string

	// RedirectURL is where the customer completes the payment.
	RedirectURL string
}

// PaymentGateway initiates payment sessions at an external wallet or card
// provider. Confirmation arrives asynchronously through the settlement
// callback, never through this interface.
//
// Initiate must bound its own timeout. On timeout the caller keeps the
// pending transaction in place so a late callback can still settle it.
type PaymentGateway interface {
	Initiate(
		ctx context.Context,
		orderID kernel.UUID,
		amount int,
		currency string,
		returnURL string,
	) (PaymentSession, error)
}
