package order

import (
	"errors"
	"fmt"
	"time"

	"messhall/internal/core/domain/model/kernel"
	"messhall/internal/pkg/errs"
)

// ErrTransactionIsNotConstructed is returned when a Transaction instance was
// not created through NewTransaction or RestoreTransaction.
var ErrTransactionIsNotConstructed = errors.New(
	"Transaction must be created via NewTransaction or RestoreTransaction",
)

// Transaction records the single payment attempt attached to an order.
// At most one transaction exists per order. A pending transaction is either
// confirmed by the gateway callback (or by cash settlement) or discarded on
// failure so the customer can retry.
type Transaction struct {
	// id is the unique identifier for the transaction
	id kernel.UUID

	// externalRef is the reference issued by the payment provider.
	// Cash settlements carry a locally generated reference.
	externalRef string

	// amount is the settled amount, captured from the order's derived
	// total when the payment attempt starts
	amount int

	// currency is the venue's settlement currency code
	currency string

	// method identifies the payment channel
	method PaymentMethod

	// status tracks the settlement state
	status TransactionStatus

	createdAt time.Time
	updatedAt time.Time

	// isConstructed ensures the transaction was created via a constructor
	isConstructed bool
}

// NewTransaction creates a pending transaction for a payment attempt.
//
// Parameters:
//   - id: unique identifier for the transaction (must be a valid UUID)
//   - externalRef: provider reference for the payment session (must not be empty)
//   - amount: settled amount (must not be negative)
//   - currency: settlement currency code (must not be empty)
//   - method: payment channel (must be a valid PaymentMethod)
//
// Returns the created transaction in pending status, or a validation error.
func NewTransaction(
	id kernel.UUID,
	externalRef string,
	amount int,
	currency string,
	method PaymentMethod,
) (*Transaction, error) {
	if err := errors.Join(
		id.Validate(),
		validateExternalRef(externalRef),
		validateAmount(amount),
		validateCurrency(currency),
		method.Validate(),
	); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Transaction{
		id:            id,
		externalRef:   externalRef,
		amount:        amount,
		currency:      currency,
		method:        method,
		status:        TransactionPending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreTransaction reconstructs a transaction from persistence.
func RestoreTransaction(
	id kernel.UUID,
	externalRef string,
	amount int,
	currency string,
	method PaymentMethod,
	status TransactionStatus,
	createdAt, updatedAt time.Time,
) (*Transaction, error) {
	if err := errors.Join(
		id.Validate(),
		validateExternalRef(externalRef),
		validateAmount(amount),
		validateCurrency(currency),
		method.Validate(),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	return &Transaction{
		id:            id,
		externalRef:   externalRef,
		amount:        amount,
		currency:      currency,
		method:        method,
		status:        status,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Transaction instance was properly constructed.
func (t *Transaction) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTransactionIsNotConstructed
	}
	return nil
}

// ID returns the transaction's unique identifier.
func (t *Transaction) ID() kernel.UUID {
	return t.id
}

// ExternalRef returns the provider reference for the payment session.
func (t *Transaction) ExternalRef() string {
	return t.externalRef
}

// Amount returns the settled amount.
func (t *Transaction) Amount() int {
	return t.amount
}

// Currency returns the settlement currency code.
func (t *Transaction) Currency() string {
	return t.currency
}

// Method returns the payment channel.
func (t *Transaction) Method() PaymentMethod {
	return t.method
}

// Status returns the settlement state.
func (t *Transaction) Status() TransactionStatus {
	return t.status
}

// CreatedAt returns when the payment attempt started.
func (t *Transaction) CreatedAt() time.Time {
	return t.createdAt
}

// UpdatedAt returns when the transaction last changed.
func (t *Transaction) UpdatedAt() time.Time {
	return t.updatedAt
}

// IsSettled reports whether the transaction has been confirmed.
func (t *Transaction) IsSettled() bool {
	return t.status == TransactionSuccess
}

// markSuccess confirms the transaction. A non-empty externalRef replaces the
// stored reference; callbacks may carry the provider's final reference.
func (t *Transaction) markSuccess(externalRef string) {
	if externalRef != "" {
		t.externalRef = externalRef
	}
	t.status = TransactionSuccess
	t.updatedAt = time.Now().UTC()
}

func validateExternalRef(externalRef string) error {
	if externalRef == "" {
		return errs.NewValueIsRequiredError("external reference")
	}
	return nil
}

func validateAmount(amount int) error {
	if amount < 0 {
		return errs.NewValueIsInvalidErrorWithCause("amount is invalid",
			fmt.Errorf("%d is negative", amount))
	}
	return nil
}

func validateCurrency(currency string) error {
	if currency == "" {
		return errs.NewValueIsRequiredError("currency")
	}
	return nil
}
