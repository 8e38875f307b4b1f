package order

import (
	"fmt"

	"messhall/internal/pkg/errs"
)

// TransactionStatus represents the settlement state of a payment transaction.
type TransactionStatus int

const (
	// TransactionUnknown represents an invalid or undefined transaction status.
	TransactionUnknown TransactionStatus = iota

	// TransactionPending indicates the payment has been initiated but not confirmed.
	TransactionPending

	// TransactionSuccess indicates the payment has been confirmed.
	TransactionSuccess

	// TransactionFailed indicates the payment provider reported a failure.
	TransactionFailed
)

func getTransactionStatusStrings() map[TransactionStatus]string {
	return map[TransactionStatus]string{
		TransactionUnknown: "unknown",
		TransactionPending: "pending",
		TransactionSuccess: "success",
		TransactionFailed:  "failed",
	}
}

// Validate checks if the TransactionStatus value is valid.
func (s TransactionStatus) Validate() error {
	if s == TransactionUnknown {
		return errs.NewValueIsInvalidErrorWithCause("transaction status is invalid",
			fmt.Errorf("%d is not a valid transaction status", s))
	}
	if _, ok := getTransactionStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("transaction status is invalid",
			fmt.Errorf("%d is not a valid transaction status", s))
	}
	return nil
}

// String returns the wire representation of the transaction status.
// Implements fmt.Stringer.
func (s TransactionStatus) String() string {
	if str, ok := getTransactionStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// PaymentMethod identifies how a transaction is settled.
type PaymentMethod int

const (
	// PaymentUnknown represents an invalid or undefined payment method.
	PaymentUnknown PaymentMethod = iota

	// PaymentCash is settled synchronously by staff at completion.
	PaymentCash

	// PaymentEsewa is settled asynchronously via the eSewa wallet gateway.
	PaymentEsewa

	// PaymentKhalti is settled asynchronously via the Khalti wallet gateway.
	PaymentKhalti

	// PaymentCard is settled asynchronously via the card gateway.
	PaymentCard
)

func getPaymentMethodStrings() map[PaymentMethod]string {
	return map[PaymentMethod]string{
		PaymentUnknown: "unknown",
		PaymentCash:    "cash",
		PaymentEsewa:   "esewa",
		PaymentKhalti:  "khalti",
		PaymentCard:    "card",
	}
}

// PaymentMethodFromString parses the wire representation of a payment method.
// Returns an error for unrecognized strings.
func PaymentMethodFromString(s string) (PaymentMethod, error) {
	for method, str := range getPaymentMethodStrings() {
		if method != PaymentUnknown && str == s {
			return method, nil
		}
	}
	return PaymentUnknown, errs.NewValueIsInvalidErrorWithCause("payment method is invalid",
		fmt.Errorf("%q is not a valid payment method", s))
}

// Validate checks if the PaymentMethod value is valid.
func (m PaymentMethod) Validate() error {
	if m == PaymentUnknown {
		return errs.NewValueIsInvalidErrorWithCause("payment method is invalid",
			fmt.Errorf("%d is not a valid payment method", m))
	}
	if _, ok := getPaymentMethodStrings()[m]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("payment method is invalid",
			fmt.Errorf("%d is not a valid payment method", m))
	}
	return nil
}

// String returns the wire representation of the payment method.
// Implements fmt.Stringer.
func (m PaymentMethod) String() string {
	if str, ok := getPaymentMethodStrings()[m]; ok {
		return str
	}
	return "unknown"
}
