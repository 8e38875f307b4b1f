// Package payment implements the PaymentGateway port against a Khalti-style
// wallet provider. The provider issues a payment session (pidx and redirect
// URL); confirmation arrives later through the settlement callback handled
// by the HTTP adapter.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"messhall/internal/core/domain/model/kernel"
	"messhall/internal/core/ports"
)

// defaultTimeout bounds one initiation round trip. A timed-out attempt
// persists nothing: no transaction exists yet when initiation fails, so the
// customer simply retries. An earlier pending attempt, if any, is left in
// place untouched.
const defaultTimeout = 10 * time.Second

// HTTPGateway initiates payment sessions over the provider's REST API.
type HTTPGateway struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

// NewHTTPGateway creates a gateway client for the given provider endpoint.
// A zero timeout falls back to the default.
func NewHTTPGateway(baseURL, secretKey string, timeout time.Duration) *HTTPGateway {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPGateway{
		baseURL:   baseURL,
		secretKey: secretKey,
		client:    &http.Client{Timeout: timeout},
	}
}

type initiateRequest struct {
	PurchaseOrderID string `json:"purchase_order_id"`
	Amount          int    `json:"amount"`
	Currency        string `json:"currency"`
	ReturnURL       string `json:"return_url"`
}

type initiateResponse struct {
	ExternalRef string `json:"pidx"`
	PaymentURL  string `json:"payment_url"`
}

// Initiate starts a payment session at the provider. Transport failures and
// provider 5xx responses are reported as ErrUpstreamUnavailable so callers
// can distinguish them from rejected requests.
func (g *HTTPGateway) Initiate(
	ctx context.Context,
	orderID kernel.UUID,
	amount int,
	currency string,
	returnURL string,
) (ports.PaymentSession, error) {
	payload, err := json.Marshal(initiateRequest{
		PurchaseOrderID: orderID.String(),
		Amount:          amount,
		Currency:        currency,
		ReturnURL:       returnURL,
	})
	if err != nil {
		return ports.PaymentSession{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/epayment/initiate/", bytes.NewReader(payload))
	if err != nil {
		return ports.PaymentSession{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+g.secretKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return ports.PaymentSession{}, fmt.Errorf("%w: %w", ports.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return ports.PaymentSession{}, fmt.Errorf("%w: provider returned %s",
			ports.ErrUpstreamUnavailable, resp.Status)
	case resp.StatusCode != http.StatusOK:
		return ports.PaymentSession{}, fmt.Errorf("payment initiation rejected: %s", resp.Status)
	}

	var body initiateResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ports.PaymentSession{}, fmt.Errorf("decode initiation response: %w", err)
	}
	if body.ExternalRef == "" {
		return ports.PaymentSession{}, fmt.Errorf("payment initiation response has no session reference")
	}

	return ports.PaymentSession{
		ExternalRef: body.ExternalRef,
		RedirectURL: body.PaymentURL,
	}, nil
}
